package repository

import (
	"context"
	"sync/atomic"
	"time"

	"hotel/internal/domain"
	"hotel/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverSessionStore uses primary until it fails, then serves from fallback
// and retries primary once per recoveryInterval.
type FailoverSessionStore struct {
	primary   domain.SessionStore
	fallback  domain.SessionStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSessionStore(primary, fallback domain.SessionStore, logger *zerolog.Logger) *FailoverSessionStore {
	return &FailoverSessionStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionStore) markDown(err error) {
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
	}
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionStore) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if r.usePrimary() {
		sess, err := r.primary.Get(ctx, id)
		if err == nil {
			if r.isDown.Swap(false) {
				r.logger.Info().Msg("Primary session store recovered")
			}
			if sess != nil {
				return sess, nil
			}
			// сессия могла быть создана, пока основной стор был недоступен
			return r.fallback.Get(ctx, id)
		}
		r.markDown(err)
	}

	return r.fallback.Get(ctx, id)
}

func (r *FailoverSessionStore) Save(ctx context.Context, sess *models.Session) error {
	if r.usePrimary() {
		err := r.primary.Save(ctx, sess)
		if err == nil {
			r.isDown.Store(false)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Save(ctx, sess)
}

// Delete clears both stores so a session saved during an outage is not revived.
func (r *FailoverSessionStore) Delete(ctx context.Context, id string) error {
	if r.usePrimary() {
		if err := r.primary.Delete(ctx, id); err != nil {
			r.markDown(err)
		}
	}

	return r.fallback.Delete(ctx, id)
}
