package repository

import (
	"context"
	"sync"
	"time"

	"hotel/internal/models"
)

type memoryEntry struct {
	session   models.Session
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process. Entries expire lazily on read.
type MemorySessionStore struct {
	sessions sync.Map
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	val, ok := r.sessions.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		r.sessions.Delete(id)
		return nil, nil
	}
	sess := entry.session
	return &sess, nil
}

func (r *MemorySessionStore) Save(_ context.Context, sess *models.Session) error {
	r.sessions.Store(sess.ID, &memoryEntry{
		session:   *sess,
		expiresAt: r.now().Add(r.ttl),
	})
	return nil
}

func (r *MemorySessionStore) Delete(_ context.Context, id string) error {
	r.sessions.Delete(id)
	return nil
}
