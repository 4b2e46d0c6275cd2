package service

import (
	"context"
	"errors"
	"strings"

	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CatalogService manages the extra services that can be attached to bookings.
type CatalogService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewCatalogService(repo domain.Repository, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.repo.ListServices(ctx)
}

// AddService returns false without error when the name is already taken.
func (s *CatalogService) AddService(ctx context.Context, sess *models.Session, name string, price decimal.Decimal) (bool, error) {
	if err := requireRole(sess, models.RoleAdmin, models.RoleManager); err != nil {
		return false, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyField
	}
	if price.IsNegative() {
		return false, ErrNegativePrice
	}

	service := &models.Service{Name: name, Price: price}
	if err := s.repo.CreateService(ctx, service); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info().Int64("service_id", service.ID).Str("name", service.Name).Msg("Service added")
	return true, nil
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (*models.Service, error) {
	return s.repo.GetServiceByID(ctx, id)
}
