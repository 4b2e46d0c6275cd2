package database

import (
	"context"

	"hotel/internal/models"

	"github.com/jmoiron/sqlx"
)

const serviceColumns = `id, name, price`

func (db *DB) ListServices(ctx context.Context) ([]models.Service, error) {
	services := []models.Service{}
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY id`
	if err := db.SelectContext(ctx, &services, query); err != nil {
		return nil, mapError("list services", err)
	}
	return services, nil
}

// CreateService inserts the service and sets its ID. A taken name yields ErrDuplicate.
func (db *DB) CreateService(ctx context.Context, service *models.Service) error {
	query := `INSERT INTO services (name, price) VALUES (?, ?) RETURNING id`
	err := db.QueryRowxContext(ctx, db.Rebind(query), service.Name, service.Price).Scan(&service.ID)
	return mapError("create service", err)
}

func (db *DB) GetServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ?`
	if err := db.GetContext(ctx, &service, db.Rebind(query), id); err != nil {
		return nil, mapError("get service", err)
	}
	return &service, nil
}

// GetServicesByIDs loads several services at once, keyed by id.
func (db *DB) GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]models.Service, error) {
	out := make(map[int64]models.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+serviceColumns+` FROM services WHERE id IN (?)`, ids)
	if err != nil {
		return nil, mapError("get services", err)
	}
	var services []models.Service
	if err := db.SelectContext(ctx, &services, db.Rebind(query), args...); err != nil {
		return nil, mapError("get services", err)
	}
	for _, s := range services {
		out[s.ID] = s
	}
	return out, nil
}
