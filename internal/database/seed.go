package database

import (
	"context"
	"errors"

	"hotel/internal/models"
)

// SeedResult counts inserted rows; entries that already exist are skipped.
type SeedResult struct {
	Rooms    int
	Services int
	Users    int
}

// Seed loads bootstrap data. It is safe to run on every start.
func (db *DB) Seed(ctx context.Context, seed models.Seed) (SeedResult, error) {
	var res SeedResult

	for _, r := range seed.Rooms {
		room := r
		err := db.CreateRoom(ctx, &room)
		switch {
		case err == nil:
			res.Rooms++
		case errors.Is(err, ErrDuplicate):
		default:
			return res, err
		}
	}

	for _, s := range seed.Services {
		service := s
		err := db.CreateService(ctx, &service)
		switch {
		case err == nil:
			res.Services++
		case errors.Is(err, ErrDuplicate):
		default:
			return res, err
		}
	}

	for _, u := range seed.Users {
		user := models.User{Login: u.Login, Credential: u.Credential, Role: models.ParseRole(string(u.Role))}
		err := db.CreateUser(ctx, &user)
		switch {
		case err == nil:
			res.Users++
		case errors.Is(err, ErrDuplicate):
		default:
			return res, err
		}
	}

	db.logger.Info().Int("rooms", res.Rooms).Int("services", res.Services).Int("users", res.Users).Msg("Seed applied")
	return res, nil
}
