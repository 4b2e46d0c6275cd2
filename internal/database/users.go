package database

import (
	"context"
	"time"

	"hotel/internal/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, login, credential, role, created_at`

// CreateUser inserts the user and sets its ID. A taken login yields ErrDuplicate.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO users (login, credential, role, created_at) VALUES (?, ?, ?, ?) RETURNING id`
	err := db.QueryRowxContext(ctx, db.Rebind(query),
		user.Login, user.Credential, user.Role, user.CreatedAt).Scan(&user.ID)
	return mapError("create user", err)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	if err := db.GetContext(ctx, &user, db.Rebind(query), id); err != nil {
		return nil, mapError("get user", err)
	}
	return &user, nil
}

// GetUserByCredentials matches login and credential exactly. No match yields ErrNotFound.
func (db *DB) GetUserByCredentials(ctx context.Context, login, credential string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE login = ? AND credential = ?`
	if err := db.GetContext(ctx, &user, db.Rebind(query), login, credential); err != nil {
		return nil, mapError("get user by credentials", err)
	}
	return &user, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	if err := db.SelectContext(ctx, &users, query); err != nil {
		return nil, mapError("list users", err)
	}
	return users, nil
}

// UpdateUserRole changes the role and returns the re-read user, both in one transaction.
func (db *DB) UpdateUserRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	var user models.User
	err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET role = ? WHERE id = ?`), role, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.GetContext(ctx, &user, tx.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	})
	if err != nil {
		return nil, mapError("update user role", err)
	}
	return &user, nil
}
