package database

import (
	"context"

	"hotel/internal/models"
)

const roomColumns = `id, number, type, price_per_day, description`

func (db *DB) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`
	if err := db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, mapError("list rooms", err)
	}
	return rooms, nil
}

// CreateRoom inserts the room and sets its ID. A taken number yields ErrDuplicate.
func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	query := `INSERT INTO rooms (number, type, price_per_day, description) VALUES (?, ?, ?, ?) RETURNING id`
	err := db.QueryRowxContext(ctx, db.Rebind(query),
		room.Number, room.Type, room.PricePerDay, room.Description).Scan(&room.ID)
	return mapError("create room", err)
}

func (db *DB) GetRoomByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	if err := db.GetContext(ctx, &room, db.Rebind(query), id); err != nil {
		return nil, mapError("get room", err)
	}
	return &room, nil
}

func (db *DB) GetRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE number = ?`
	if err := db.GetContext(ctx, &room, db.Rebind(query), number); err != nil {
		return nil, mapError("get room by number", err)
	}
	return &room, nil
}

// ListAvailableRooms returns rooms with no active booking overlapping r.
func (db *DB) ListAvailableRooms(ctx context.Context, r models.DateRange) ([]models.Room, error) {
	rooms := []models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms r
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = r.id AND b.status <> ? AND b.date_from <= ? AND b.date_to >= ?
		)
		ORDER BY r.id`
	err := db.SelectContext(ctx, &rooms, db.Rebind(query), models.StatusCancelled, dateArg(r.To), dateArg(r.From))
	if err != nil {
		return nil, mapError("list available rooms", err)
	}
	return rooms, nil
}
