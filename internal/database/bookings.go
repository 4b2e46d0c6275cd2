package database

import (
	"context"
	"fmt"
	"time"

	"hotel/internal/models"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, user_id, room_id, date_from, date_to, status, created_at, updated_at`

const overlapCountQuery = `SELECT COUNT(*) FROM bookings
	WHERE room_id = ? AND status <> ? AND date_from <= ? AND date_to >= ?`

// dbDate reads DATE columns: sqlite returns time.Time or text depending on the column type.
type dbDate struct {
	time.Time
}

func (d *dbDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = models.Day(v)
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Time = time.Time{}
	default:
		return fmt.Errorf("unsupported date type %T", src)
	}
	return nil
}

func (d *dbDate) parse(s string) error {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type bookingRow struct {
	ID        int64                `db:"id"`
	UserID    int64                `db:"user_id"`
	RoomID    int64                `db:"room_id"`
	DateFrom  dbDate               `db:"date_from"`
	DateTo    dbDate               `db:"date_to"`
	Status    models.BookingStatus `db:"status"`
	CreatedAt time.Time            `db:"created_at"`
	UpdatedAt time.Time            `db:"updated_at"`
}

func (r bookingRow) toModel() models.Booking {
	return models.Booking{
		ID:        r.ID,
		UserID:    r.UserID,
		RoomID:    r.RoomID,
		DateFrom:  r.DateFrom.Time,
		DateTo:    r.DateTo.Time,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toBookings(rows []bookingRow) []models.Booking {
	out := make([]models.Booking, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}

func dateArg(t time.Time) string {
	return t.Format(models.DateLayout)
}

func (db *DB) countOverlaps(ctx context.Context, q sqlx.QueryerContext, roomID int64, r models.DateRange) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, db.Rebind(overlapCountQuery),
		roomID, models.StatusCancelled, dateArg(r.To), dateArg(r.From))
	return count, err
}

// IsRoomAvailable reports whether no active booking of the room overlaps r.
func (db *DB) IsRoomAvailable(ctx context.Context, roomID int64, r models.DateRange) (bool, error) {
	count, err := db.countOverlaps(ctx, db.DB, roomID, r)
	if err != nil {
		return false, mapError("check availability", err)
	}
	return count == 0, nil
}

// CreateBookingIfAvailable checks availability and inserts the booking in one transaction.
// ID and timestamps are filled on success.
func (db *DB) CreateBookingIfAvailable(ctx context.Context, booking *models.Booking) error {
	now := time.Now().UTC()
	var id int64
	err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
		count, err := db.countOverlaps(ctx, tx, booking.RoomID, booking.Range())
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrNotAvailable
		}

		query := `INSERT INTO bookings (user_id, room_id, date_from, date_to, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
		return tx.QueryRowxContext(ctx, tx.Rebind(query),
			booking.UserID,
			booking.RoomID,
			dateArg(booking.DateFrom),
			dateArg(booking.DateTo),
			booking.Status,
			now,
			now,
		).Scan(&id)
	})
	if err != nil {
		return mapError("create booking", err)
	}

	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := db.GetContext(ctx, &row, db.Rebind(query), id); err != nil {
		return nil, mapError("get booking", err)
	}
	b := row.toModel()
	return &b, nil
}

func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY date_from, id`
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, mapError("list bookings", err)
	}
	return toBookings(rows), nil
}

func (db *DB) ListBookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY date_from, id`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), userID); err != nil {
		return nil, mapError("list user bookings", err)
	}
	return toBookings(rows), nil
}

// ListBookingsInRange returns bookings of any status that overlap r.
func (db *DB) ListBookingsInRange(ctx context.Context, r models.DateRange) ([]models.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE date_from <= ? AND date_to >= ? ORDER BY date_from, id`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), dateArg(r.To), dateArg(r.From)); err != nil {
		return nil, mapError("list bookings in range", err)
	}
	return toBookings(rows), nil
}

// UpdateBookingStatus moves a booking from status `from` to `to`. When the stored
// status is no longer `from` it fails with ErrConcurrentModification. Reactivating
// a cancelled booking over an occupied range fails with ErrNotAvailable.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
		res, err := tx.ExecContext(ctx, tx.Rebind(query), to, time.Now().UTC(), id, from)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		var exists int
		if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM bookings WHERE id = ?`), id); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrConcurrentModification
	})
	if err != nil {
		return mapError("update booking status", err)
	}
	return nil
}

// UpsertBookingService sets the quantity of a service on a booking, replacing any previous value.
func (db *DB) UpsertBookingService(ctx context.Context, bookingID, serviceID int64, quantity int) error {
	query := `INSERT INTO booking_services (booking_id, service_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT (booking_id, service_id) DO UPDATE SET quantity = excluded.quantity`
	if _, err := db.ExecContext(ctx, db.Rebind(query), bookingID, serviceID, quantity); err != nil {
		return mapError("upsert booking service", err)
	}
	return nil
}

// DeleteBookingService is a no-op when the service is not attached.
func (db *DB) DeleteBookingService(ctx context.Context, bookingID, serviceID int64) error {
	query := `DELETE FROM booking_services WHERE booking_id = ? AND service_id = ?`
	if _, err := db.ExecContext(ctx, db.Rebind(query), bookingID, serviceID); err != nil {
		return mapError("delete booking service", err)
	}
	return nil
}

// GetBookingServices returns service id -> quantity for the booking.
func (db *DB) GetBookingServices(ctx context.Context, bookingID int64) (map[int64]int, error) {
	var rows []struct {
		ServiceID int64 `db:"service_id"`
		Quantity  int   `db:"quantity"`
	}
	query := `SELECT service_id, quantity FROM booking_services WHERE booking_id = ?`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), bookingID); err != nil {
		return nil, mapError("get booking services", err)
	}
	out := make(map[int64]int, len(rows))
	for _, r := range rows {
		out[r.ServiceID] = r.Quantity
	}
	return out, nil
}
