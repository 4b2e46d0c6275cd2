package database

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        login TEXT NOT NULL UNIQUE,
        credential TEXT NOT NULL,
        role TEXT NOT NULL DEFAULT 'user',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS rooms (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        number TEXT NOT NULL UNIQUE,
        type TEXT NOT NULL,
        price_per_day NUMERIC NOT NULL,
        description TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS services (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        price NUMERIC NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS bookings (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL REFERENCES users(id),
        room_id INTEGER NOT NULL REFERENCES rooms(id),
        date_from DATE NOT NULL,
        date_to DATE NOT NULL,
        status TEXT NOT NULL DEFAULT 'pending',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS booking_services (
        booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
        service_id INTEGER NOT NULL REFERENCES services(id),
        quantity INTEGER NOT NULL,
        PRIMARY KEY (booking_id, service_id)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_room_dates ON bookings(room_id, date_from, date_to)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id)`,
	// Активные брони одной комнаты не должны пересекаться (границы включительно)
	`CREATE TRIGGER IF NOT EXISTS bookings_no_overlap_insert
    BEFORE INSERT ON bookings
    WHEN NEW.status <> 'cancelled'
    BEGIN
        SELECT RAISE(ABORT, 'room_unavailable')
        WHERE EXISTS (
            SELECT 1 FROM bookings b
            WHERE b.room_id = NEW.room_id
              AND b.status <> 'cancelled'
              AND b.date_from <= NEW.date_to
              AND b.date_to >= NEW.date_from
        );
    END`,
	`CREATE TRIGGER IF NOT EXISTS bookings_no_overlap_update
    BEFORE UPDATE OF status, room_id, date_from, date_to ON bookings
    WHEN NEW.status <> 'cancelled'
    BEGIN
        SELECT RAISE(ABORT, 'room_unavailable')
        WHERE EXISTS (
            SELECT 1 FROM bookings b
            WHERE b.id <> NEW.id
              AND b.room_id = NEW.room_id
              AND b.status <> 'cancelled'
              AND b.date_from <= NEW.date_to
              AND b.date_to >= NEW.date_from
        );
    END`,
}

var postgresSchema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS users (
        id BIGSERIAL PRIMARY KEY,
        login TEXT NOT NULL UNIQUE,
        credential TEXT NOT NULL,
        role TEXT NOT NULL DEFAULT 'user',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS rooms (
        id BIGSERIAL PRIMARY KEY,
        number TEXT NOT NULL UNIQUE,
        type TEXT NOT NULL,
        price_per_day NUMERIC(12,2) NOT NULL,
        description TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS services (
        id BIGSERIAL PRIMARY KEY,
        name TEXT NOT NULL UNIQUE,
        price NUMERIC(12,2) NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS bookings (
        id BIGSERIAL PRIMARY KEY,
        user_id BIGINT NOT NULL REFERENCES users(id),
        room_id BIGINT NOT NULL REFERENCES rooms(id),
        date_from DATE NOT NULL,
        date_to DATE NOT NULL,
        status TEXT NOT NULL DEFAULT 'pending',
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
            room_id WITH =,
            daterange(date_from, date_to, '[]') WITH &&
        ) WHERE (status <> 'cancelled')
    )`,
	`CREATE TABLE IF NOT EXISTS booking_services (
        booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
        service_id BIGINT NOT NULL REFERENCES services(id),
        quantity INTEGER NOT NULL,
        PRIMARY KEY (booking_id, service_id)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id)`,
}
