package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/export"
	"hotel/internal/models"
	"hotel/internal/repository"
	"hotel/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExporter struct {
	calls  int
	period *models.DateRange
}

func (s *stubExporter) ExportBookings(_ context.Context, r *models.DateRange) (string, error) {
	s.calls++
	s.period = r
	return "exports/bookings.xlsx", nil
}

type harness struct {
	db   *database.DB
	deps Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithSessions(t, repository.NewMemorySessionStore(0))
}

func newHarnessWithSessions(t *testing.T, sessions domain.SessionStore) *harness {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &harness{
		db: db,
		deps: Deps{
			Users:    service.NewUserService(db, sessions, &logger),
			Rooms:    service.NewRoomService(db, &logger),
			Catalog:  service.NewCatalogService(db, &logger),
			Bookings: service.NewBookingService(db, nil, service.BookingOptions{}, &logger),
		},
	}
}

func (h *harness) user(t *testing.T, login, password string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Login: login, Credential: service.HashCredential(password), Role: role}
	require.NoError(t, h.db.CreateUser(context.Background(), u))
	return u
}

func (h *harness) room(t *testing.T, number, price string) *models.Room {
	t.Helper()
	r := &models.Room{Number: number, Type: "double", PricePerDay: decimal.RequireFromString(price)}
	require.NoError(t, h.db.CreateRoom(context.Background(), r))
	return r
}

func (h *harness) booking(t *testing.T, userID, roomID int64, from, to string) *models.Booking {
	t.Helper()
	r, err := models.NewDateRange(from, to)
	require.NoError(t, err)
	b := &models.Booking{UserID: userID, RoomID: roomID, DateFrom: r.From, DateTo: r.To, Status: models.StatusPending}
	require.NoError(t, h.db.CreateBookingIfAvailable(context.Background(), b))
	return b
}

// run feeds the script line by line and returns everything printed.
func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	logger := zerolog.Nop()
	var out bytes.Buffer
	c := New(h.deps, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, &logger)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestRun_ExitAndEndOfInput(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "0")
	assert.Contains(t, out, "Hotel Management System")
	assert.Contains(t, out, "Goodbye!")

	logger := zerolog.Nop()
	var buf bytes.Buffer
	c := New(h.deps, strings.NewReader(""), &buf, &logger)
	assert.NoError(t, c.Run(context.Background()))
}

func TestRun_CancelledContext(t *testing.T) {
	h := newHarness(t)
	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	c := New(h.deps, strings.NewReader("0\n"), &out, &logger)
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestRun_InvalidMenuInput(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "abc", "7", "0")

	assert.Contains(t, out, "Invalid input. Please enter a number.")
	assert.Contains(t, out, "Invalid choice.")
	assert.Contains(t, out, "Goodbye!")
}

// expiringStore drops every session as soon as it is read back.
type expiringStore struct {
	*repository.MemorySessionStore
}

func (s expiringStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if err := s.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.MemorySessionStore.Get(ctx, id)
}

func TestRun_ExpiredSessionReturnsToLogin(t *testing.T) {
	h := newHarnessWithSessions(t, expiringStore{repository.NewMemorySessionStore(time.Hour)})
	h.user(t, "admin", "admin", models.RoleAdmin)

	out := h.run(t, "1", "admin", "admin", "0")

	assert.Contains(t, out, "Login successful!")
	assert.Contains(t, out, "Your session has expired. Please log in again.")
	assert.NotContains(t, out, "Admin Menu")
	assert.Equal(t, 2, strings.Count(out, "===== Hotel Management System ====="))
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_SessionTTL(t *testing.T) {
	h := newHarnessWithSessions(t, repository.NewMemorySessionStore(time.Nanosecond))
	h.user(t, "guest", "pw", models.RoleUser)

	out := h.run(t, "1", "guest", "pw", "0")
	assert.Contains(t, out, "Your session has expired. Please log in again.")
	assert.NotContains(t, out, "User Menu")
}

func TestGuestRegistersAndBooks(t *testing.T) {
	h := newHarness(t)
	room := h.room(t, "201", "100")

	out := h.run(t,
		"2", "bob", "secret",
		"1", "bob", "secret",
		"1", "2030-01-01", "2030-01-03",
		"2", fmt.Sprint(room.ID), "2030/01/01", "2030-01-01", "2030-01-03",
		"3",
		"0", "0",
	)

	assert.Contains(t, out, "Registration successful! You can now log in.")
	assert.Contains(t, out, "Login successful!")
	assert.Contains(t, out, "User Menu")
	assert.Contains(t, out, "Invalid format. Please use YYYY-MM-DD: ")
	assert.Contains(t, out, "Booking successful! Your booking ID is 1")
	assert.Contains(t, out, "Room: 201")
	assert.Contains(t, out, "Dates: 2030-01-01 to 2030-01-03")
	assert.Contains(t, out, "Status: pending")
	assert.Contains(t, out, "Logged out.")

	user, err := h.db.GetUserByCredentials(context.Background(), "bob", service.HashCredential("secret"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, service.HashCredential("secret"), user.Credential)
}

func TestGuestBookingConflicts(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "alice", "pw", models.RoleUser)
	h.user(t, "bob", "pw", models.RoleUser)
	room := h.room(t, "201", "100")
	h.booking(t, owner.ID, room.ID, "2030-01-01", "2030-01-05")

	out := h.run(t,
		"1", "bob", "pw",
		"1", "2030-01-05", "2030-01-06",
		"2", fmt.Sprint(room.ID), "2030-01-05", "2030-01-06",
		"2", fmt.Sprint(room.ID), "2030-01-06", "2030-01-04",
		"2", "99",
		"3",
		"0", "0",
	)

	assert.Contains(t, out, "No rooms available for the selected dates.")
	assert.Contains(t, out, "The room is not available for these dates.")
	assert.Contains(t, out, "Check-out date must not be before check-in date.")
	assert.Contains(t, out, "Not found.")
	assert.Contains(t, out, "You have no bookings.")
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t)
	h.user(t, "alice", "pw", models.RoleUser)

	out := h.run(t,
		"1", "alice", "wrong",
		"1", "nobody", "pw",
		"2", "alice", "other",
		"0",
	)

	assert.Equal(t, 2, strings.Count(out, "Invalid username or password."))
	assert.Contains(t, out, "Registration failed. Username might already exist.")
}

func TestAdminWorkflow(t *testing.T) {
	h := newHarness(t)
	h.user(t, "admin", "admin", models.RoleAdmin)
	guest := h.user(t, "guest", "pw", models.RoleUser)
	room := h.room(t, "301", "150")
	booking := h.booking(t, guest.ID, room.ID, "2030-01-01", "2030-01-03")
	id := fmt.Sprint(booking.ID)

	out := h.run(t,
		"1", "admin", "admin",
		"8", "101", "suite", "200.00", "Sea view",
		"8", "101", "single", "90", "Duplicate",
		"8", "102", "single", "abc",
		"10", "Breakfast", "12.50",
		"3", id, "1", "2",
		"3", id, "1", "0",
		"4", id,
		"2", id, "1",
		"2", id, "3",
		"11", id, "1",
		"4", id,
		"5", fmt.Sprint(guest.ID), "2",
		"6", "1", "clerk", "pw",
		"0", "0",
	)

	assert.Contains(t, out, "Admin Menu")
	assert.Contains(t, out, "Room added successfully!")
	assert.Contains(t, out, "Failed to add room. Room number might already exist.")
	assert.Contains(t, out, "Invalid price entered.")
	assert.Contains(t, out, "Service added successfully!")
	assert.Contains(t, out, "Service added.")
	assert.Contains(t, out, "Quantity must be a positive number.")
	assert.Contains(t, out, "Room: 301 (double) for 3 day(s): $450.00")
	assert.Contains(t, out, "  - Breakfast (x2): $25.00")
	assert.Contains(t, out, "Total cost: $475.00")
	assert.Contains(t, out, "Booking status updated.")
	assert.Contains(t, out, "1. Confirmed\n2. Cancelled\n")
	assert.Contains(t, out, "1. Cancelled\n2. Completed\n")
	assert.Contains(t, out, "Invalid choice.")
	assert.Contains(t, out, "Service removed.")
	assert.Contains(t, out, "Total cost: $450.00")
	assert.Contains(t, out, "User role updated successfully.")
	assert.Contains(t, out, "User registered successfully.")

	ctx := context.Background()
	stored, err := h.db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)

	promoted, err := h.db.GetUserByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, promoted.Role)

	clerk, err := h.db.GetUserByCredentials(ctx, "clerk", service.HashCredential("pw"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, clerk.Role)
}

func TestManageBookingStatus_FinalStatus(t *testing.T) {
	h := newHarness(t)
	h.user(t, "manager", "pw", models.RoleManager)
	guest := h.user(t, "guest", "pw", models.RoleUser)
	room := h.room(t, "301", "150")
	b := h.booking(t, guest.ID, room.ID, "2030-01-01", "2030-01-03")

	ctx := context.Background()
	require.NoError(t, h.db.UpdateBookingStatus(ctx, b.ID, models.StatusPending, models.StatusConfirmed))
	require.NoError(t, h.db.UpdateBookingStatus(ctx, b.ID, models.StatusConfirmed, models.StatusCompleted))

	out := h.run(t, "1", "manager", "pw", "2", fmt.Sprint(b.ID), "0", "0")
	assert.Contains(t, out, "Current status: completed")
	assert.Contains(t, out, "No status changes are available for this booking.")
}

func TestManageUserRoles_Cancel(t *testing.T) {
	h := newHarness(t)
	h.user(t, "admin", "admin", models.RoleAdmin)

	out := h.run(t,
		"1", "admin", "admin",
		"5", "-1",
		"5", "42",
		"0", "0",
	)

	assert.Contains(t, out, "Role management cancelled.")
	assert.Contains(t, out, "User with ID 42 not found.")
}

func TestManagerMenu(t *testing.T) {
	h := newHarness(t)
	h.user(t, "manager", "pw", models.RoleManager)
	exporter := &stubExporter{}
	h.deps.Exporter = exporter

	out := h.run(t,
		"1", "manager", "pw",
		"1",
		"8", "",
		"8", "2030-01-01", "2030-01-31",
		"0", "0",
	)

	assert.Contains(t, out, "Manager Menu")
	assert.NotContains(t, out, "Manage User Roles")
	assert.Contains(t, out, "No bookings found.")
	assert.Contains(t, out, "Bookings exported to exports/bookings.xlsx")
	require.Equal(t, 2, exporter.calls)
	require.NotNil(t, exporter.period)
	assert.Equal(t, "2030-01-01 to 2030-01-31", exporter.period.String())
}

func TestExportWithoutExporter(t *testing.T) {
	h := newHarness(t)
	h.user(t, "manager", "pw", models.RoleManager)

	out := h.run(t, "1", "manager", "pw", "8", "0", "0")
	assert.Contains(t, out, "Export is not configured.")
}

type failingRooms struct {
	domain.RoomService
}

func (failingRooms) ListRooms(context.Context) ([]models.Room, error) {
	return nil, &database.PersistenceError{Op: "list rooms", Err: errors.New("disk I/O error")}
}

func TestStorageFailureKeepsRunning(t *testing.T) {
	h := newHarness(t)
	h.user(t, "admin", "admin", models.RoleAdmin)
	h.deps.Rooms = failingRooms{RoomService: h.deps.Rooms}

	out := h.run(t,
		"1", "admin", "admin",
		"7",
		"9",
		"0", "0",
	)

	assert.Contains(t, out, "A storage error occurred. Please try again later.")
	assert.Contains(t, out, "No services found.")
	assert.Contains(t, out, "Goodbye!")
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errBadNumber, "Invalid input. Please enter a number."},
		{database.ErrNotAvailable, "The room is not available for these dates."},
		{service.ErrTransitionNotAllowed, "This status change is not allowed."},
		{database.ErrConcurrentModification, "The booking was changed meanwhile. Please try again."},
		{service.ErrForbidden, "You do not have permission for this action."},
		{service.ErrUnauthenticated, "Error: You must be logged in."},
		{&database.PersistenceError{Op: "list rooms", Err: errors.New("disk I/O error")}, "A storage error occurred. Please try again later."},
		{service.ErrEmptyField, "Invalid input: validation failed: required field is empty"},
		{fmt.Errorf("%w: 400 days", export.ErrRangeTooLong), "The export period is too long."},
		{errors.New("boom"), "Unexpected error: boom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errorMessage(tt.err))
	}
}
