package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/events"
	"hotel/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingService(f *fixture, opts BookingOptions) *BookingService {
	return NewBookingService(f.db, events.NewEventBus(), opts, f.logger)
}

func TestBookingService_Room201Scenario(t *testing.T) {
	f := newFixture(t)
	s := newBookingService(f, BookingOptions{})
	ctx := context.Background()
	room := f.room(t, "201", "50")

	a, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2023-01-01", "2023-01-05"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, f.guest.User.ID, a.UserID)
	require.NoError(t, s.UpdateStatus(ctx, f.manager, a, models.StatusConfirmed))
	assert.Equal(t, models.StatusConfirmed, a.Status)

	overlap := dateRange(t, "2023-01-04", "2023-01-10")
	ok, err := s.IsRoomAvailable(ctx, room.ID, overlap)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.CreateBooking(ctx, f.guest, room.ID, overlap)
	assert.ErrorIs(t, err, database.ErrNotAvailable)
	assert.ErrorIs(t, err, database.ErrConflict)

	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2023-01-06", "2023-01-10"))
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	mine, err := s.MyBookings(ctx, f.guest)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestBookingService_CreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	s := newBookingService(f, BookingOptions{MaxDays: 7})
	ctx := context.Background()
	room := f.room(t, "101", "50")
	r := dateRange(t, "2024-01-01", "2024-01-02")

	_, err := s.CreateBooking(ctx, nil, room.ID, r)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = s.CreateBooking(ctx, f.guest, room.ID, models.DateRange{From: r.To, To: r.From})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, models.ErrInvertedRange)

	_, err = s.CreateBooking(ctx, f.guest, room.ID, models.DateRange{From: r.From})
	assert.ErrorIs(t, err, models.ErrEmptyDate)

	_, err = s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-01-01", "2024-01-08"))
	assert.ErrorIs(t, err, ErrBookingTooLong)

	_, err = s.CreateBooking(ctx, f.guest, 999, r)
	assert.ErrorIs(t, err, database.ErrNotFound)

	all, err := s.ListBookings(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookingService_CreateBookingConcurrent(t *testing.T) {
	f := newFixture(t)
	s := newBookingService(f, BookingOptions{})
	ctx := context.Background()
	room := f.room(t, "101", "50")
	r := dateRange(t, "2024-08-01", "2024-08-05")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateBooking(ctx, f.guest, room.ID, r)
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, database.ErrNotAvailable)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	s := newBookingService(f, BookingOptions{})
	ctx := context.Background()
	room := f.room(t, "101", "50")

	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-01-01", "2024-01-03"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.UpdateStatus(ctx, f.guest, b, models.StatusConfirmed), ErrForbidden)
	assert.ErrorIs(t, s.UpdateStatus(ctx, f.admin, nil, models.StatusConfirmed), ErrNilBooking)
	assert.ErrorIs(t, s.UpdateStatus(ctx, f.admin, b, models.BookingStatus("archived")), ErrValidation)

	// strict: pending -> completed is not allowed
	err = s.UpdateStatus(ctx, f.admin, b, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
	assert.Equal(t, models.StatusPending, b.Status)

	require.NoError(t, s.UpdateStatus(ctx, f.admin, b, models.StatusConfirmed))
	require.NoError(t, s.UpdateStatus(ctx, f.admin, b, models.StatusCompleted))

	stored, err := s.GetBooking(ctx, f.admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	assert.ErrorIs(t, s.UpdateStatus(ctx, f.admin, b, models.StatusConfirmed), ErrTransitionNotAllowed)
	assert.NoError(t, s.UpdateStatus(ctx, f.admin, b, models.StatusCompleted))

	ghost := &models.Booking{ID: 404}
	assert.ErrorIs(t, s.UpdateStatus(ctx, f.admin, ghost, models.StatusConfirmed), database.ErrNotFound)
}

// racingRepo cancels the booking right after the service has read it.
type racingRepo struct {
	*database.DB
	once sync.Once
}

func (r *racingRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := r.DB.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	r.once.Do(func() {
		_, err = r.DB.ExecContext(ctx, `UPDATE bookings SET status = 'cancelled' WHERE id = ?`, id)
	})
	return b, err
}

func TestBookingService_UpdateStatusConcurrentChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, "101", "50")

	s := NewBookingService(&racingRepo{DB: f.db}, nil, BookingOptions{}, f.logger)
	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-03-01", "2024-03-02"))
	require.NoError(t, err)

	err = s.UpdateStatus(ctx, f.manager, b, models.StatusConfirmed)
	assert.ErrorIs(t, err, database.ErrConcurrentModification)
	assert.Equal(t, models.StatusPending, b.Status)

	stored, err := f.db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
}

func TestBookingService_ReactivationRevalidated(t *testing.T) {
	f := newFixture(t)
	s := newBookingService(f, BookingOptions{Transitions: PermissiveTransitions()})
	ctx := context.Background()
	room := f.room(t, "101", "50")
	r := dateRange(t, "2024-02-01", "2024-02-04")

	first, err := s.CreateBooking(ctx, f.guest, room.ID, r)
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, f.manager, first, models.StatusCancelled))

	second, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-02-03", "2024-02-05"))
	require.NoError(t, err)

	err = s.UpdateStatus(ctx, f.manager, first, models.StatusConfirmed)
	assert.ErrorIs(t, err, database.ErrNotAvailable)
	assert.Equal(t, models.StatusCancelled, first.Status)

	require.NoError(t, s.UpdateStatus(ctx, f.manager, second, models.StatusCancelled))
	require.NoError(t, s.UpdateStatus(ctx, f.manager, first, models.StatusConfirmed))
}

func TestBookingService_GetBookingOwnership(t *testing.T) {
	f := newFixture(t)
	s := newBookingService(f, BookingOptions{})
	ctx := context.Background()
	room := f.room(t, "101", "50")
	other := f.session(t, "other", models.RoleUser)

	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-01-01", "2024-01-01"))
	require.NoError(t, err)

	_, err = s.GetBooking(ctx, f.guest, b.ID)
	assert.NoError(t, err)
	_, err = s.GetBooking(ctx, other, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.GetBooking(ctx, f.manager, b.ID)
	assert.NoError(t, err)

	_, err = s.ListBookings(ctx, f.guest)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBookingService_Services(t *testing.T) {
	f := newFixture(t)
	s := newBookingService(f, BookingOptions{})
	ctx := context.Background()
	room := f.room(t, "101", "50")
	spa := f.service(t, "Spa", "30")

	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-01-01", "2024-01-02"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.AddServiceToBooking(ctx, f.manager, b, spa.ID, 1), ErrForbidden)
	assert.ErrorIs(t, s.AddServiceToBooking(ctx, f.admin, b, spa.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.AddServiceToBooking(ctx, f.admin, b, spa.ID, -3), ErrValidation)
	assert.ErrorIs(t, s.AddServiceToBooking(ctx, f.admin, b, 999, 1), database.ErrNotFound)

	require.NoError(t, s.AddServiceToBooking(ctx, f.admin, b, spa.ID, 2))
	require.NoError(t, s.AddServiceToBooking(ctx, f.admin, b, spa.ID, 4))

	attached, err := s.GetServices(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{spa.ID: 4}, attached)

	require.NoError(t, s.RemoveServiceFromBooking(ctx, f.admin, b, spa.ID))
	require.NoError(t, s.RemoveServiceFromBooking(ctx, f.admin, b, spa.ID))

	attached, err = s.GetServices(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, attached)
}

func TestBookingService_ServiceEditorsConfigurable(t *testing.T) {
	f := newFixture(t)
	opts, err := BookingOptionsFromConfig(
		config.BookingConfig{Transitions: config.TransitionsStrict, MaxDays: 30, ServiceEditors: []string{"admin", "manager"}},
		config.BillingConfig{DayCount: config.DayCountNights},
	)
	require.NoError(t, err)
	s := newBookingService(f, opts)
	ctx := context.Background()
	room := f.room(t, "101", "50")
	spa := f.service(t, "Spa", "30")

	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-01-01", "2024-01-02"))
	require.NoError(t, err)
	assert.NoError(t, s.AddServiceToBooking(ctx, f.manager, b, spa.ID, 1))
	assert.ErrorIs(t, s.AddServiceToBooking(ctx, f.guest, b, spa.ID, 1), ErrForbidden)
}

func TestBookingService_PublishesEvents(t *testing.T) {
	f := newFixture(t)
	pub := new(mockPublisher)
	s := NewBookingService(f.db, pub, BookingOptions{}, f.logger)
	ctx := context.Background()
	room := f.room(t, "101", "50")

	pub.On("PublishJSON", events.EventBookingCreated, mock.AnythingOfType("events.BookingEventPayload")).Return(nil).Once()
	pub.On("PublishJSON", events.EventBookingStatusChanged, mock.MatchedBy(func(p events.BookingEventPayload) bool {
		return p.PrevStatus == "pending" && p.Status == "confirmed" && p.ChangedBy == "manager"
	})).Return(errors.New("bus down")).Once()

	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2024-01-01", "2024-01-02"))
	require.NoError(t, err)
	// ошибка публикации не отменяет изменение статуса
	require.NoError(t, s.UpdateStatus(ctx, f.manager, b, models.StatusConfirmed))

	pub.AssertExpectations(t)
}

func TestBookingService_ComputeBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, "201", "50")
	breakfast := f.service(t, "Breakfast", "12.50")
	spa := f.service(t, "Spa", "30")

	s := newBookingService(f, BookingOptions{})
	b, err := s.CreateBooking(ctx, f.guest, room.ID, dateRange(t, "2023-01-01", "2023-01-05"))
	require.NoError(t, err)
	require.NoError(t, s.AddServiceToBooking(ctx, f.admin, b, spa.ID, 1))
	require.NoError(t, s.AddServiceToBooking(ctx, f.admin, b, breakfast.ID, 4))

	bill, err := s.ComputeBill(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 5, bill.Days)
	assert.True(t, bill.RoomCost.Equal(decimal.NewFromInt(250)), bill.RoomCost.String())
	assert.True(t, bill.ServicesCost.Equal(decimal.NewFromInt(80)), bill.ServicesCost.String())
	assert.True(t, bill.Total.Equal(decimal.NewFromInt(330)), bill.Total.String())
	require.Len(t, bill.Lines, 2)
	assert.Equal(t, "Breakfast", bill.Lines[0].Service.Name)

	again, err := s.ComputeBill(ctx, b)
	require.NoError(t, err)
	assert.True(t, again.Total.Equal(bill.Total))
	require.Len(t, again.Lines, 2)
	for i := range bill.Lines {
		assert.Equal(t, bill.Lines[i].Service.ID, again.Lines[i].Service.ID)
		assert.True(t, bill.Lines[i].Cost.Equal(again.Lines[i].Cost))
	}

	flat := newBookingService(f, BookingOptions{DayCount: config.DayCountFlat})
	flatBill, err := flat.ComputeBill(ctx, b)
	require.NoError(t, err)
	assert.True(t, flatBill.Total.Equal(decimal.NewFromInt(130)), flatBill.Total.String())

	_, err = s.ComputeBill(ctx, nil)
	assert.ErrorIs(t, err, ErrNilBooking)
}

func TestBillableDays(t *testing.T) {
	oneDay := dateRange(t, "2024-01-01", "2024-01-01")
	week := dateRange(t, "2024-01-01", "2024-01-07")

	tests := []struct {
		name string
		r    models.DateRange
		mode string
		want int
	}{
		{"inclusive single day", oneDay, config.DayCountInclusive, 1},
		{"inclusive week", week, config.DayCountInclusive, 7},
		{"nights week", week, config.DayCountNights, 6},
		{"nights same day", oneDay, config.DayCountNights, 1},
		{"flat", week, config.DayCountFlat, 1},
		{"unknown falls back to inclusive", week, "", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BillableDays(tt.r, tt.mode))
		})
	}
}

func TestTransitions(t *testing.T) {
	strict := StrictTransitions()
	assert.True(t, strict.Allowed(models.StatusPending, models.StatusConfirmed))
	assert.True(t, strict.Allowed(models.StatusConfirmed, models.StatusCompleted))
	assert.False(t, strict.Allowed(models.StatusCancelled, models.StatusPending))
	assert.False(t, strict.Allowed(models.StatusCompleted, models.StatusConfirmed))
	assert.Empty(t, strict.Targets(models.StatusCompleted))

	permissive := PermissiveTransitions()
	assert.True(t, permissive.Allowed(models.StatusCompleted, models.StatusPending))
	assert.False(t, permissive.Allowed(models.StatusPending, models.StatusPending))

	custom, err := TransitionsFromConfig(config.BookingConfig{Custom: map[string][]string{"cancelled": {"pending"}}})
	require.NoError(t, err)
	assert.True(t, custom.Allowed(models.StatusCancelled, models.StatusPending))
	assert.False(t, custom.Allowed(models.StatusPending, models.StatusConfirmed))

	_, err = TransitionsFromConfig(config.BookingConfig{Custom: map[string][]string{"pending": {"archived"}}})
	assert.Error(t, err)
	_, err = TransitionsFromConfig(config.BookingConfig{Transitions: "chaotic"})
	assert.Error(t, err)
}
