package service

import (
	"context"
	"errors"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/events"
	"hotel/internal/metrics"
	"hotel/internal/models"

	"github.com/rs/zerolog"
)

// BookingOptions are the ledger rules taken from the booking and billing config.
type BookingOptions struct {
	Transitions    TransitionTable
	MaxDays        int
	ServiceEditors []models.Role
	DayCount       string
}

// BookingOptionsFromConfig converts config sections into ledger rules.
func BookingOptionsFromConfig(booking config.BookingConfig, billing config.BillingConfig) (BookingOptions, error) {
	table, err := TransitionsFromConfig(booking)
	if err != nil {
		return BookingOptions{}, err
	}
	editors := make([]models.Role, 0, len(booking.ServiceEditors))
	for _, r := range booking.ServiceEditors {
		editors = append(editors, models.ParseRole(r))
	}
	return BookingOptions{
		Transitions:    table,
		MaxDays:        booking.MaxDays,
		ServiceEditors: editors,
		DayCount:       billing.DayCount,
	}, nil
}

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	opts     BookingOptions
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, opts BookingOptions, logger *zerolog.Logger) *BookingService {
	if opts.MaxDays <= 0 {
		opts.MaxDays = models.DefaultMaxBookingDays
	}
	if opts.Transitions == nil {
		opts.Transitions = StrictTransitions()
	}
	if len(opts.ServiceEditors) == 0 {
		opts.ServiceEditors = []models.Role{models.RoleAdmin}
	}
	if opts.DayCount == "" {
		opts.DayCount = config.DayCountInclusive
	}
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		opts:     opts,
		logger:   logger,
	}
}

// StatusTargets lists the statuses a booking in status from may move to.
func (s *BookingService) StatusTargets(from models.BookingStatus) []models.BookingStatus {
	return s.opts.Transitions.Targets(from)
}

func (s *BookingService) IsRoomAvailable(ctx context.Context, roomID int64, r models.DateRange) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, validationError(err)
	}
	return s.repo.IsRoomAvailable(ctx, roomID, r)
}

// CreateBooking books the room for the session user. The availability check and
// the insert run in one transaction; a concurrent overlap is rejected by storage.
func (s *BookingService) CreateBooking(ctx context.Context, sess *models.Session, roomID int64, r models.DateRange) (*models.Booking, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	// Валидация диапазона
	if err := r.Validate(); err != nil {
		metrics.IncBookingRejected("validation")
		return nil, validationError(err)
	}
	if r.Days() > s.opts.MaxDays {
		metrics.IncBookingRejected("validation")
		return nil, ErrBookingTooLong
	}

	if _, err := s.repo.GetRoomByID(ctx, roomID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			metrics.IncBookingRejected("room_not_found")
		}
		return nil, err
	}

	booking := &models.Booking{
		UserID:   sess.User.ID,
		RoomID:   roomID,
		DateFrom: models.Day(r.From),
		DateTo:   models.Day(r.To),
		Status:   models.StatusPending,
	}
	if err := s.repo.CreateBookingIfAvailable(ctx, booking); err != nil {
		if errors.Is(err, database.ErrNotAvailable) {
			metrics.IncBookingRejected("unavailable")
			s.logger.Info().Int64("room_id", roomID).Str("range", r.String()).Msg("Booking rejected: room unavailable")
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().Int64("booking_id", booking.ID).Int64("room_id", roomID).Int64("user_id", sess.User.ID).Msg("Booking created")
	s.publishEvent(events.EventBookingCreated, bookingPayload(booking, "", sess))

	return booking, nil
}

// GetBooking returns any booking for staff and only own bookings for guests.
func (s *BookingService) GetBooking(ctx context.Context, sess *models.Session, id int64) (*models.Booking, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasRole(models.RoleAdmin, models.RoleManager) && booking.UserID != sess.User.ID {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, sess *models.Session) ([]models.Booking, error) {
	if err := requireRole(sess, models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}
	return s.repo.ListBookings(ctx)
}

func (s *BookingService) MyBookings(ctx context.Context, sess *models.Session) ([]models.Booking, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByUser(ctx, sess.User.ID)
}

// UpdateStatus moves the booking to status. The stored row is written first;
// booking.Status changes only on success. Setting the current status is a no-op.
func (s *BookingService) UpdateStatus(ctx context.Context, sess *models.Session, booking *models.Booking, status models.BookingStatus) error {
	if err := requireRole(sess, models.RoleAdmin, models.RoleManager); err != nil {
		return err
	}
	if booking == nil {
		return ErrNilBooking
	}
	if _, ok := models.LookupStatus(string(status)); !ok {
		return validationError(errors.New("unknown status " + string(status)))
	}

	// Переход проверяем по сохранённому статусу, а не по переданной копии
	current, err := s.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	if current.Status == status {
		booking.Status = status
		return nil
	}
	if !s.opts.Transitions.Allowed(current.Status, status) {
		return ErrTransitionNotAllowed
	}

	if err := s.repo.UpdateBookingStatus(ctx, booking.ID, current.Status, status); err != nil {
		return err
	}
	prev := current.Status
	booking.Status = status

	metrics.IncStatusChange(prev.String(), status.String())
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("from", prev.String()).
		Str("to", status.String()).
		Int64("by", sess.User.ID).
		Msg("Booking status changed")
	s.publishEvent(events.EventBookingStatusChanged, bookingPayload(booking, prev, sess))

	return nil
}

// AddServiceToBooking sets the quantity of a service on the booking, replacing any previous quantity.
func (s *BookingService) AddServiceToBooking(ctx context.Context, sess *models.Session, booking *models.Booking, serviceID int64, quantity int) error {
	if err := requireRole(sess, s.opts.ServiceEditors...); err != nil {
		return err
	}
	if booking == nil {
		return ErrNilBooking
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.repo.GetServiceByID(ctx, serviceID); err != nil {
		return err
	}

	if err := s.repo.UpsertBookingService(ctx, booking.ID, serviceID, quantity); err != nil {
		return err
	}

	metrics.IncServiceChange("upsert")
	s.publishEvent(events.EventBookingServiceChanged, events.ServiceEventPayload{
		BookingID:   booking.ID,
		ServiceID:   serviceID,
		Quantity:    quantity,
		Op:          "upsert",
		ChangedBy:   sess.User.Login,
		ChangedByID: sess.User.ID,
	})
	return nil
}

// RemoveServiceFromBooking detaches the service; detaching an absent service succeeds.
func (s *BookingService) RemoveServiceFromBooking(ctx context.Context, sess *models.Session, booking *models.Booking, serviceID int64) error {
	if err := requireRole(sess, s.opts.ServiceEditors...); err != nil {
		return err
	}
	if booking == nil {
		return ErrNilBooking
	}

	if err := s.repo.DeleteBookingService(ctx, booking.ID, serviceID); err != nil {
		return err
	}

	metrics.IncServiceChange("remove")
	s.publishEvent(events.EventBookingServiceChanged, events.ServiceEventPayload{
		BookingID:   booking.ID,
		ServiceID:   serviceID,
		Op:          "remove",
		ChangedBy:   sess.User.Login,
		ChangedByID: sess.User.ID,
	})
	return nil
}

// GetServices always reads the attachments from storage.
func (s *BookingService) GetServices(ctx context.Context, booking *models.Booking) (map[int64]int, error) {
	if booking == nil {
		return nil, ErrNilBooking
	}
	return s.repo.GetBookingServices(ctx, booking.ID)
}

func (s *BookingService) publishEvent(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}

func bookingPayload(b *models.Booking, prev models.BookingStatus, sess *models.Session) events.BookingEventPayload {
	p := events.BookingEventPayload{
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		DateFrom:   b.DateFrom.Format(models.DateLayout),
		DateTo:     b.DateTo.Format(models.DateLayout),
		Status:     b.Status.String(),
		PrevStatus: prev.String(),
	}
	if sess != nil {
		p.ChangedBy = sess.User.Login
		p.ChangedByID = sess.User.ID
	}
	return p
}
