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

// RoomService is the room directory.
type RoomService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRoomService(repo domain.Repository, logger *zerolog.Logger) *RoomService {
	return &RoomService{repo: repo, logger: logger}
}

func (s *RoomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.repo.ListRooms(ctx)
}

// AddRoom returns false without error when the number is already taken.
func (s *RoomService) AddRoom(
	ctx context.Context,
	sess *models.Session,
	number, roomType string,
	price decimal.Decimal,
	description string,
) (bool, error) {
	if err := requireRole(sess, models.RoleAdmin, models.RoleManager); err != nil {
		return false, err
	}

	number = strings.TrimSpace(number)
	roomType = strings.TrimSpace(roomType)
	if number == "" || roomType == "" {
		return false, ErrEmptyField
	}
	if price.IsNegative() {
		return false, ErrNegativePrice
	}

	room := &models.Room{
		Number:      number,
		Type:        roomType,
		PricePerDay: price,
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info().Int64("room_id", room.ID).Str("number", room.Number).Int64("by", sess.User.ID).Msg("Room added")
	return true, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return s.repo.GetRoomByID(ctx, id)
}

func (s *RoomService) GetRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	return s.repo.GetRoomByNumber(ctx, strings.TrimSpace(number))
}

// AvailableRooms lists rooms free for the whole range.
func (s *RoomService) AvailableRooms(ctx context.Context, r models.DateRange) ([]models.Room, error) {
	if err := r.Validate(); err != nil {
		return nil, validationError(err)
	}
	return s.repo.ListAvailableRooms(ctx, r)
}
