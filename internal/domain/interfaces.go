package domain

import (
	"context"

	"hotel/internal/models"

	"github.com/shopspring/decimal"
)

// Repository is the persistence gateway consumed by the services.
type Repository interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoomByID(ctx context.Context, id int64) (*models.Room, error)
	GetRoomByNumber(ctx context.Context, number string) (*models.Room, error)
	ListAvailableRooms(ctx context.Context, r models.DateRange) ([]models.Room, error)

	ListServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	GetServiceByID(ctx context.Context, id int64) (*models.Service, error)
	GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]models.Service, error)

	IsRoomAvailable(ctx context.Context, roomID int64, r models.DateRange) (bool, error)
	CreateBookingIfAvailable(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	ListBookingsInRange(ctx context.Context, r models.DateRange) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error
	UpsertBookingService(ctx context.Context, bookingID, serviceID int64, quantity int) error
	DeleteBookingService(ctx context.Context, bookingID, serviceID int64) error
	GetBookingServices(ctx context.Context, bookingID int64) (map[int64]int, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByCredentials(ctx context.Context, login, credential string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id int64, role models.Role) (*models.User, error)
}

// SessionStore keeps authenticated sessions. Get returns nil, nil for an unknown id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type RoomService interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	AddRoom(ctx context.Context, sess *models.Session, number, roomType string, price decimal.Decimal, description string) (bool, error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	GetRoomByNumber(ctx context.Context, number string) (*models.Room, error)
	AvailableRooms(ctx context.Context, r models.DateRange) ([]models.Room, error)
}

type CatalogService interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	AddService(ctx context.Context, sess *models.Session, name string, price decimal.Decimal) (bool, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
}

type BookingService interface {
	IsRoomAvailable(ctx context.Context, roomID int64, r models.DateRange) (bool, error)
	CreateBooking(ctx context.Context, sess *models.Session, roomID int64, r models.DateRange) (*models.Booking, error)
	GetBooking(ctx context.Context, sess *models.Session, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, sess *models.Session) ([]models.Booking, error)
	MyBookings(ctx context.Context, sess *models.Session) ([]models.Booking, error)
	StatusTargets(from models.BookingStatus) []models.BookingStatus
	UpdateStatus(ctx context.Context, sess *models.Session, booking *models.Booking, status models.BookingStatus) error
	AddServiceToBooking(ctx context.Context, sess *models.Session, booking *models.Booking, serviceID int64, quantity int) error
	RemoveServiceFromBooking(ctx context.Context, sess *models.Session, booking *models.Booking, serviceID int64) error
	GetServices(ctx context.Context, booking *models.Booking) (map[int64]int, error)
	ComputeBill(ctx context.Context, booking *models.Booking) (*models.Bill, error)
}

type UserService interface {
	Authenticate(ctx context.Context, login, credential string) (*models.Session, error)
	AddUser(ctx context.Context, sess *models.Session, login, credential string, role models.Role) (bool, error)
	UpdateRole(ctx context.Context, sess *models.Session, userID int64, role models.Role) (*models.User, error)
	ListUsers(ctx context.Context, sess *models.Session) ([]models.User, error)
	Session(ctx context.Context, sessionID string) (*models.Session, error)
	Logout(ctx context.Context, sessionID string) error
}
