package service

import (
	"context"
	"testing"

	"hotel/internal/database"
	"hotel/internal/models"
	"hotel/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type fixture struct {
	db       *database.DB
	logger   *zerolog.Logger
	sessions *repository.MemorySessionStore
	admin    *models.Session
	manager  *models.Session
	guest    *models.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{db: db, logger: &logger, sessions: repository.NewMemorySessionStore(0)}
	f.admin = f.session(t, "admin", models.RoleAdmin)
	f.manager = f.session(t, "manager", models.RoleManager)
	f.guest = f.session(t, "guest", models.RoleUser)
	return f
}

func (f *fixture) session(t *testing.T, login string, role models.Role) *models.Session {
	t.Helper()
	u := &models.User{Login: login, Credential: "pw-" + login, Role: role}
	require.NoError(t, f.db.CreateUser(context.Background(), u))
	return &models.Session{ID: "sess-" + login, User: *u}
}

func (f *fixture) room(t *testing.T, number string, price string) *models.Room {
	t.Helper()
	r := &models.Room{Number: number, Type: "standard", PricePerDay: decimal.RequireFromString(price)}
	require.NoError(t, f.db.CreateRoom(context.Background(), r))
	return r
}

func (f *fixture) service(t *testing.T, name string, price string) *models.Service {
	t.Helper()
	s := &models.Service{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, f.db.CreateService(context.Background(), s))
	return s
}

func dateRange(t *testing.T, from, to string) models.DateRange {
	t.Helper()
	r, err := models.NewDateRange(from, to)
	require.NoError(t, err)
	return r
}
