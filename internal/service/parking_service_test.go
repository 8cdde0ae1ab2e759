package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/repository"
	"mobypark/internal/sessions"
)

type memSessionStore struct {
	rows   map[int64]*models.Session
	plates map[int64]string
	nextID int64
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		rows:   map[int64]*models.Session{},
		plates: map[int64]string{},
		nextID: 1,
	}
}

func (s *memSessionStore) Start(_ context.Context, session *models.Session) error {
	session.ID = s.nextID
	s.nextID++
	s.rows[session.ID] = session
	return nil
}

// plates holds the plate each session was opened with; the production
// store resolves this through the vehicles join.
func (s *memSessionStore) ActiveByPlate(_ context.Context, lotID int64, plate string) (*models.Session, error) {
	for id, row := range s.rows {
		if row.ParkingLotID == lotID && row.Stopped == nil && s.plates[id] == plate {
			return row, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (s *memSessionStore) Stop(_ context.Context, sessionID int64, stoppedAt time.Time) error {
	row, ok := s.rows[sessionID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	row.Stopped = &stoppedAt
	return nil
}

func (s *memSessionStore) GetByID(_ context.Context, id int64) (*models.Session, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return row, nil
}

func (s *memSessionStore) ListByLot(_ context.Context, lotID, userID int64) ([]models.Session, error) {
	var out []models.Session
	for _, row := range s.rows {
		if row.ParkingLotID != lotID {
			continue
		}
		if userID != 0 && row.UserID != userID {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *memSessionStore) Delete(_ context.Context, id int64) error {
	delete(s.rows, id)
	return nil
}

type staticVehicles struct{ vehicle *models.Vehicle }

func (v *staticVehicles) GetByPlate(_ context.Context, userID int64, plate string) (*models.Vehicle, error) {
	if v.vehicle == nil || v.vehicle.UserID != userID {
		return nil, repository.ErrVehicleNotFound
	}
	return v.vehicle, nil
}

type staticLots struct{ lot *models.ParkingLot }

func (l *staticLots) GetByID(_ context.Context, id int64) (*models.ParkingLot, error) {
	if l.lot == nil || l.lot.ID != id {
		return nil, repository.ErrLotNotFound
	}
	return l.lot, nil
}

func parkingFixture() (*ParkingService, *memSessionStore, sessions.Identity) {
	store := newMemSessionStore()
	svc := NewParkingService(
		store,
		&staticVehicles{vehicle: &models.Vehicle{ID: 5, UserID: 2, LicensePlate: "AB-123-C"}},
		&staticLots{lot: &models.ParkingLot{ID: 1, Name: "Central"}},
		zap.NewNop(),
	)
	identity := sessions.Identity{UserID: 2, Username: "daily_user", Role: models.RoleUser}
	return svc, store, identity
}

func TestStartSessionRejectsDuplicatePlate(t *testing.T) {
	svc, store, identity := parkingFixture()
	ctx := context.Background()

	first, err := svc.StartSession(ctx, identity, 1, "AB-123-C")
	require.NoError(t, err)
	store.plates[first.ID] = "AB-123-C"

	_, err = svc.StartSession(ctx, identity, 1, "AB-123-C")
	assert.ErrorIs(t, err, ErrActiveSessionExists)
}

func TestStartSessionUnknownLot(t *testing.T) {
	svc, _, identity := parkingFixture()

	_, err := svc.StartSession(context.Background(), identity, 99, "AB-123-C")
	assert.ErrorIs(t, err, repository.ErrLotNotFound)
}

func TestStartSessionUnknownVehicle(t *testing.T) {
	svc, _, _ := parkingFixture()
	stranger := sessions.Identity{UserID: 77, Role: models.RoleUser}

	_, err := svc.StartSession(context.Background(), stranger, 1, "AB-123-C")
	assert.ErrorIs(t, err, repository.ErrVehicleNotFound)
}

func TestStopSessionWithoutActive(t *testing.T) {
	svc, _, identity := parkingFixture()

	_, err := svc.StopSession(context.Background(), identity, 1, "AB-123-C")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStopSessionCompletes(t *testing.T) {
	svc, store, identity := parkingFixture()
	ctx := context.Background()

	started, err := svc.StartSession(ctx, identity, 1, "AB-123-C")
	require.NoError(t, err)
	store.plates[started.ID] = "AB-123-C"

	stopped, err := svc.StopSession(ctx, identity, 1, "AB-123-C")
	require.NoError(t, err)
	require.NotNil(t, stopped.Stopped)
	assert.Equal(t, started.ID, stopped.ID)
}

func TestGetSessionOwnership(t *testing.T) {
	svc, _, identity := parkingFixture()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, identity, 1, "AB-123-C")
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, identity, session.ID)
	assert.NoError(t, err)

	stranger := sessions.Identity{UserID: 77, Role: models.RoleUser}
	_, err = svc.GetSession(ctx, stranger, session.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	admin := sessions.Identity{UserID: 77, Role: models.RoleAdmin}
	_, err = svc.GetSession(ctx, admin, session.ID)
	assert.NoError(t, err)
}

func TestListSessionsScopesByRole(t *testing.T) {
	svc, store, identity := parkingFixture()
	ctx := context.Background()

	store.rows[100] = &models.Session{ID: 100, UserID: 2, ParkingLotID: 1}
	store.rows[101] = &models.Session{ID: 101, UserID: 3, ParkingLotID: 1}

	own, err := svc.ListSessions(ctx, identity, 1)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	admin := sessions.Identity{UserID: 1, Role: models.RoleAdmin}
	all, err := svc.ListSessions(ctx, admin, 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
