package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/repository"
	"mobypark/internal/sessions"
)

var (
	// ErrActiveSessionExists rejects a second session for the same plate.
	ErrActiveSessionExists = errors.New("parking: active session already exists for this license plate")
	// ErrNoActiveSession rejects a stop without a running session.
	ErrNoActiveSession = errors.New("parking: no active session for this license plate")
	// ErrAccessDenied rejects reads of other users' sessions.
	ErrAccessDenied = errors.New("parking: access denied")
)

// SessionStore defines session persistence used by the parking service.
type SessionStore interface {
	Start(ctx context.Context, session *models.Session) error
	ActiveByPlate(ctx context.Context, lotID int64, plate string) (*models.Session, error)
	Stop(ctx context.Context, sessionID int64, stoppedAt time.Time) error
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	ListByLot(ctx context.Context, lotID, userID int64) ([]models.Session, error)
	Delete(ctx context.Context, id int64) error
}

// VehicleFinder resolves a caller's vehicle by plate.
type VehicleFinder interface {
	GetByPlate(ctx context.Context, userID int64, plate string) (*models.Vehicle, error)
}

// LotFinder resolves parking lots.
type LotFinder interface {
	GetByID(ctx context.Context, id int64) (*models.ParkingLot, error)
}

// ParkingService implements the session start/stop lifecycle.
type ParkingService struct {
	store    SessionStore
	vehicles VehicleFinder
	lots     LotFinder
	logger   *zap.Logger
	now      func() time.Time
}

// NewParkingService builds ParkingService.
func NewParkingService(store SessionStore, vehicles VehicleFinder, lots LotFinder, logger *zap.Logger) *ParkingService {
	return &ParkingService{
		store:    store,
		vehicles: vehicles,
		lots:     lots,
		logger:   logger,
		now:      time.Now,
	}
}

// StartSession opens a session for the caller's vehicle in a lot. At most
// one active session per plate per lot.
func (s *ParkingService) StartSession(ctx context.Context, identity sessions.Identity, lotID int64, plate string) (*models.Session, error) {
	if err := validatePlate(plate); err != nil {
		return nil, err
	}
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		return nil, err
	}
	vehicle, err := s.vehicles.GetByPlate(ctx, identity.UserID, plate)
	if err != nil {
		return nil, err
	}

	if active, err := s.activeSession(ctx, lotID, plate); err != nil {
		return nil, err
	} else if active != nil {
		return nil, ErrActiveSessionExists
	}

	session := &models.Session{
		UserID:       identity.UserID,
		VehicleID:    vehicle.ID,
		ParkingLotID: lotID,
		Started:      s.now().UTC(),
	}
	if err := s.store.Start(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session started",
		zap.Int64("session_id", session.ID),
		zap.Int64("parking_lot_id", lotID),
		zap.String("license_plate", plate))
	return session, nil
}

// StopSession completes the running session for a plate in a lot.
func (s *ParkingService) StopSession(ctx context.Context, identity sessions.Identity, lotID int64, plate string) (*models.Session, error) {
	if err := validatePlate(plate); err != nil {
		return nil, err
	}

	active, err := s.activeSession(ctx, lotID, plate)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveSession
	}

	stoppedAt := s.now().UTC()
	if err := s.store.Stop(ctx, active.ID, stoppedAt); err != nil {
		return nil, err
	}
	active.Stopped = &stoppedAt

	s.logger.Info("session stopped",
		zap.Int64("session_id", active.ID),
		zap.Int64("parking_lot_id", lotID))
	return active, nil
}

func (s *ParkingService) activeSession(ctx context.Context, lotID int64, plate string) (*models.Session, error) {
	active, err := s.store.ActiveByPlate(ctx, lotID, plate)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return active, nil
}

// ListSessions returns lot sessions: admins see all, users their own.
func (s *ParkingService) ListSessions(ctx context.Context, identity sessions.Identity, lotID int64) ([]models.Session, error) {
	userFilter := identity.UserID
	if identity.Role == models.RoleAdmin {
		userFilter = 0
	}
	return s.store.ListByLot(ctx, lotID, userFilter)
}

// GetSession returns one session; non-admins only their own.
func (s *ParkingService) GetSession(ctx context.Context, identity sessions.Identity, sessionID int64) (*models.Session, error) {
	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if identity.Role != models.RoleAdmin && session.UserID != identity.UserID {
		return nil, ErrAccessDenied
	}
	return session, nil
}

// DeleteSession removes a session row (admin surface).
func (s *ParkingService) DeleteSession(ctx context.Context, sessionID int64) error {
	return s.store.Delete(ctx, sessionID)
}
