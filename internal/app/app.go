package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appconfig "mobypark/internal/config"
	"mobypark/internal/db"
	httpserver "mobypark/internal/http"
	"mobypark/internal/http/handlers"
	"mobypark/internal/http/middleware"
	"mobypark/internal/password"
	"mobypark/internal/redis"
	"mobypark/internal/repository"
	"mobypark/internal/service"
	"mobypark/internal/sessions"
)

// App wires the dependency graph for the MobyPark backend.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds the application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	tokenStore := sessions.NewStore(redisClient, cfg.SessionTTL())

	userRepo := repository.NewUserRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	lotRepo := repository.NewParkingLotRepository(sqlDB)
	sessionRepo := repository.NewSessionRepository(sqlDB)
	reservationRepo := repository.NewReservationRepository(sqlDB)
	paymentRepo := repository.NewPaymentRepository(sqlDB)
	statsRepo := repository.NewStatsRepository(sqlDB)

	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	authSvc := service.NewAuthService(userRepo, hasher, tokenStore, logger)
	parkingSvc := service.NewParkingService(sessionRepo, vehicleRepo, lotRepo, logger)
	paymentsSvc := service.NewPaymentsService(paymentRepo, sessionRepo, lotRepo, logger)
	adminSvc := service.NewAdminService(statsRepo, logger)

	deps := httpserver.RouterDeps{
		Health:       handlers.NewHealthHandler(),
		Register:     handlers.NewRegisterHandler(authSvc),
		Login:        handlers.NewLoginHandler(authSvc),
		Profile:      handlers.NewProfileHandler(authSvc),
		ProfileSave:  handlers.NewUpdateProfileHandler(authSvc),
		Logout:       handlers.NewLogoutHandler(authSvc),
		Vehicles:     handlers.NewVehicleHandlers(vehicleRepo, userRepo),
		ParkingLots:  handlers.NewParkingLotHandlers(lotRepo),
		Sessions:     handlers.NewSessionHandlers(parkingSvc),
		Reservations: handlers.NewReservationHandlers(reservationRepo, lotRepo, userRepo),
		Payments:     handlers.NewPaymentHandlers(paymentsSvc, userRepo),
		Admin:        handlers.NewAdminHandlers(adminSvc, logger),
	}

	router := httpserver.NewRouter(deps, middleware.RequireSession(tokenStore, logger))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger,
		middleware.Recovery(logger),
		middleware.RequestLog(logger),
	)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}
