package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	authPostgres "github.com/frahmantamala/workspace-booking/internal/auth/postgres"
	"github.com/frahmantamala/workspace-booking/internal/booking"
	bookingCache "github.com/frahmantamala/workspace-booking/internal/booking/cache"
	bookingPostgres "github.com/frahmantamala/workspace-booking/internal/booking/postgres"
	"github.com/frahmantamala/workspace-booking/internal/core/events"
	"github.com/frahmantamala/workspace-booking/internal/notify"
	"github.com/frahmantamala/workspace-booking/internal/report"
	"github.com/frahmantamala/workspace-booking/internal/space"
	spacePostgres "github.com/frahmantamala/workspace-booking/internal/space/postgres"
	"github.com/frahmantamala/workspace-booking/internal/transport/rest"
	"github.com/frahmantamala/workspace-booking/internal/user"
	userPostgres "github.com/frahmantamala/workspace-booking/internal/user/postgres"
	"github.com/frahmantamala/workspace-booking/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Redis    *redis.Client
	Broker   *notify.Broker
	EventBus *events.EventBus
	Logger   *slog.Logger

	AuthService    *auth.Service
	UserService    *user.Service
	SpaceService   *space.Service
	BookingService *booking.Service
	Exporter       *report.Exporter
}

// bookingPurger breaks the construction cycle between the catalogue and
// user services, which purge bookings, and the ledger, which reads spaces.
type bookingPurger struct {
	ledger *booking.Service
}

func (p *bookingPurger) DeleteBySpace(ctx context.Context, spaceID string) (int64, error) {
	return p.ledger.DeleteBySpace(ctx, spaceID)
}

func (p *bookingPurger) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	return p.ledger.DeleteByOwner(ctx, userID)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.L()

	loc, err := config.Booking.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load booking timezone: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Redis:    bookingCache.NewRedisClient(config.Redis, lg),
		EventBus: events.NewEventBus(lg),
		Logger:   lg,
	}

	if config.Broker.Enabled() {
		broker, err := notify.Dial(config.Broker.URL, config.Broker.Queue)
		if err != nil {
			lg.Warn("broker unavailable, booking events stay in-process", "error", err)
		} else {
			deps.Broker = broker
			notify.NewForwarder(broker.Channel(), config.Broker.Queue, lg).Register(deps.EventBus)
		}
	}

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.JWTAccessSecret,
		config.Security.JWTRefreshSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	deps.AuthService = auth.NewService(authPostgres.NewRepository(gdb), tokenGen, config.Security.BCryptCost, lg)

	purger := &bookingPurger{}
	userRepo := userPostgres.NewRepository(gdb)
	deps.UserService = user.NewService(userRepo, purger, lg)
	deps.SpaceService = space.NewService(spacePostgres.NewSpaceRepository(gdb), purger, lg)
	deps.BookingService = booking.NewService(
		bookingPostgres.NewBookingRepository(gdb),
		userRepo,
		deps.SpaceService,
		bookingCache.New(deps.Redis),
		deps.EventBus,
		booking.SystemClock{},
		booking.Options{
			Limits:   booking.Limits{MonthlyLimit: config.Booking.MonthlyLimit},
			Location: loc,
			CacheTTL: config.Booking.CacheTTL,
		},
		lg,
	)
	purger.ledger = deps.BookingService
	deps.Exporter = report.NewExporter(db, loc, booking.SystemClock{}, lg)

	return deps, nil
}

// Close drains in-flight events and releases every connection.
func (d *Dependencies) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.EventBus.Wait(ctx); err != nil {
		d.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if d.Broker != nil {
		if err := d.Broker.Close(); err != nil {
			d.Logger.Error("broker close error", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func (d *Dependencies) healthChecks() map[string]rest.Check {
	checks := map[string]rest.Check{
		"postgres": d.DB.PingContext,
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
