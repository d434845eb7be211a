package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"random-coffee/internal/config"
	"random-coffee/internal/database"
	"random-coffee/internal/database/migration"
	dbpostgres "random-coffee/internal/database/postgres"
	"random-coffee/internal/database/seeder"
	dbsqlite "random-coffee/internal/database/sqlite"
	"random-coffee/internal/domain/matching"
	"random-coffee/internal/infrastructure/cache"
	"random-coffee/internal/infrastructure/mailer"
	"random-coffee/internal/infrastructure/telegram"
	"random-coffee/internal/notification"
	"random-coffee/internal/pkg/jwt"
	"random-coffee/internal/repository"
	"random-coffee/internal/scheduler"
	"random-coffee/internal/usecase"
	ucauth "random-coffee/internal/usecase/auth"
	"random-coffee/internal/ws"
)

// Container owns every long-lived dependency of the service.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *cache.Redis
	Hub   *ws.Hub

	RunLogs repository.RunLogRepository

	Matching  *usecase.Matching
	Trigger   *usecase.Trigger
	Admin     *usecase.Admin
	Auth      *usecase.Auth
	Scheduler *scheduler.Scheduler
}

// OpenDB connects to the configured driver.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return dbpostgres.Connect(ctx, cfg)
	case config.DriverSQLite:
		return dbsqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Prepare applies pending migrations and the default seed rows.
func Prepare(ctx context.Context, db database.DB) error {
	if err := (migration.Runner{Dialect: db.Driver()}).Run(ctx, db.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := Prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}
	if err := c.wire(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(ctx context.Context) error {
	cfg := c.Config
	logger := c.Logger

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	c.Hub = ws.NewHub(logger)

	var chat notification.ChatSender
	if cfg.Telegram.Token != "" {
		s, err := telegram.NewSender(cfg.Telegram.Token, logger)
		if err != nil {
			return err
		}
		chat = s
	} else {
		logger.Printf("bootstrap channel=chat status=disabled reason=no_token")
	}

	email, err := mailer.New(ctx, cfg.Email, logger)
	if err != nil {
		return err
	}
	if email == nil {
		logger.Printf("bootstrap channel=email status=disabled provider=%s", cfg.Email.Provider)
	}

	candidates := repository.NewSQLCandidateRepository(c.DB)
	pairings := repository.NewSQLPairingRepository(c.DB)
	templates := repository.NewSQLEmailTemplateRepository(c.DB)
	settings := repository.NewSQLSettingsRepository(c.DB)
	stats := repository.NewSQLStatsRepository(c.DB)
	c.RunLogs = repository.NewSQLRunLogRepository(c.DB)

	dispatcher := notification.NewDispatcher(
		chat, email,
		notification.NewDefaultRenderer(templates),
		notification.WithDelay(cfg.Matching.NotifyDelay),
		notification.WithLogger(logger),
	)

	c.Matching = usecase.NewMatchingUsecase(
		candidates, pairings, matching.NewEngine(nil), dispatcher,
		usecase.MatchingOptions{
			Location:       cfg.Matching.Location,
			LookbackWeeks:  cfg.Matching.LookbackWeeks,
			StarterPrompts: cfg.Matching.StarterPrompts,
		},
		logger,
	)

	c.Admin = usecase.NewAdminUsecase(stats, templates, c.Redis, logger)

	c.Trigger = usecase.NewTriggerUsecase(
		c.Matching, settings, c.RunLogs, c.Redis, c.Hub,
		usecase.TriggerOptions{Cooldown: cfg.Matching.Cooldown},
		logger,
	)
	c.Trigger.OnFinish(c.Admin.InvalidateStats)

	c.Auth = usecase.NewAuthUsecase(
		ucauth.NewService(cfg.Admin.IDs, cfg.Admin.APIKeyHash),
		jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),
		logger,
	)

	c.Scheduler = scheduler.New(settings, c.Trigger, cfg.Matching.Location, cfg.Matching.Cooldown, logger)
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
