package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sundayezeilo/toolbench/internal/config"
	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/generation"
	"github.com/sundayezeilo/toolbench/internal/media"
	"github.com/sundayezeilo/toolbench/internal/palette"
	"github.com/sundayezeilo/toolbench/internal/render"
	"github.com/sundayezeilo/toolbench/internal/server"
	"github.com/sundayezeilo/toolbench/internal/shortener"
	"github.com/sundayezeilo/toolbench/internal/tool/catalog"
	"github.com/sundayezeilo/toolbench/sluggen"
)

// App holds the application dependencies and configuration.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	DBPool     *pgxpool.Pool
	Bunt       *shortener.BuntRepository
	Sessions   *generation.Manager
	Downloader *media.Downloader
	Server     *server.Server

	stopSweeper context.CancelFunc
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"service", cfg.Service.Name,
		"version", cfg.Service.Version,
	)

	a := &App{Config: cfg, Logger: logger}

	repo, err := a.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := catalog.New()
	if err != nil {
		a.Shutdown()
		return nil, fmt.Errorf("failed to load tool catalog: %w", err)
	}

	deco := decor.NewFaker(cfg.Generation.Seed)

	a.Sessions = generation.NewManager(generation.Config{
		MinDelay: cfg.Generation.MinDelay,
		MaxDelay: cfg.Generation.MaxDelay,
		TTL:      cfg.Generation.SessionTTL,
		Decor:    deco,
		Logger:   logger,
	})
	sweepCtx, stop := context.WithCancel(context.Background())
	a.stopSweeper = stop
	go a.Sessions.Run(sweepCtx)

	a.Downloader = media.NewDownloader(media.DownloaderConfig{
		Tick:   cfg.Media.DownloadTick,
		TTL:    cfg.Media.DownloadTTL,
		Decor:  deco,
		Logger: logger,
	})
	go a.Downloader.Run(sweepCtx)

	renderer := render.New(render.Options{
		CodeStyle: cfg.Render.CodeStyle,
		TermStyle: cfg.Render.TermStyle,
		Width:     cfg.Render.Width,
	})

	codes := sluggen.NewBase36()
	if cfg.Shortener.Alphabet == config.AlphabetBase62 {
		codes = sluggen.NewBase62()
	}
	svc := shortener.NewService(repo, &shortener.ServiceConfig{
		CodeGenerator: codes,
		CodeLength:    cfg.Shortener.CodeLength,
		BaseURL:       cfg.Server.BaseURL,
	})

	a.Server = server.New(cfg, logger, server.Handlers{
		Tools: generation.NewHandler(generation.HandlerConfig{
			Registry: registry,
			Sessions: a.Sessions,
			Renderer: renderer,
			Decor:    deco,
			Logger:   logger,
		}),
		Links: shortener.NewHandler(shortener.HandlerConfig{
			Service: svc,
			Logger:  logger,
		}),
		Media: media.NewHandler(media.HandlerConfig{
			Library:    media.NewLibrary(media.LibraryConfig{MaxSize: cfg.Media.MaxUploadBytes}),
			Downloader: a.Downloader,
			Logger:     logger,
		}),
		Palette: palette.NewHandler(logger),
	})

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"storage", cfg.Storage.Driver,
		"tools", len(registry.List()),
	)

	return a, nil
}

// openRepository opens the link store selected by the storage driver.
func (a *App) openRepository(ctx context.Context) (shortener.Repository, error) {
	switch a.Config.Storage.Driver {
	case config.StoragePostgres:
		pool, err := connectDatabase(ctx, a.Config, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DBPool = pool

		repo := shortener.NewPostgresRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repo, nil

	default:
		repo, err := shortener.OpenBunt(a.Config.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open link store: %w", err)
		}
		a.Bunt = repo
		a.Logger.Info("link store opened", "driver", config.StorageBunt, "path", a.Config.Storage.Path)
		return repo, nil
	}
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	var errs []error

	if a.stopSweeper != nil {
		a.stopSweeper()
	}
	if a.Sessions != nil {
		a.Sessions.Shutdown()
	}
	if a.Downloader != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		if err := a.Downloader.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop downloader: %w", err))
		}
		cancel()
	}
	if a.Bunt != nil {
		if err := a.Bunt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close link store: %w", err))
		}
		a.Logger.Info("link store closed")
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}

	return errors.Join(errs...)
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
