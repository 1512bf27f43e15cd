package control

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/vietddude/beacon/internal/core/config"
	"github.com/vietddude/beacon/internal/core/domain"
	"github.com/vietddude/beacon/internal/infra/probe"
	redisclient "github.com/vietddude/beacon/internal/infra/redis"
	"github.com/vietddude/beacon/internal/infra/settingstore"
	"github.com/vietddude/beacon/internal/infra/storage/postgres"
	"github.com/vietddude/beacon/internal/monitor"
	"github.com/vietddude/beacon/internal/settings"
	"github.com/vietddude/beacon/internal/status"
)

const historySize = 50

// App owns the availability monitor and everything it talks to.
type App struct {
	cfg         Config
	monitor     *monitor.Monitor
	loader      *settings.Loader
	server      *status.Server
	history     *status.History
	redisClient *redisclient.Client
	db          *postgres.DB
	closers     []io.Closer
	log         *slog.Logger
}

// Config holds the application configuration.
type Config struct {
	Port     int
	Monitor  config.MonitorConfig
	Backend  config.BackendConfig
	Settings config.SettingsConfig
	Redis    redisclient.Config
	Database postgres.Config
	Logger   *slog.Logger
}

// ConfigFrom converts the file configuration.
func ConfigFrom(cfg *config.AppConfig) Config {
	return Config{
		Port:     cfg.Server.Port,
		Monitor:  cfg.Monitor,
		Backend:  cfg.Backend,
		Settings: cfg.Settings,
		Redis:    cfg.Redis,
		Database: cfg.Database,
	}
}

// NewApp creates an App with all dependencies initialized. Nothing is
// contacted until Start.
func NewApp(cfg Config) (*App, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: cfg, log: log}

	p, err := a.buildProbe()
	if err != nil {
		_ = a.close()
		return nil, err
	}

	fetcher, err := a.buildFetcher()
	if err != nil {
		_ = a.close()
		return nil, err
	}

	var onAvailable monitor.AvailableFunc
	var view status.SettingsView
	if fetcher != nil {
		a.loader = settings.NewLoader(fetcher, cfg.Settings.Timeout, log)
		onAvailable = a.loader.Refresh
		view = a.loader
	}

	a.monitor = monitor.New(monitor.Config{
		ProbeInterval: cfg.Monitor.ProbeInterval,
		RetryInterval: cfg.Monitor.RetryInterval,
		ProbeTimeout:  cfg.Monitor.ProbeTimeout,
		Logger:        log,
	}, p, onAvailable)

	a.history = status.NewHistory(historySize)
	a.monitor.SetTransitionCallback(a.history.Record)

	a.server = status.NewServer(a.monitor, view, cfg.Port)
	a.server.SetHistory(a.history)

	log.Info("Availability monitor configured",
		"backend", cfg.Backend.Kind,
		"settings_source", cfg.Settings.Source,
		"monitor_id", a.monitor.ID(),
	)
	return a, nil
}

// Monitor returns the availability monitor.
func (a *App) Monitor() *monitor.Monitor {
	return a.monitor
}

// History returns the recorded state transitions.
func (a *App) History() *status.History {
	return a.history
}

// Loader returns the settings loader, nil when no source is configured.
func (a *App) Loader() *settings.Loader {
	return a.loader
}

// Start starts the status server and the monitor.
func (a *App) Start(ctx context.Context) error {
	if a.db != nil && a.cfg.Database.Migrate {
		// The database may be the backend that is down; keep running without the migration.
		if err := a.db.Migrate(ctx); err != nil {
			a.log.Warn("Failed to migrate settings schema", "error", err)
		}
	}

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Error("Status server failed", "error", err)
		}
	}()

	if err := a.monitor.Start(ctx); err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}
	return nil
}

// Stop stops the monitor, the status server and closes backend connections.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping availability monitor...")

	a.monitor.Stop()
	err := a.server.Stop(ctx)
	return multierr.Append(err, a.close())
}

func (a *App) close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i].Close())
	}
	a.closers = nil
	return err
}

func (a *App) buildProbe() (monitor.Probe, error) {
	b := a.cfg.Backend

	switch b.Kind {
	case config.KindHTTP:
		p := probe.NewHTTPProbe(b.URL, a.cfg.Monitor.ProbeTimeout)
		a.closers = append(a.closers, p)
		return p, nil

	case config.KindGRPC:
		p, err := probe.NewGRPCProbe(b.URL, b.Service)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, p)
		return p, nil

	case config.KindRedis:
		client, err := a.redis()
		if err != nil {
			return nil, err
		}
		return probe.NewRedisProbe(client), nil

	case config.KindPostgres:
		db, err := a.database()
		if err != nil {
			return nil, err
		}
		return probe.NewPostgresProbe(db), nil

	default:
		return nil, fmt.Errorf("unsupported backend kind %q", b.Kind)
	}
}

func (a *App) buildFetcher() (settings.Fetcher, error) {
	s := a.cfg.Settings

	switch s.Source {
	case "", config.SourceNone:
		return nil, nil

	case config.SourceStatic:
		return settingstore.NewStaticStore(domain.Settings{ProjectName: s.ProjectName}), nil

	case config.SourceHTTP:
		return settingstore.NewHTTPStore(s.URL, s.Timeout), nil

	case config.SourceRedis:
		client, err := a.redis()
		if err != nil {
			return nil, err
		}
		return settingstore.NewRedisStore(client, s.Key), nil

	case config.SourcePostgres:
		db, err := a.database()
		if err != nil {
			return nil, err
		}
		return settingstore.NewPostgresStore(db), nil

	default:
		return nil, fmt.Errorf("unsupported settings source %q", s.Source)
	}
}

// redis returns the shared Redis client, creating it on first use.
func (a *App) redis() (*redisclient.Client, error) {
	if a.redisClient != nil {
		return a.redisClient, nil
	}
	client, err := redisclient.NewClient(a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}
	a.redisClient = client
	a.closers = append(a.closers, client)
	return client, nil
}

// database returns the shared database handle, creating it on first use.
func (a *App) database() (*postgres.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := postgres.NewDB(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db)
	return db, nil
}

// OpenSettingsWriter returns a writer for the configured redis or postgres
// settings store, migrating the schema first when configured to.
func OpenSettingsWriter(ctx context.Context, cfg Config) (settingstore.Writer, func() error, error) {
	a := &App{cfg: cfg, log: slog.Default()}

	switch cfg.Settings.Source {
	case config.SourceRedis:
		client, err := a.redis()
		if err != nil {
			return nil, nil, err
		}
		return settingstore.NewRedisStore(client, cfg.Settings.Key), a.close, nil

	case config.SourcePostgres:
		db, err := a.database()
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				_ = a.close()
				return nil, nil, err
			}
		}
		return settingstore.NewPostgresStore(db), a.close, nil

	default:
		return nil, nil, fmt.Errorf("settings source %q is not writable", cfg.Settings.Source)
	}
}
