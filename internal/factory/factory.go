package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/nohumanman/desc-comp-toolkit/internal/dependencies/clock"
	"github.com/nohumanman/desc-comp-toolkit/internal/gateway/speedrun"
	"github.com/nohumanman/desc-comp-toolkit/internal/gateway/steam"
	"github.com/nohumanman/desc-comp-toolkit/internal/logsink"
	"github.com/nohumanman/desc-comp-toolkit/internal/presence"
	"github.com/nohumanman/desc-comp-toolkit/internal/services/session"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage/memory"
	redisstorage "github.com/nohumanman/desc-comp-toolkit/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// DefaultLogDir is where per-player diagnostic logs land when nothing
// else is configured.
const DefaultLogDir = "player_logs"

// App contains all wired application components
type App struct {
	Storage  storage.Store
	Clock    clock.Clock
	Registry *session.Registry
	Presence presence.Notifier
	Avatars  *steam.Client
	External *speedrun.Client
	Logs     *logsink.Sink
	Logger   *slog.Logger

	// nats holds the presence notifier when it is NATS-backed, so
	// Close can drain it.
	nats *presence.NATSNotifier
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// NATSConfig enables NATS-backed presence when non-nil; presence
	// updates are otherwise discarded
	NATSConfig *presence.NATSConfig
	// SteamAPIKey authorises avatar lookups against the Steam Web API
	SteamAPIKey string
	// SpeedrunConfig holds speedrun.com gateway settings (optional)
	// If zero value, defaults to speedrun.DefaultConfig()
	SpeedrunConfig speedrun.Config
	// LogDir is where per-player diagnostic logs are written
	// If empty, defaults to DefaultLogDir
	LogDir string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	var notifier presence.Notifier = presence.NewNoop()
	var natsNotifier *presence.NATSNotifier
	if cfg.NATSConfig != nil {
		var err error
		natsNotifier, err = presence.NewNATS(*cfg.NATSConfig, logger)
		if err != nil {
			return nil, err
		}
		notifier = natsNotifier
	}

	speedrunCfg := cfg.SpeedrunConfig
	if speedrunCfg.BaseURL == "" {
		speedrunCfg = speedrun.DefaultConfig()
	}

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = DefaultLogDir
	}
	clk := clock.New()
	sink, err := logsink.New(logDir, clk)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:  store,
		Clock:    clk,
		Registry: session.NewRegistry(),
		Presence: notifier,
		Avatars:  steam.NewClient(steam.DefaultBaseURL, cfg.SteamAPIKey),
		External: speedrun.NewClient(speedrunCfg),
		Logs:     sink,
		Logger:   logger,
		nats:     natsNotifier,
	}, nil
}

// SessionDeps bundles the app's components into the dependency set a
// session needs.
func (a *App) SessionDeps() session.Deps {
	return session.Deps{
		Store:    a.Storage,
		Registry: a.Registry,
		Presence: a.Presence,
		Avatars:  a.Avatars,
		External: a.External,
		Logs:     a.Logs,
		Clock:    a.Clock,
		Logger:   a.Logger,
	}
}

// Close releases external connections held by the app
func (a *App) Close() {
	if a.nats != nil {
		a.nats.Close()
	}
}
