package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/statview/internal/browser"
	"github.com/five82/statview/internal/config"
	"github.com/five82/statview/internal/favorites"
	"github.com/five82/statview/internal/localstore"
	"github.com/five82/statview/internal/logging"
	"github.com/five82/statview/internal/prefs"
	"github.com/five82/statview/internal/query"
	"github.com/five82/statview/internal/statista"
	"github.com/five82/statview/internal/ui"
)

// Options configure the statview application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses the default prefs.toml
	Route      string // optional statistic/<id>?... deep link
	RealAPI    *bool  // nil keeps the saved source preference
	Version    string
}

// Env holds the services shared by the TUI and the subcommands.
type Env struct {
	Config    config.Config
	Logger    *logging.Logger
	Searcher  *statista.Client
	Query     *query.Client
	Store     *localstore.Store
	Favorites *favorites.Service
}

// Setup loads configuration and wires every service. Callers must Close the
// returned Env.
func Setup(configPath, version string) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.Open(cfg.LogDir, cfg.Level())
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	userAgent := ""
	if version != "" {
		userAgent = "statview/" + version
	}
	searcher, err := statista.NewClient(statista.Options{
		APIBaseURL:        cfg.APIBaseURL,
		StaticURL:         cfg.StaticURL,
		APIKey:            cfg.APIKey,
		PageSize:          cfg.PageSize,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         userAgent,
		Logger:            logger.Logger,
	})
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("init statista client: %w", err)
	}

	store, err := localstore.Open(cfg.DatabasePath())
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	client := query.NewClient(query.Options{
		StaleTime: cfg.StaleTime,
		CacheTime: cfg.CacheTime,
		Logger:    logger.Logger,
	})

	return &Env{
		Config:    cfg,
		Logger:    logger,
		Searcher:  searcher,
		Query:     client,
		Store:     store,
		Favorites: favorites.NewService(favorites.NewStore(store), client),
	}, nil
}

// Close releases the database and the log file.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	return errors.Join(e.Store.Close(), e.Logger.Close())
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts.ConfigPath, opts.Version)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)
	realAPI := userPrefs.RealAPI
	if opts.RealAPI != nil {
		realAPI = *opts.RealAPI
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	StartJanitor(ctx, env.Query, env.Config.GCInterval, env.Logger.Logger)

	env.Logger.Info("starting ui", "real_api", realAPI, "theme", userPrefs.Theme, "route", opts.Route)
	return ui.Run(ui.Options{
		Context:   ctx,
		Searcher:  env.Searcher,
		Client:    env.Query,
		Favorites: env.Favorites,
		OpenURL:   browser.Open,
		Logger:    env.Logger.Logger,
		PageSize:  env.Config.PageSize,
		Debounce:  env.Config.Debounce,
		ThemeName: userPrefs.Theme,
		RealAPI:   realAPI,
		PrefsPath: opts.PrefsPath,
		Route:     opts.Route,
	})
}
