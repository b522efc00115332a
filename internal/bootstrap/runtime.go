package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gpse/sesam-client/config"
	"github.com/gpse/sesam-client/internal/adapters/bearer"
	"github.com/gpse/sesam-client/internal/adapters/filestore"
	redisstore "github.com/gpse/sesam-client/internal/adapters/redis"
	"github.com/gpse/sesam-client/internal/api"
	"github.com/gpse/sesam-client/internal/navigation"
	"github.com/gpse/sesam-client/internal/observability/statsd"
	"github.com/gpse/sesam-client/internal/ports"
	"github.com/gpse/sesam-client/internal/service"
)

// RuntimeOptions groups inputs for NewRuntime.
type RuntimeOptions struct {
	Config config.AppConfig
	Logger *slog.Logger

	// Store replaces the configured persisted state backend when non-nil.
	Store ports.KeyValueStore
	// Transport sits below the bearer credential transport. Nil means http.DefaultTransport.
	Transport http.RoundTripper
	// Routes replaces navigation.DefaultRoutes when non-nil.
	Routes []navigation.Route
}

// Runtime holds the wired client: persisted state, credential, API client,
// session services and the navigation router.
type Runtime struct {
	Config      config.AppConfig
	Logger      *slog.Logger
	Store       ports.KeyValueStore
	Credentials *bearer.Provider
	API         *api.Client
	Metrics     statsd.Sink
	Profiles    *service.ProfileStore
	Session     *service.SessionService
	Auth        *service.AuthService
	Preferences *service.Preferences
	Router      *navigation.Router

	closers []func() error
}

var _ ports.Reloader = (*Runtime)(nil)

// NewRuntime wires all client components from configuration.
func NewRuntime(ctx context.Context, opts RuntimeOptions) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rt := &Runtime{Config: opts.Config, Logger: logger}

	store, err := rt.buildStore(ctx, opts.Store)
	if err != nil {
		return nil, err
	}
	rt.Store = store
	rt.Metrics = rt.buildMetrics()

	rt.Credentials = bearer.NewProvider()
	client, err := api.NewClient(api.Config{
		BaseURL:   opts.Config.API.BaseURL,
		Timeout:   opts.Config.API.Timeout,
		UserAgent: opts.Config.API.UserAgent,
		Transport: &bearer.Transport{Provider: rt.Credentials, Base: opts.Transport},
		Metrics:   rt.Metrics,
		Logger:    logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create api client: %w", err), rt.Close())
	}
	rt.API = client

	rt.Profiles = service.NewProfileStore()
	rt.Session = service.NewSessionService(service.SessionServiceOptions{
		Store:       rt.Store,
		Credentials: rt.Credentials,
		Profiles:    rt.Profiles,
		Fetcher:     rt.API,
		Reloader:    rt,
		Logger:      logger,
	})
	rt.Auth = service.NewAuthService(service.AuthServiceOptions{
		Authenticator: rt.API,
		Passwords:     rt.API,
		Session:       rt.Session,
		Logger:        logger,
	})
	rt.Preferences = service.NewPreferences(rt.Store)

	guard := navigation.NewGuard(navigation.GuardOptions{
		Session:  rt.Session,
		Profiles: rt.Profiles,
		Logger:   logger,
	})
	rt.Router = navigation.NewRouter(guard, opts.Routes)
	return rt, nil
}

// Reload drops all in-memory identity after a failed session restore so the
// next navigation starts from a clean slate.
func (r *Runtime) Reload(ctx context.Context) {
	r.Profiles.Reset()
	r.Credentials.Clear()
	r.Logger.WarnContext(ctx, "stored session rejected; client state reset")
}

// Close releases connections held by the runtime.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

//nolint:ireturn // the backend is chosen from configuration.
func (r *Runtime) buildStore(ctx context.Context, override ports.KeyValueStore) (ports.KeyValueStore, error) {
	if override != nil {
		return override, nil
	}

	cfg := r.Config.Storage
	switch cfg.Mode {
	case config.StorageModeRedis:
		client, err := ConnectRedis(ctx, RedisOptions{Config: r.Config.Redis, Logger: r.Logger})
		if err != nil {
			return nil, fmt.Errorf("connect state store: %w", err)
		}
		r.closers = append(r.closers, client.Close)
		return redisstore.NewKVStore(client, redisstore.KVStoreOptions{
			Prefix: cfg.RedisPrefix,
			TTL:    cfg.RedisTTL,
		}), nil
	case config.StorageModeFile, "":
		path := cfg.StateFile
		if path == "" {
			path = filestore.DefaultPath()
		}
		store, err := filestore.New(path)
		if err != nil {
			return nil, fmt.Errorf("open state file: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage mode %q", cfg.Mode)
	}
}

//nolint:ireturn // a nil Sink disables metrics.
func (r *Runtime) buildMetrics() statsd.Sink {
	m := r.Config.Observability.Metrics
	if !m.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: m.StatsdAddress,
		Prefix:  m.Prefix,
		Logger:  r.Logger,
	})
	if err != nil {
		r.Logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	r.closers = append(r.closers, client.Close)
	return client
}
