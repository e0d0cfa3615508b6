package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/neatjs/neat/pkg/config"
	"github.com/neatjs/neat/pkg/cookie"
	"github.com/neatjs/neat/pkg/storage"
	"github.com/neatjs/neat/pkg/stores"
	"github.com/neatjs/neat/pkg/telemetry"
)

// env holds everything a command needs, built from the config file. ctx
// carries the telemetry bundle and is what commands pass to the facade.
type env struct {
	ctx     context.Context
	cfg     *config.Config
	tel     *telemetry.Telemetry
	local   storage.Backend
	jar     cookie.Jar
	cookies *cookie.Store
	facade  *storage.Facade

	closers []func() error
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openEnv loads the config and opens both backends.
func openEnv(ctx context.Context, version string) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openEnvWith(ctx, cfg, version)
}

func openEnvWith(ctx context.Context, cfg *config.Config, version string) (*env, error) {
	tel, err := telemetry.NewTelemetry(cfg.Telemetry(version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	e := &env{ctx: tel.WithContext(ctx), cfg: cfg, tel: tel}
	e.closers = append(e.closers, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return tel.Shutdown(shutdownCtx)
	})

	if err := e.openLocal(ctx); err != nil {
		e.close()
		return nil, err
	}

	if err := e.openJar(); err != nil {
		e.close()
		return nil, err
	}
	e.cookies = cookie.NewStore(e.jar)

	e.facade, err = storage.New(e.local,
		storage.NewCookieBackend(e.cookies, cfg.Storage.CookieExpireDays,
			storage.WithCookieMetrics(tel.Metrics),
			storage.WithCookieTracer(tel.Tracer)),
		storage.WithPrefix(cfg.Storage.Prefix),
		storage.WithTelemetry(tel),
	)
	if err != nil {
		e.close()
		return nil, err
	}

	return e, nil
}

func (e *env) openLocal(ctx context.Context) error {
	lc := e.cfg.Storage.Local
	switch lc.Driver {
	case config.DriverNone:
		// Every call goes to the cookie jar.
	case config.DriverMemory:
		m := stores.NewMemoryStore()
		m.SetQuota(lc.MaxEntries)
		e.local = m
	case config.DriverSQLite:
		s, err := stores.NewSQLiteStore(stores.Config{Path: lc.Path, MaxEntries: lc.MaxEntries})
		if err != nil {
			return err
		}
		// An unusable database leaves the local store unavailable rather
		// than failing the command.
		if err := s.Init(ctx); err != nil {
			log.Warn().Err(err).Str("path", lc.Path).Msg("Local store unavailable")
			e.local = s
			return nil
		}
		e.closers = append(e.closers, s.Close)
		if err := s.Migrate(ctx); err != nil {
			log.Warn().Err(err).Str("path", lc.Path).Msg("Local store migration failed")
		}
		e.local = s
	default:
		return fmt.Errorf("unknown local driver %q", lc.Driver)
	}
	return nil
}

func (e *env) openJar() error {
	cc := e.cfg.Storage.Cookies
	switch cc.Jar {
	case config.JarMemory:
		e.jar = cookie.NewMemoryJar()
	case config.JarFile:
		fj, err := cookie.NewFileJar(cc.Path, cookie.WithFileJarLogger(log.Logger))
		if err != nil {
			return err
		}
		e.jar = fj
	default:
		return fmt.Errorf("unknown cookie jar %q", cc.Jar)
	}
	return nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			log.Debug().Err(err).Msg("Close failed")
		}
	}
}
