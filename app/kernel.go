package app

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-locator/config"
	"github.com/km-arc/go-locator/locator"
	"github.com/km-arc/go-locator/routing"
)

// Keys for the services the kernel itself registers. Application modules
// resolve these and register their own alongside.
var (
	KeyConfig = locator.NewSingleton[*config.Config]("config")
	KeyLogger = locator.NewSingleton[*zap.Logger]("logger")
	KeyRouter = locator.NewLazy[*routing.Router]("router")
)

// Module is a unit of service registration. Register binds keys into the
// application's locator; Boot runs after all modules have registered, so it
// may resolve any binding.
type Module interface {
	Register(a *Application) error
	Boot(a *Application) error
}

// BaseModule is an embeddable no-op Boot implementation.
type BaseModule struct{}

func (BaseModule) Boot(*Application) error { return nil }

// Application is the top-level kernel: a scoped locator plus the module
// registry driving registration and boot phases.
type Application struct {
	*locator.Scoped

	Config *config.Config
	Log    *zap.Logger

	modules []Module
	booted  bool
}

// New loads configuration, derives the scope from APP_ENV, and bootstraps
// the kernel's own services.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	log := newLogger(cfg)
	scope := ScopeFor(cfg.App.Env)

	a := &Application{
		Scoped: locator.NewScoped(scope, locator.WithLogger(log)),
		Config: cfg,
		Log:    log,
	}

	if err := KeyConfig.Put(a.Locator(), cfg); err != nil {
		return nil, err
	}
	if err := KeyLogger.Put(a.Locator(), log); err != nil {
		return nil, err
	}
	if err := KeyRouter.Put(a.Locator(), func() (*routing.Router, error) {
		return routing.New(), nil
	}); err != nil {
		return nil, err
	}
	return a, nil
}

// Locator returns the underlying base locator, for key methods that take a
// *locator.Locator.
func (a *Application) Locator() *locator.Locator {
	return a.Scoped.Locator
}

// Register adds a module and runs its Register phase. A module registered
// after Boot is booted immediately.
func (a *Application) Register(m Module) error {
	if err := m.Register(a); err != nil {
		return err
	}
	a.modules = append(a.modules, m)
	if a.booted {
		return m.Boot(a)
	}
	return nil
}

// Boot runs the Boot phase on all registered modules, once.
func (a *Application) Boot() error {
	if a.booted {
		return nil
	}
	a.booted = true
	for _, m := range a.modules {
		if err := m.Boot(a); err != nil {
			return err
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (a *Application) Booted() bool { return a.booted }

// Router resolves the router service.
func (a *Application) Router() (*routing.Router, error) {
	return KeyRouter.Get(a.Locator())
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	if err := a.Boot(); err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return err
	}
	addr := ":" + a.Config.App.Port
	a.Log.Info("listening",
		zap.String("app", a.Config.App.Name),
		zap.String("addr", addr),
		zap.String("env", a.Config.App.Env))
	return http.ListenAndServe(addr, router)
}

// newLogger builds the application logger from config. A broken level value
// falls back to the config default rather than failing bootstrap.
func newLogger(cfg *config.Config) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if cfg.App.Debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log.Named(cfg.App.Name)
}
