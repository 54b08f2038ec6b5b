package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-locator/app"
	gohttp "github.com/km-arc/go-locator/http"
	"github.com/km-arc/go-locator/locator"
	"github.com/km-arc/go-locator/routing"
)

// ── Services ─────────────────────────────────────────────────────────────────

// Clock hands out timestamps; registered lazily so tests can swap it.
type Clock struct{}

func (Clock) Now() time.Time { return time.Now().UTC() }

// Greeter formats greetings; depends on the Clock through the locator.
type Greeter struct {
	clock *Clock
}

func (g *Greeter) Greet(name string) string {
	return "Hello, " + name + "! It is " + g.clock.Now().Format(time.RFC3339)
}

// Service keys. RequestID is a factory: a fresh id per retrieval.
var (
	KeyClock     = locator.NewLazy[*Clock]("clock")
	KeyGreeter   = locator.NewLazy[*Greeter]("greeter")
	KeyRequestID = locator.NewFactory[string]("request-id")
)

// ── Modules ──────────────────────────────────────────────────────────────────

// servicesModule registers the demo's domain services.
type servicesModule struct {
	app.BaseModule
}

func (servicesModule) Register(a *app.Application) error {
	l := a.Locator()
	if err := KeyClock.Put(l, func() (*Clock, error) {
		return &Clock{}, nil
	}); err != nil {
		return err
	}
	if err := KeyGreeter.Put(l, func() (*Greeter, error) {
		clock, err := KeyClock.Get(l)
		if err != nil {
			return nil, err
		}
		return &Greeter{clock: clock}, nil
	}); err != nil {
		return err
	}
	return KeyRequestID.Put(l, func() (string, error) {
		return uuid.NewString(), nil
	})
}

// routesModule wires HTTP routes in Boot, after all services exist.
type routesModule struct{}

func (routesModule) Register(*app.Application) error { return nil }

func (routesModule) Boot(a *app.Application) error {
	router, err := a.Router()
	if err != nil {
		return err
	}
	l := a.Locator()
	log := a.Log

	router.Middleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := KeyRequestID.Get(l)
			if err == nil {
				w.Header().Set("X-Request-Id", id)
				log.Debug("request", zap.String("id", id), zap.String("path", r.URL.Path))
			}
			next.ServeHTTP(w, r)
		})
	})

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{
			"app":   a.Config.App.Name,
			"scope": a.Scope().ScopeName(),
		})
	})

	router.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/time", func(w http.ResponseWriter, _ *http.Request) {
			clock, err := KeyClock.Get(l)
			if err != nil {
				gohttp.NewResponse(w).ServerError(err.Error())
				return
			}
			gohttp.NewResponse(w).Success(map[string]any{"now": clock.Now()})
		})

		api.Get("/greet/{name}", func(w http.ResponseWriter, r *http.Request) {
			greeter, err := KeyGreeter.Get(l)
			if err != nil {
				gohttp.NewResponse(w).ServerError(err.Error())
				return
			}
			name := routing.Param(r, "name")
			gohttp.NewResponse(w).Success(map[string]any{"greeting": greeter.Greet(name)})
		})
	})
	return nil
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		panic(err)
	}

	// One process-wide locator; a second bootstrap is a hard error.
	if err := locator.SetGlobal(application.Scoped); err != nil {
		application.Log.Fatal("bootstrap", zap.Error(err))
	}

	if err := application.Register(servicesModule{}); err != nil {
		application.Log.Fatal("register", zap.Error(err))
	}
	if err := application.Register(routesModule{}); err != nil {
		application.Log.Fatal("register", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		application.Log.Fatal("server", zap.Error(err))
	}
}
