// Package admin provides an HTTP introspection component. It serves the
// application's component registry over a chi router:
//
//	GET /healthz           liveness probe
//	GET /components        every registered component, in dependency order
//	GET /components/<id>   one component, 404 if unknown
//
// The server is not started by registration. The application spawns Serve
// on its thread manager once configured, and BeforeShutdown stops it.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/logging"
)

// ComponentID is the identifier the Admin component registers under.
var ComponentID = component.TypeID[Admin]()

// ThreadName is the thread manager name conventionally used for Serve.
const ThreadName = "bootkit::admin"

// Describer lists registered components. *component.Registry implements it.
type Describer interface {
	Descriptors() []component.Descriptor
}

// Admin is the introspection server component.
type Admin struct {
	component.Injector

	cfg    Config
	logger component.Logger

	mu     sync.Mutex
	server *http.Server
	addr   net.Addr
	ready  chan struct{}
}

// New creates the Admin component with default configuration. It depends on
// the logging component.
func New() *Admin {
	a := &Admin{logger: component.NopLogger{}, ready: make(chan struct{})}
	_ = config.ProcessDefaults(&a.cfg)

	component.Inject(&a.Injector, logging.ComponentID, func(_ component.Handle, l *logging.Logging) error {
		a.logger = l
		return nil
	})
	return a
}

// ID implements component.Component
func (a *Admin) ID() component.ID {
	return ComponentID
}

// Version implements component.Component
func (a *Admin) Version() component.Version {
	return component.FrameworkVersion
}

// Config returns the effective configuration.
func (a *Admin) Config() Config {
	return a.cfg
}

// AfterConfig reads the [admin] section. Without one the defaults apply.
func (a *Admin) AfterConfig(cfg config.Provider) error {
	if cfg == nil {
		return nil
	}
	var section Config
	if err := cfg.Section(SectionName, &section); err != nil {
		if errors.Is(err, config.ErrSectionNotFound) {
			return nil
		}
		return fmt.Errorf("admin: %w", err)
	}
	a.cfg = section
	return nil
}

// Handler returns the introspection routes for components.
func (a *Admin) Handler(components Describer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/components", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, components.Descriptors())
		})
		// IDs are package paths, so the rest of the URL is the ID.
		r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
			id := component.ID(chi.URLParam(req, "*"))
			for _, d := range components.Descriptors() {
				if d.ID == id {
					writeJSON(w, http.StatusOK, d)
					return
				}
			}
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown component " + id.String()})
		})
	})
	return r
}

// Serve listens on the configured address and serves Handler(components)
// until ctx is cancelled or the component shuts down.
func (a *Admin) Serve(ctx context.Context, components Describer) error {
	a.mu.Lock()
	if a.server != nil {
		a.mu.Unlock()
		return ErrAlreadyServing
	}
	ln, err := net.Listen("tcp", a.cfg.Address)
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("%w: listen %s: %w", ErrAdmin, a.cfg.Address, err)
	}
	srv := &http.Server{
		Handler:           a.Handler(components),
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
	}
	a.server = srv
	a.addr = ln.Addr()
	close(a.ready)
	a.mu.Unlock()

	a.logger.Info("Admin server listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		if err := a.stop(false); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrAdmin, err)
	}
}

// Ready is closed once Serve is listening.
func (a *Admin) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the listening address, or nil before Serve.
func (a *Admin) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

// BeforeShutdown implements component.ShutdownAware. A graceful shutdown
// drains open requests within the configured timeout; otherwise the server
// is closed immediately.
func (a *Admin) BeforeShutdown(kind component.Shutdown) error {
	return a.stop(kind != component.ShutdownGraceful)
}

func (a *Admin) stop(force bool) error {
	a.mu.Lock()
	srv := a.server
	a.mu.Unlock()
	if srv == nil {
		return nil
	}

	if force {
		return srv.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.logger.Warn("Admin server did not drain in time", "timeout", a.cfg.ShutdownTimeout, "error", err)
		return srv.Close()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

