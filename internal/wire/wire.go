package wire

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"theatre-booking/internal/adaptor"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/usecase"
	"theatre-booking/pkg/events"
	"theatre-booking/pkg/middleware"
	"theatre-booking/pkg/storage"
	"theatre-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router plus the components main has to run and close.
type App struct {
	Router *chi.Mux
	Bus    *events.Bus // nil when EVENTS_ENABLED is off
}

// routeDeps is what the per-group wire functions share.
type routeDeps struct {
	repo   *repository.Repository
	config *utils.Config
	redis  redis.UniversalClient
	log    *zap.Logger
}

func (d routeDeps) auth() func(http.Handler) http.Handler {
	return middleware.Auth(d.config.JWT, d.log)
}

func (d routeDeps) admin() func(http.Handler) http.Handler {
	return middleware.Admin(d.repo.User, d.log)
}

func (d routeDeps) cache() func(http.Handler) http.Handler {
	return middleware.Cache(d.config.Cache, d.redis, d.log)
}

func (d routeDeps) invalidate() func(http.Handler) http.Handler {
	return middleware.InvalidateOnWrite(d.config.Cache, d.redis, d.log)
}

// Wiring builds every dependency and the router. rdb may be nil.
func Wiring(repo *repository.Repository, config *utils.Config, rdb redis.UniversalClient, logger *zap.Logger) (*App, error) {
	var (
		bus       *events.Bus
		publisher events.Publisher
	)
	if config.Events.Enabled {
		var err error
		bus, err = events.NewBus(rdb, logger)
		if err != nil {
			return nil, fmt.Errorf("create event bus: %w", err)
		}
		if err := bus.AddHandlers(events.NewReservationLogHandler(logger).Handlers()...); err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("register event handlers: %w", err)
		}
		publisher = bus
	}

	images := storage.NewLocalStorage(config.Media.Root, logger)

	service := usecase.NewService(repo, config, publisher, images, logger)
	handler := adaptor.NewHandler(service, config.Media.MaxUploadB, logger)

	deps := routeDeps{repo: repo, config: config, redis: rdb, log: logger}
	router := setupRouter(handler, deps)

	return &App{
		Router: router,
		Bus:    bus,
	}, nil
}

func setupRouter(handler *adaptor.Handler, deps routeDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(deps.log))
	r.Use(middleware.Recover(deps.log))

	r.Get("/health", healthHandler(deps.repo))
	mountMedia(r, deps.config.Media)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.config.RateLimit, deps.redis, deps.log))

		wireAuth(r, handler.Auth, deps)
		wireUser(r, handler.User, deps)

		r.Route("/theatre", func(r chi.Router) {
			r.Use(deps.auth())

			wireCatalog(r, handler.Catalog, deps)
			wirePlay(r, handler.Play, deps)
			wirePerformance(r, handler.Performance, deps)
			wireReservation(r, handler.Reservation, deps)
		})
	})

	return r
}

func healthHandler(repo *repository.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := repo.Ping(ctx); err != nil {
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}

// mountMedia serves uploaded files, e.g. actor images under /media/actors/.
func mountMedia(r chi.Router, cfg utils.MediaConfig) {
	prefix := "/" + strings.Trim(cfg.URLPrefix, "/")
	if prefix == "/" || cfg.Root == "" {
		return
	}
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Root)))
	r.Get(prefix+"/*", fs.ServeHTTP)
}
