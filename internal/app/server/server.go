package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"staffdesk/internal/domain/attendance"
	"staffdesk/internal/domain/auth"
	"staffdesk/internal/domain/directory"
	"staffdesk/internal/domain/feedback"
	"staffdesk/internal/domain/leave"
	"staffdesk/internal/domain/notifications"
	"staffdesk/internal/domain/reports"
	"staffdesk/internal/platform/config"
	"staffdesk/internal/platform/db"
	"staffdesk/internal/platform/email"
	"staffdesk/internal/platform/logging"
	attendancehandler "staffdesk/internal/transport/http/handlers/attendance"
	authhandler "staffdesk/internal/transport/http/handlers/auth"
	directoryhandler "staffdesk/internal/transport/http/handlers/directory"
	feedbackhandler "staffdesk/internal/transport/http/handlers/feedback"
	leavehandler "staffdesk/internal/transport/http/handlers/leave"
	notificationshandler "staffdesk/internal/transport/http/handlers/notifications"
	reportshandler "staffdesk/internal/transport/http/handlers/reports"
	"staffdesk/internal/transport/http/middleware"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config invalid")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	router := NewRouter(cfg, pool)

	log.Info().Str("addr", cfg.Addr).Msg("staffdesk server listening")
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// NewRouter wires stores, services and handlers onto the HTTP surface.
func NewRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	authStore := auth.NewStore(pool)
	directoryStore := directory.NewStore(pool)
	leaveService := leave.NewService(leave.NewStore(pool), directoryStore)
	attendanceService := attendance.NewService(attendance.NewStore(pool))
	feedbackService := feedback.NewService(feedback.NewStore(pool), directoryStore)
	notifyService := notifications.NewService(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)
	reportsService := reports.NewService(reports.NewStore(pool), attendanceService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryStore, authStore).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, authStore, notifyService).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, directoryStore, authStore).RegisterRoutes(r)
		feedbackhandler.NewHandler(feedbackService, directoryStore, authStore).RegisterRoutes(r)
		notificationshandler.NewHandler(notifyService, authStore).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, authStore).RegisterRoutes(r)
	})

	return router
}
