package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/condovia/condovia-backend/internal/auth"
	"github.com/condovia/condovia-backend/internal/featureflag"
	projectevents "github.com/condovia/condovia-backend/internal/project/events"
	projecthandler "github.com/condovia/condovia-backend/internal/project/handler"
	projectrepo "github.com/condovia/condovia-backend/internal/project/repository"
	projectservice "github.com/condovia/condovia-backend/internal/project/service"
	userhandler "github.com/condovia/condovia-backend/internal/user/handler"
	userrepo "github.com/condovia/condovia-backend/internal/user/repository"
	userservice "github.com/condovia/condovia-backend/internal/user/service"
	"github.com/condovia/condovia-backend/pkg/config"
	"github.com/condovia/condovia-backend/pkg/database"
	"github.com/condovia/condovia-backend/pkg/httputil"
	"github.com/condovia/condovia-backend/pkg/logger"
	"github.com/condovia/condovia-backend/pkg/messaging"
	"github.com/condovia/condovia-backend/pkg/migrate"
)

func main() {
	configDir := flag.String("config", "config", "directory containing app.json, database.json, logging.json")
	flag.Parse()

	// Load configuration once; it is immutable afterwards.
	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFromConfig("condovia", logger.Config{
		Level:        cfg.Logging.Global.Level,
		Console:      cfg.Logging.Handlers.Console.Enabled,
		FilePath:     fileSinkPath(cfg),
		MaxSizeMB:    cfg.Logging.Handlers.File.MaxSizeMB,
		ModuleLevels: cfg.Logging.ModuleLevels(),
	})
	log.Info().Msg("starting Condovia server")

	// Open the database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	// Migration runs to completion before any repository serves a request.
	// A failed migration aborts startup.
	migrator := migrate.New(db, cfg.Database.MigrationsPath, log.ForModule("migrate"))
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	// Optional event broker
	projectPublisher := projectevents.NewNoopPublisher(log)
	var userPublisher *messaging.Publisher
	if url := os.Getenv("CONDOVIA_RABBITMQ_URL"); url != "" {
		rmq, err := messaging.New(url, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		projectPublisher, err = projectevents.NewProjectEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create project event publisher")
		}
		userPublisher, err = messaging.NewPublisher(rmq, messaging.ExchangeUserEvents, "condovia", log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create user event publisher")
		}
	}

	// Repositories
	projectRepository := projectrepo.NewProjectRepository(db, log.ForModule("project"))
	userRepository := userrepo.NewUserRepository(db, log.ForModule("user"))

	// Services
	projectService := projectservice.NewProjectService(projectRepository, projectPublisher, log.ForModule("project"))
	userService := userservice.NewUserService(userRepository, userPublisher, log.ForModule("user"))
	flagService := featureflag.NewService(db, log.ForModule("featureflag"))

	// Auth
	jwtManager := auth.NewManager(cfg.App.SecretKey, 12*time.Hour)

	// Handlers
	projectHandler := projecthandler.NewProjectHandler(projectService, log)
	userHandler := userhandler.NewUserHandler(userService, log)
	authHandler := userhandler.NewAuthHandler(userService, jwtManager, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "condovia",
			"database": db.Health(req.Context()),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtManager))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Get("/{projectID}", projectHandler.Get)

				r.With(flagService.Require("analytics_module")).
					Get("/{projectID}/statistics", projectHandler.Statistics)
				r.With(flagService.Require("finance_module")).
					Get("/{projectID}/finance", projectHandler.FinanceReport)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole("admin"))
					r.Post("/", projectHandler.Create)
					r.Put("/{projectID}/units", projectHandler.AdjustUnits)
					r.Delete("/{projectID}", projectHandler.Delete)
					r.Delete("/by-name/{name}", projectHandler.DeleteByName)
				})
			})

			r.Route("/units", func(r chi.Router) {
				r.Get("/{unitID}", projectHandler.GetUnit)
				r.With(auth.RequireRole("admin")).Patch("/{unitID}", projectHandler.UpdateUnit)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(auth.RequireRole("admin"))
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Get("/{username}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{username}", userHandler.Delete)
			})
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func fileSinkPath(cfg *config.Config) string {
	if cfg.Logging.Handlers.File.Enabled {
		return cfg.Logging.Handlers.File.Path
	}
	return ""
}
