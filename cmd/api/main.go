package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/animotheque/animotheque/internal/config"
	"github.com/animotheque/animotheque/internal/handler"
	"github.com/animotheque/animotheque/internal/lookup"
	"github.com/animotheque/animotheque/internal/middleware"
	"github.com/animotheque/animotheque/internal/repository"
	"github.com/animotheque/animotheque/internal/scheduler"
	"github.com/animotheque/animotheque/internal/service"
	"github.com/animotheque/animotheque/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Apply migrations
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatalf("Failed to configure migrations: %v", err)
	}
	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)

	var mailer service.Mailer
	if cfg.MailEnabled() {
		mailer = email.NewSender(cfg, logger)
	}

	svc := service.NewService(repo, repo, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Metadata lookup: static table first, Jikan as fallback, optionally
	// cached in Redis.
	var provider lookup.Provider = lookup.Chain{
		lookup.NewStatic(),
		lookup.NewJikanClient(cfg.JikanURL, logger),
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		provider = lookup.NewCached(provider, rdb, 24*time.Hour, logger)
	}

	// Release-estimate refresher
	refresher := scheduler.NewRefresher(repo, provider, logger)
	if err := refresher.Start(cfg.RefreshSchedule); err != nil {
		logger.Fatalf("Failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	// Public routes
	api.HandleFunc("/test", h.Test).Methods("GET")
	api.HandleFunc("/register", h.Register).Methods("POST")
	api.HandleFunc("/login", h.Login).Methods("POST")
	api.HandleFunc("/reset-password", h.ResetPassword).Methods("POST")
	// Protected routes
	animes := api.PathPrefix("/animes").Subrouter()
	animes.Use(middleware.Auth(svc, logger))
	animes.HandleFunc("", h.ListAnimes).Methods("GET")
	animes.HandleFunc("", h.CreateAnime).Methods("POST")
	animes.HandleFunc("/export", h.ExportAnimes).Methods("GET")
	animes.HandleFunc("/{id}", h.UpdateAnime).Methods("PUT")
	animes.HandleFunc("/{id}", h.DeleteAnime).Methods("DELETE")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.AllowedOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      cors(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
