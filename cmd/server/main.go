package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"Pulse/internal/api/middleware"
	"Pulse/internal/api/routes"
	"Pulse/internal/config"
	"Pulse/internal/core/contents"
	postgresRepo "Pulse/internal/db/postgres"
	"Pulse/internal/jobs"
	"Pulse/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to content database")

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}

	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	// Repositories and services
	contentRepo := postgresRepo.NewContentRepository(db)
	contentService := contents.NewContentService(contentRepo)

	// Background jobs: upstream content pull and AI comment round-trip
	ctx := context.Background()
	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey)

	dispatcher := jobs.NewDispatcher(cfg.JobQueueSize)
	dispatcher.Register(jobs.JobContentPull, upstream.PullContentsJob(upstreamClient, contentService))
	dispatcher.Register(jobs.JobGenerateComment, upstream.GenerateCommentJob(upstreamClient))
	go dispatcher.Start(ctx)

	if cfg.ContentPullInterval > 0 {
		go jobs.RunEvery(ctx, dispatcher, jobs.JobContentPull, cfg.ContentPullInterval)
	} else {
		log.Println("Periodic content pull disabled")
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Global rate limit per IP
	rateLimiter := middleware.NewRateLimiter(cfg.GlobalRateLimit, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	routes.RegisterContentRoutes(r, contentService)

	// AI comment trigger: API key auth plus its own tighter limit
	apiKeyAuth := middleware.NewAPIKeyAuth(cfg.ServiceAPIKey)
	commentLimiter := middleware.NewRateLimiter(cfg.AICommentRateLimit, 1*time.Minute)
	routes.RegisterCommentRoutes(r, dispatcher, apiKeyAuth, commentLimiter)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	fmt.Printf("Pulse content service starting on %s\n", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
