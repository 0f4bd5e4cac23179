package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roomify/roomify-api/internal/config"
	"github.com/roomify/roomify-api/internal/domain/auth"
	"github.com/roomify/roomify-api/internal/domain/hosting"
	"github.com/roomify/roomify-api/internal/domain/project"
	"github.com/roomify/roomify-api/internal/middleware"
	"github.com/roomify/roomify-api/internal/pkg/database"
	"github.com/roomify/roomify-api/internal/pkg/genai"
	"github.com/roomify/roomify-api/internal/pkg/jwt"
	"github.com/roomify/roomify-api/internal/pkg/response"
	"github.com/roomify/roomify-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Roomify API")

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// Hosting backend: R2 when configured, local disk otherwise
	var store storage.Storage
	if cfg.R2Configured() {
		store, err = storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
	} else {
		log.Warn().Msg("R2 not configured, hosting images on local disk")
		store, err = storage.NewLocalStorage(cfg.LocalStoragePath, cfg.LocalStorageURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
	}

	// AI render provider; nil client disables the render endpoint
	aiClient := genai.NewClient(genai.Config{
		BaseURL: cfg.GenAIBaseURL,
		Token:   cfg.GenAIToken,
		Model:   cfg.GenAIModel,
		Timeout: cfg.GenAITimeout,
	})
	if aiClient == nil {
		log.Warn().Msg("GenAI provider not configured, rendering disabled")
	}

	projectRepo := project.NewRepository(redis)
	configStore := hosting.NewConfigStore(redis)
	resolver := hosting.NewResolver(store)

	var renderClient project.RenderClient
	if aiClient != nil {
		renderClient = aiClient
	}
	projectService := project.NewService(projectRepo, configStore, resolver, renderClient)

	projectHandler := project.NewHandler(projectService)
	authHandler := auth.NewHandler()

	authMiddleware := middleware.Auth(jwtService)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/projects", projectHandler.Routes(authMiddleware))
	})

	// Serve locally hosted images in development
	if _, ok := store.(*storage.LocalStorage); ok {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.LocalStoragePath)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
