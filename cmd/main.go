// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/config"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/handlers"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/seed"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	// 2. Initialize Database Connection (GORM)
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 3. Dependency Injection
	questionRepo := repository.NewGormQuestionRepository()
	progressRepo := repository.NewGormProgressRepository()
	sessionRepo := repository.NewGormSessionRepository()

	questionService := service.NewQuestionService(db, questionRepo, &config.Cfg)
	progressService := service.NewProgressService(db, progressRepo, questionRepo)
	statsService := service.NewStatsService(db, progressRepo, questionRepo)
	sessionService := service.NewSessionService(db, sessionRepo, &config.Cfg)

	questionHandler := handlers.NewQuestionHandler(questionService, logger)
	progressHandler := handlers.NewProgressHandler(progressService, logger)
	statsHandler := handlers.NewStatsHandler(statsService, logger)
	sessionHandler := handlers.NewSessionHandler(sessionService, logger)

	// 問題カタログの初期投入（投入後は読み取り専用として扱う）
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := seed.LoadQuestions(seedCtx, config.Cfg.App.SeedFile, questionService, logger); err != nil {
		seedCancel()
		slog.Error("Error seeding question catalog", slog.Any("error", err))
		os.Exit(1)
	}
	seedCancel()

	// 4. Setup Router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Question catalog
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.ListQuestions)
			r.Post("/", questionHandler.PostQuestion)
			r.Get("/{question_id}", questionHandler.GetQuestion)
		})

		// Per-user progress / bookmarks / stats
		r.Route("/users/{user_id}", func(r chi.Router) {
			r.Use(middleware.UserContextMiddleware)
			r.Get("/progress", progressHandler.GetUserProgress)
			r.Get("/progress/{question_id}", progressHandler.GetQuestionProgress)
			r.Post("/progress/{question_id}", progressHandler.UpdateProgress)
			r.Post("/answers/{question_id}", progressHandler.SubmitAnswer)
			r.Get("/bookmarks", progressHandler.GetBookmarkedQuestions)
			r.Get("/stats", statsHandler.GetUserStats)
		})

		// Study sessions (audit trail)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.PostSession)
			r.Patch("/{session_id}", sessionHandler.PatchSession)
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 5. Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
