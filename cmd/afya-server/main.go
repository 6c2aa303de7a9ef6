package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/afyajamii/afya/internal/config"
	"github.com/afyajamii/afya/internal/domain/assessment"
	"github.com/afyajamii/afya/internal/domain/conversation"
	"github.com/afyajamii/afya/internal/domain/identity"
	"github.com/afyajamii/afya/internal/domain/vitals"
	"github.com/afyajamii/afya/internal/platform/advice"
	"github.com/afyajamii/afya/internal/platform/auth"
	"github.com/afyajamii/afya/internal/platform/db"
	"github.com/afyajamii/afya/internal/platform/middleware"
	"github.com/afyajamii/afya/internal/platform/ml"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "afya-server",
		Short: "Afya Jamii clinical support API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Risk classifier. The server refuses to start without a usable model
	// artifact; every submission depends on it.
	classifier, err := ml.Load(cfg.ModelPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.ModelPath).Msg("failed to load risk model")
	}
	logger.Info().Str("path", cfg.ModelPath).Msg("risk model loaded")

	// Advice client. Runs degraded (fallback text) when unconfigured.
	advisor := advice.NewClient(advice.Config{
		BaseURL:     cfg.GroqBaseURL,
		APIKey:      cfg.GroqAPIKey,
		Model:       cfg.LLMModelName,
		Temperature: cfg.LLMTemperature,
		Timeout:     time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
	}, logger)
	if !advisor.Ready() {
		logger.Warn().Msg("advice client not fully configured; responses will use the degraded fallback")
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	hasher := auth.NewHasher(cfg.BcryptCost)

	// Repositories and services
	userRepo := identity.NewRepo(pool)
	vitalsRepo := vitals.NewRepo(pool)
	turnRepo := conversation.NewRepo(pool)

	identitySvc := identity.NewService(userRepo, hasher, issuer, logger)
	assessmentSvc := assessment.NewService(vitalsRepo, turnRepo, classifier, advisor, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(60 * time.Second))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		dbOK := db.Ping(c.Request().Context(), pool) == nil
		llmOK := advisor.Ready()

		status := "healthy"
		if !dbOK || !llmOK {
			status = "degraded"
		}
		code := http.StatusOK
		if !dbOK {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, map[string]interface{}{
			"status": status,
			"services": map[string]bool{
				"database":    dbOK,
				"ml_model":    classifier != nil,
				"llm_service": llmOK,
			},
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Public auth endpoints with per-route rate limits
	authGroup := e.Group("/api/v1/auth")
	loginLimit := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.LoginRatePerMinute,
		BurstSize:         cfg.LoginRatePerMinute,
	})
	signupLimit := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.SignupRatePerMinute,
		BurstSize:         cfg.SignupRatePerMinute,
	})
	identityHandler := identity.NewHandler(identitySvc)
	identityHandler.RegisterRoutes(authGroup, loginLimit, signupLimit)

	// Authenticated API
	apiV1 := e.Group("/api/v1")
	apiV1.Use(auth.Middleware(issuer))
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		BurstSize:         cfg.RateLimitPerMinute,
	}))

	identityHandler.RegisterProtectedRoutes(apiV1)
	assessment.NewHandler(assessmentSvc).RegisterRoutes(apiV1)
	vitals.NewHandler(vitalsRepo).RegisterRoutes(apiV1)
	conversation.NewHandler(turnRepo).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
