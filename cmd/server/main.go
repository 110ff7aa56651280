package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/streamline-api/internal/auth"
	"github.com/yukikurage/streamline-api/internal/config"
	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/handlers"
	"github.com/yukikurage/streamline-api/internal/logger"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Streamline task and ticket tracker API",
	Long: `Streamline serves the task, ticket, analytics, export and AI suggestion API.

Running without a subcommand is the same as "server serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations and index creation, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		db, err := database.Connect(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return database.MigrateDatabase(db, log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML file overlaying the environment configuration")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.MigrateDatabase(db, log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	router := handlers.NewRouter(buildServices(cfg, db, log), handlers.RouterOptions{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}

func buildServices(cfg *config.Config, db *gorm.DB, log *zap.Logger) handlers.Services {
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	activities := services.NewActivityService(activityRepo, log)

	return handlers.Services{
		Auth:      services.NewAuthService(userRepo, tokens),
		User:      services.NewUserService(userRepo, activities),
		Todo:      services.NewTodoService(todoRepo, activities),
		Comment:   services.NewCommentService(commentRepo),
		Ticket:    services.NewTicketService(ticketRepo, activities),
		Activity:  activities,
		Analytics: services.NewAnalyticsService(todoRepo, activities),
		AI: services.NewAIService(todoRepo, activities, services.AIConfig{
			GeminiKey:    cfg.GeminiAPIKey,
			OpenAIKey:    cfg.OpenAIAPIKey,
			AnthropicKey: cfg.AnthropicAPIKey,
			Timeout:      cfg.AITimeout,
		}, log),
		Export: services.NewExportService(todoRepo, ticketRepo),
	}
}
