package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"marketplace/server/config"
	"marketplace/server/internal/api"
	"marketplace/server/internal/auth"
	"marketplace/server/internal/database"
	"marketplace/server/internal/models"
	"marketplace/server/internal/processor"
	"marketplace/server/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	app := &cli.Command{
		Name:  "marketplace",
		Usage: "Listing search and booking API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				logger.SetLevel(logrus.DebugLevel)
			}
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run migrations and start the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply the database schema",
				Action: func(ctx context.Context, c *cli.Command) error {
					_, db, err := open(logger)
					if err != nil {
						return err
					}
					defer db.Close()
					return db.RunMigrations()
				},
			},
			{
				Name:  "seed",
				Usage: "Insert sample users, listings and bookings into an empty database",
				Action: func(ctx context.Context, c *cli.Command) error {
					_, db, err := open(logger)
					if err != nil {
						return err
					}
					defer db.Close()
					if err := db.RunMigrations(); err != nil {
						return err
					}
					return db.Seed(ctx)
				},
			},
			tokenCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.WithError(err).Fatal("Command failed")
	}
}

func open(logger *logrus.Logger) (*config.Config, *database.Database, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, db, nil
}

func serve(ctx context.Context, logger *logrus.Logger) error {
	cfg, db, err := open(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	notifications := queue.NewNotificationQueue(cfg.BatchProcessing.QueueSize, logger)
	writer := processor.NewBatchProcessor(db.GetDB(), notifications, cfg, logger)
	writer.Start()
	defer writer.Stop()

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(db, notifications, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func tokenCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for local testing",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "user",
				Usage:    "User ID to put in the token subject",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "Role claim (ADMIN, HOST or GUEST)",
				Value: models.RoleGuest,
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime",
				Value: 24 * time.Hour,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			role := strings.ToUpper(c.String("role"))
			if !models.IsValidRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			userID := c.Int("user")
			if userID <= 0 {
				return fmt.Errorf("user must be positive, got %d", userID)
			}

			token, err := auth.Issue(cfg.Auth.JWTSecret, uint(userID), role, c.Duration("ttl"))
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{"user": userID, "role": role}).Debug("Issued token")
			fmt.Fprintln(os.Stdout, token)
			return nil
		},
	}
}
