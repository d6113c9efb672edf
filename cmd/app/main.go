package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier/cmd"
	"courier/internal/adapters/out/postgres"
	"courier/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "courier",
		Short:         "Courier dispatch and tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCommand(&envFile),
		newMigrateCommand(&envFile),
		newUsersCommand(&envFile),
	)
	return root
}

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the websocket gateway and the scheduled jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := cmd.LoadConfig(*envFile)
			if err != nil {
				return err
			}
			db, err := openDB(config)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config, db)
		},
	}
}

func serve(ctx context.Context, config cmd.Config, db *gorm.DB) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	app := cmd.NewCompositionRoot(config, db, logger)

	if _, err := app.CreateTrackingEngine(); err != nil {
		return fmt.Errorf("tracking engine: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	app.CreateHTTPServer().Register(e)
	app.Gateway().Register(e)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(ctx, "HTTP server starting", "port", config.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.InfoContext(shutdownCtx, "HTTP server shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newMigrateCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			config, err := cmd.LoadConfig(*envFile)
			if err != nil {
				return err
			}
			db, err := openDB(config)
			if err != nil {
				return err
			}
			return postgres.Migrate(db)
		},
	}
}

func newUsersCommand(envFile *string) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage the users known to the dispatch core",
	}

	var id, name, role string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register or update a user and their role",
		RunE: func(c *cobra.Command, _ []string) error {
			userID := kernel.NewUUID()
			if id != "" {
				parsed, err := kernel.UUIDFromString(id)
				if err != nil {
					return err
				}
				userID = parsed
			}
			parsedRole, err := kernel.ParseRole(role)
			if err != nil {
				return err
			}

			config, err := cmd.LoadConfig(*envFile)
			if err != nil {
				return err
			}
			db, err := openDB(config)
			if err != nil {
				return err
			}
			app := cmd.NewCompositionRoot(config, db, slog.Default())
			if err = app.Directory().Save(c.Context(), userID, name, parsedRole); err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), userID.String())
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "user id (generated when empty)")
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&role, "role", "", "admin, agent, driver or customer")
	_ = add.MarkFlagRequired("role")

	users.AddCommand(add)
	return users
}

func openDB(config cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
