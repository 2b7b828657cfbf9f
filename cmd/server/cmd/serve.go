package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventura-app/server/internal/auth"
	"github.com/eventura-app/server/internal/config"
	"github.com/eventura-app/server/internal/domain/contact"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/locations"
	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/eventura-app/server/internal/email"
	"github.com/eventura-app/server/internal/jobs"
	"github.com/eventura-app/server/internal/notify"
	"github.com/eventura-app/server/internal/storage/postgres"
	"github.com/eventura-app/server/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serverHost     string
	serverPort     int
	skipMigrations bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Eventura HTTP server",
	Long: `Start the Eventura HTTP server and begin accepting requests.

The server will:
- Load configuration from environment variables
- Apply pending database migrations (unless --skip-migrations)
- Bootstrap the admin account if ADMIN_* env vars are set
- Run the upcoming-event reminder sweeper in the background
- Handle graceful shutdown on SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", Version).Msg("starting eventura server")

	if !skipMigrations {
		if err := postgres.MigrateUp(cfg.Database.URL, postgres.DefaultMigrationsPath); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		logger.Info().Msg("migrations applied")
	}

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := postgres.NewPool(poolCtx, cfg.Database)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init failed: %w", err)
	}

	mailer, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("email service init failed: %w", err)
	}

	notificationService := notifications.NewService(repo.Notifications())
	notifier := notify.NewNotifier(notificationService, repo.Users(), mailer, logger)

	eventService := events.NewService(repo.Events(), notifier)
	locationService := locations.NewService(repo.Locations())
	paymentService := payments.NewService(repo.Payments())
	ticketService := tickets.NewService(repo.Tickets(), repo.Events(), repo.Payments(), repo.PurchaseTx)
	userService := users.NewService(repo.Users(), repo.UserRoles(), repo.UserTx)
	contactService := contact.NewService(repo.ContactMessages())

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = userService.EnsureAdmin(bootstrapCtx, cfg.AdminBootstrap.Username, cfg.AdminBootstrap.Password, cfg.AdminBootstrap.Email)
	bootstrapCancel()
	if err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}

	sessions := auth.NewSessionManager(
		cfg.Session.Secret,
		cfg.Session.Expiry,
		cfg.Session.CookieName,
		cfg.Environment == "production",
	)

	handler, err := web.NewRouter(cfg, logger, web.Deps{
		Pool:          pool,
		Events:        eventService,
		Locations:     locationService,
		Tickets:       ticketService,
		Payments:      paymentService,
		Users:         userService,
		Notifications: notificationService,
		Contact:       contactService,
		Sessions:      sessions,
	})
	if err != nil {
		return fmt.Errorf("router init failed: %w", err)
	}

	sweeper := jobs.NewReminderSweeper(
		repo.Events(),
		repo.Tickets(),
		repo.Users(),
		notificationService,
		mailer,
		cfg.Reminder,
		logger,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return sweeper.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
