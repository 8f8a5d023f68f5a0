package cmd

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

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/alxtravel/travel-booking/internal"
	"github.com/alxtravel/travel-booking/internal/auth"
	authPostgres "github.com/alxtravel/travel-booking/internal/auth/postgres"
	"github.com/alxtravel/travel-booking/internal/booking"
	bookingPostgres "github.com/alxtravel/travel-booking/internal/booking/postgres"
	"github.com/alxtravel/travel-booking/internal/core/jobs"
	"github.com/alxtravel/travel-booking/internal/listing"
	listingPostgres "github.com/alxtravel/travel-booking/internal/listing/postgres"
	"github.com/alxtravel/travel-booking/internal/notification"
	"github.com/alxtravel/travel-booking/internal/payment"
	paymentPostgres "github.com/alxtravel/travel-booking/internal/payment/postgres"
	"github.com/alxtravel/travel-booking/internal/paymentgateway"
	"github.com/alxtravel/travel-booking/internal/review"
	reviewPostgres "github.com/alxtravel/travel-booking/internal/review/postgres"
	"github.com/alxtravel/travel-booking/internal/transport/rest"
	"github.com/alxtravel/travel-booking/internal/transport/swagger"
	"github.com/alxtravel/travel-booking/internal/user"
	userPostgres "github.com/alxtravel/travel-booking/internal/user/postgres"
	"github.com/alxtravel/travel-booking/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server together with the background email job runner`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Jobs     *jobs.BoltStore
	Runner   *jobs.Runner
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)
	deps.Runner.Start()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			exitCode = 1
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// close releases resources in reverse order of construction. The runner
// stops before its store so in-flight jobs can record their outcome.
func (d *Dependencies) close() {
	d.Runner.Shutdown()
	if err := d.Jobs.Close(); err != nil {
		d.Logger.Error("Job store close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	doc, err := swagger.Load(ctx, config.Server.OpenAPIPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	sqlxDB, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store, err := jobs.OpenBoltStore(config.Jobs.BoltPath)
	if err != nil {
		_ = sqlxDB.Close()
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}
	runner := newJobRunner(config, store, lg)
	dispatcher := notification.NewDispatcher(runner, lg)

	// Repositories
	listingRepo := listingPostgres.NewListingRepository(gormDB)
	bookingRepo := bookingPostgres.NewBookingRepository(gormDB)
	reviewRepo := reviewPostgres.NewReviewRepository(gormDB)
	paymentRepo := paymentPostgres.NewPaymentRepository(gormDB)
	payableBookings := paymentPostgres.NewBookingLookup(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewRepository(sqlxDB)

	gateway := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:   config.Gateway.BaseURL,
		VerifyURL: config.Gateway.VerifyURL,
		SecretKey: config.Gateway.SecretKey,
		Currency:  config.Gateway.Currency,
		Timeout:   config.Gateway.Timeout,
	}, lg)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.JWTSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	// Services
	authService := auth.NewService(authRepo, tokens, lg)
	userService := user.NewService(userRepo)
	listingService := listing.NewService(listingRepo, lg)
	reviewService := review.NewService(reviewRepo, listingRepo, lg)
	bookingService := booking.NewService(bookingRepo, listingRepo, dispatcher, lg)
	paymentService := payment.NewService(paymentRepo, payableBookings, gateway, dispatcher, payment.Config{
		Currency:    config.Gateway.Currency,
		ReturnURL:   config.Gateway.ReturnURL,
		CallbackURL: config.Gateway.CallbackURL,
	}, lg)

	return &Dependencies{
		Config: config,
		DB:     sqlxDB,
		Router: chi.NewRouter(),
		Jobs:   store,
		Runner: runner,
		Handlers: rest.Handlers{
			Health:  rest.NewHealthHandler(sqlxDB, store),
			Auth:    auth.NewHandler(authService, lg),
			User:    user.NewHandler(userService, lg),
			Listing: listing.NewHandler(listingService, lg),
			Review:  review.NewHandler(reviewService, lg),
			Booking: booking.NewHandler(bookingService, lg),
			Payment: payment.NewHandler(paymentService, lg),
			OpenAPI: doc,
		},
		Logger: lg,
	}, nil
}

// newJobRunner builds the email job runner with its handlers registered.
// Without a mail host messages are written to the log instead of sent.
func newJobRunner(config *internal.Config, store jobs.Store, lg *slog.Logger) *jobs.Runner {
	runner := jobs.NewRunner(store, jobs.Config{
		MaxWorkers:    config.Jobs.MaxWorkers,
		QueueSize:     config.Jobs.QueueSize,
		MaxAttempts:   config.Jobs.MaxAttempts,
		SweepInterval: config.Jobs.SweepInterval,
	}, lg)

	var mailer notification.Mailer
	if config.Mail.Host != "" {
		mailer = notification.NewSMTPMailer(notification.SMTPConfig{
			Host:     config.Mail.Host,
			Port:     config.Mail.Port,
			Username: config.Mail.Username,
			Password: config.Mail.Password,
			Timeout:  config.Mail.Timeout,
		})
	} else {
		lg.Warn("mail host not configured, emails will only be logged")
		mailer = notification.NewLogMailer(lg)
	}

	notification.NewTasks(mailer, config.Mail.DefaultFrom, lg).Register(runner)
	return runner
}
