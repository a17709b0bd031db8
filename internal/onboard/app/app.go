package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agencydesk/onboard/internal/onboard/domain"
	httpapi "github.com/agencydesk/onboard/internal/onboard/http"
	"github.com/agencydesk/onboard/internal/onboard/mail"
	"github.com/agencydesk/onboard/internal/onboard/service"
	"github.com/agencydesk/onboard/internal/onboard/store"
	"github.com/agencydesk/onboard/internal/onboard/store/drivers/sqlite"
	"github.com/agencydesk/onboard/pkg/cryptox"
	"github.com/agencydesk/onboard/pkg/idx"
	"github.com/agencydesk/onboard/pkg/jwtx"
	"github.com/agencydesk/onboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the onboarding service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	mailer *mail.Mailer

	signer   jwtx.Signer
	verifier jwtx.Verifier

	invitationService   *service.InvitationService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "onboard-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSessionKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	if err := app.bootstrapStaffAccount(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("onboard service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down onboard service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("onboard service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initSessionKeys generates an ephemeral Ed25519 key pair for session tokens.
// Sessions do not survive a restart; staff just log in again.
func (app *Application) initSessionKeys() error {
	pub, priv, err := jwtx.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("failed to generate session keys: %w", err)
	}

	app.signer = jwtx.NewEdDSASigner(priv)
	app.verifier = jwtx.NewEdDSAVerifier(pub, app.cfg.Issuer)
	return nil
}

// initMailer wires the SES primary transport and the SMTP legacy fallback.
// Either may be absent; with neither configured, invitations are still
// recorded and the token is returned to the caller for manual delivery.
func (app *Application) initMailer() error {
	app.mailer = &mail.Mailer{Logger: app.logger}

	if app.cfg.SESRegion != "" {
		sender, err := mail.NewSESSender(context.Background(), mail.SESConfig{
			Region:          app.cfg.SESRegion,
			Endpoint:        app.cfg.SESEndpoint,
			AccessKeyID:     app.cfg.SESAccessKeyID,
			SecretAccessKey: app.cfg.SESSecretAccessKey,
			From:            app.cfg.SESFrom,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize SES transport: %w", err)
		}
		app.mailer.Primary = sender
		app.logger.Info("mail transport enabled", "transport", "ses", "region", app.cfg.SESRegion)
	}

	if app.cfg.SMTPHost != "" {
		app.mailer.Legacy = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.SMTPFrom,
		})
		app.logger.Info("mail transport enabled", "transport", "smtp", "host", app.cfg.SMTPHost)
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.invitationService = &service.InvitationService{
		Store:   app.db,
		Mailer:  app.mailer,
		BaseURL: app.cfg.BaseURL,
	}

	app.sessionService = &service.SessionService{
		Store:  app.db,
		Signer: app.signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// bootstrapStaffAccount creates the first team_member account when the users
// table is empty, so there is someone who can mint invitations.
func (app *Application) bootstrapStaffAccount(ctx context.Context) error {
	if app.cfg.BootstrapEmail == "" || app.cfg.BootstrapPassword == "" {
		return nil
	}

	empty, err := app.db.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing accounts: %w", err)
	}
	if !empty {
		return nil
	}

	hash, err := cryptox.HashPassword(app.cfg.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        app.cfg.BootstrapEmail,
		Role:         domain.RoleTeamMember,
		TeamID:       app.cfg.BootstrapTeamID,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := app.db.Users().CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create bootstrap account: %w", err)
	}

	app.logger.Info("bootstrap staff account created", "user_id", user.ID)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.InvitationService = app.invitationService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
