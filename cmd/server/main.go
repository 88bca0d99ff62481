package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lsandon/fertiviltro-app/internal/config"
	"github.com/lsandon/fertiviltro-app/internal/db"
	"github.com/lsandon/fertiviltro-app/internal/handler"
	"github.com/lsandon/fertiviltro-app/internal/repository"
	"github.com/lsandon/fertiviltro-app/internal/server"
	"github.com/lsandon/fertiviltro-app/internal/service"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "fertilvitro",
	Short:         "Fertilvitro clinic backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Env == "development" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// openStore loads the configuration and opens the configured record store.
func openStore(ctx context.Context) (config.Config, *slog.Logger, db.Backend, *repository.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	backend, err := db.Open(ctx, cfg)
	if err != nil {
		return cfg, logger, nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return cfg, logger, backend, repository.NewStore(backend, logger), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, backend, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	// repositories
	userRepo := repository.NewUserRepository(store)
	clientRepo := repository.NewClientRepository(store)
	processRepo := repository.NewProcessRepository(store)
	claimRepo := repository.NewClaimRepository(store)
	donorRepo := repository.NewDonorRepository(store)
	recipientRepo := repository.NewRecipientRepository(store)

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	userSvc := service.UserService{Users: userRepo, Logger: logger}
	clientSvc := service.ClientService{Clients: clientRepo, Processes: processRepo, Claims: claimRepo, Logger: logger}
	processSvc := service.ProcessService{Processes: processRepo, Clients: clientRepo, Logger: logger}
	claimSvc := service.ClaimService{Claims: claimRepo, Clients: clientRepo, Logger: logger}
	donorSvc := service.DonorService{Donors: donorRepo, Clients: clientRepo}
	recipientSvc := service.RecipientService{Recipients: recipientRepo, Clients: clientRepo}
	dashboardSvc := service.DashboardService{Clients: clientRepo, Processes: processRepo, Claims: claimRepo}
	exportSvc := service.ExportService{Clients: clientSvc, Processes: processSvc}

	if _, err := userSvc.EnsureAdmin(ctx, cfg.DefaultAdminPassword); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	// handlers
	healthHandler := handler.HealthHandler{Store: backend, Driver: backend.Driver()}
	homeHandler := handler.HomeHandler{Version: version}
	docsHandler := handler.DocsHandler{}
	authHandler := handler.AuthHandler{Service: &authSvc}
	userHandler := handler.UserHandler{Service: userSvc}
	clientHandler := handler.ClientHandler{Service: clientSvc}
	processHandler := handler.ProcessHandler{Service: processSvc}
	claimHandler := handler.ClaimHandler{Service: claimSvc}
	donorHandler := handler.DonorHandler{Service: donorSvc}
	recipientHandler := handler.RecipientHandler{Service: recipientSvc}
	dashboardHandler := handler.DashboardHandler{Service: dashboardSvc}
	exportHandler := handler.ExportHandler{Service: exportSvc}

	router := server.NewRouter(cfg, logger,
		healthHandler, homeHandler, docsHandler, authHandler, userHandler, clientHandler,
		processHandler, claimHandler, donorHandler, recipientHandler, dashboardHandler, exportHandler,
	)

	logger.Info("store ready", "driver", backend.Driver(), "env", cfg.Env)
	return server.Start(ctx, cfg, router, logger)
}
