package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/booking"
	"github.com/frahmantamala/workspace-booking/internal/report"
	"github.com/frahmantamala/workspace-booking/internal/space"
	"github.com/frahmantamala/workspace-booking/internal/transport/rest"
	"github.com/frahmantamala/workspace-booking/internal/user"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests. The expiry sweeper runs alongside it.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	router := setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go booking.NewSweeper(deps.BookingService, deps.Config.Booking.SweepInterval, deps.Logger).Run(sweepCtx)

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		stopSweeper()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) *chi.Mux {
	router := chi.NewRouter()
	handlers := rest.Handlers{
		Auth:    auth.NewHandler(deps.AuthService, deps.Logger),
		User:    user.NewHandler(deps.UserService, deps.Logger),
		Space:   space.NewHandler(deps.SpaceService, deps.Logger),
		Booking: booking.NewHandler(deps.BookingService, deps.Logger),
		Report:  report.NewHandler(deps.Exporter, deps.Logger),
	}
	rest.RegisterAllRoutes(
		router,
		rest.NewHealthHandler(deps.healthChecks()),
		handlers,
		deps.AuthService.RBACAuthorization(),
		deps.Config.Server.AllowedOrigins,
		deps.Logger,
	)
	return router
}
