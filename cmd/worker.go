package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/booking"
	"github.com/frahmantamala/workspace-booking/internal/notify"
	"github.com/frahmantamala/workspace-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that run outside the HTTP server, such as the expiry sweeper and the booking notification consumer.`,
}

var expiryWorkerCmd = &cobra.Command{
	Use:   "expiry",
	Short: "Start the booking expiry sweeper",
	Long:  `Periodically delete bookings whose end time has passed`,
	Run: func(cmd *cobra.Command, args []string) {
		startExpiryWorker()
	},
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start the booking notification consumer",
	Long:  `Consume booking events from the message broker and log them`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

var sweepInterval time.Duration

func startExpiryWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	interval := deps.Config.Booking.SweepInterval
	if sweepInterval > 0 {
		interval = sweepInterval
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps.Logger.Info("expiry worker is running. Press Ctrl+C to stop.")
	booking.NewSweeper(deps.BookingService, interval, deps.Logger).Run(ctx)
	deps.Logger.Info("expiry worker shutdown complete")
}

func startNotificationWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	if !config.Broker.Enabled() {
		logger.Error("broker url is not configured, nothing to consume")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := notify.NewConsumer(config.Broker.URL, config.Broker.Queue, notify.LogHandler(logger), logger)

	logger.Info("notification worker is running. Press Ctrl+C to stop.", "queue", config.Broker.Queue)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("notification worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("notification worker shutdown complete")
}

func init() {
	expiryWorkerCmd.Flags().DurationVar(&sweepInterval, "interval", 0, "Sweep interval such as 30s (overrides config)")

	workerCmd.AddCommand(expiryWorkerCmd)
	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
