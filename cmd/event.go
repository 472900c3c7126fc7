package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/core/events"
	"github.com/frahmantamala/workspace-booking/internal/notify"
	"github.com/frahmantamala/workspace-booking/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage booking events: publish sample events to check the broker and the notification worker`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a sample booking event",
	Long:      `Publish a sample booking event through the event bus and onto the broker queue for testing and debugging`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.BookingEventTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var eventDate string

func sampleEvent(eventType, date string) (events.Event, error) {
	switch eventType {
	case events.EventTypeBookingCreated:
		return events.NewBookingCreatedEvent(uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString(), date, "09:00", "18:00"), nil
	case events.EventTypeBookingCancelled:
		owner := uuid.NewString()
		return events.NewBookingCancelledEvent(uuid.NewString(), uuid.NewString(), owner, owner, date), nil
	case events.EventTypeBookingsExpired:
		return events.NewBookingsExpiredEvent(1, []string{date}, time.Now()), nil
	}
	return nil, fmt.Errorf("unknown event type %q, expected one of %v", eventType, events.BookingEventTypes)
}

func publishTestEvent(eventType string) error {
	logger := logger.LoggerWrapper()

	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	evt, err := sampleEvent(eventType, eventDate)
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus(logger)
	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		logger.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	if config.Broker.Enabled() {
		broker, err := notify.Dial(config.Broker.URL, config.Broker.Queue)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer broker.Close()
		notify.NewForwarder(broker.Channel(), config.Broker.Queue, logger).Register(eventBus)
	} else {
		logger.Warn("broker url is not configured, event stays in-process")
	}

	logger.Info("publishing test event", "event_type", eventType, "event_id", evt.EventID())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := eventBus.PublishSync(ctx, evt); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	logger.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventDate, "date", time.Now().Format("2006-01-02"), "Booking date carried by the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
