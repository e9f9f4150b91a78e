package cmd

import (
	"context"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/account"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish domain events to the in-process bus for debugging.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish an event",
	Long:  `Publish an event to a bus wired like the server's: balance events run a real recompute.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(args[0])
	},
}

var (
	eventUser string
	eventData string
)

func publishEvent(eventType string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.services()
	pool := a.balancePool(svc.account)
	done := make(chan account.BalanceJob, 1)
	pool.OnDone(done)

	// log whatever reaches the bus
	a.bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		a.logger.Info("event received",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	event := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": eventUser,
			"message": eventData,
			"source":  "cli-command",
		},
	}

	a.logger.Info("publishing event", "event_type", eventType, "event_id", event.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.bus.PublishSync(ctx, event); err != nil {
		pool.Shutdown()
		return err
	}

	// a second handler means the balance pool subscribed to this type
	if a.bus.HandlerCount(eventType) > 1 && eventUser != "" {
		select {
		case job := <-done:
			a.logger.Info("balance recompute finished", "user_id", job.UserID)
		case <-ctx.Done():
			a.logger.Warn("timed out waiting for balance recompute")
		}
	}

	pool.Shutdown()
	a.logger.Info("event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventUser, "user", "", "user id carried in the event payload")
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
