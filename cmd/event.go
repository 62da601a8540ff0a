package cmd

import (
	"context"
	"time"

	"github.com/frahmantamala/nexus/internal/core/events"
	"github.com/frahmantamala/nexus/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Publish request lifecycle events locally to check the audit handler output`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [request.submitted|request.decided]",
	Short:     "Publish a sample event",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeRequestSubmitted, events.EventTypeRequestDecided},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(args[0])
	},
}

var (
	eventRequestID int64
	eventStatus    string
)

func publishSampleEvent(eventType string) error {
	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	bus.Subscribe(eventType, events.AuditHandler(lg))

	var event events.Event
	switch eventType {
	case events.EventTypeRequestSubmitted:
		event = events.NewRequestSubmittedEvent(eventRequestID, 1, 1, "Doctor Appointment", true)
	case events.EventTypeRequestDecided:
		event = events.NewRequestDecidedEvent(eventRequestID, 1, 1, eventStatus, true)
	default:
		lg.Warn("unknown event type, publishing a bare event", "event_type", eventType)
		event = events.BaseEvent{
			ID:        "cli-" + time.Now().Format("20060102150405"),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      map[string]interface{}{"source": "cli-command"},
		}
	}

	lg.Info("publishing event", "event_type", eventType, "event_id", event.EventID())
	return bus.PublishSync(context.Background(), event)
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventRequestID, "request-id", 1, "request id carried by the event")
	publishEventCmd.Flags().StringVar(&eventStatus, "status", "ACCEPTED", "decision status for request.decided")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
