package cmd

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/order-admin/internal/core/events"
	"github.com/frahmantamala/order-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the in-process event bus: publish record events through the audit handler`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a record event",
	Long: `Publish a record event (e.g. order.updated) to an event bus wired
with the audit handler, the way the server does.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var (
	eventRecordIDs string
	eventActorID   int64
)

func publishTestEvent(eventType string) error {
	if !slices.Contains(events.RecordEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q, want one of %s", eventType, strings.Join(events.RecordEventTypes, ", "))
	}
	ids, err := parseEventIDs(eventRecordIDs)
	if err != nil {
		return err
	}

	lg := logger.LoggerWrapper()
	eventBus := events.NewEventBus(lg)
	eventBus.SubscribeAll(events.RecordEventTypes, events.AuditHandler(lg))

	event := events.NewRecordEvent(eventType, ids, eventActorID)
	lg.Info("publishing event", "event_type", eventType, "event_id", event.EventID())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eventBus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	lg.Info("event published")
	return nil
}

func parseEventIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventRecordIDs, "ids", "1", "comma separated record ids")
	publishEventCmd.Flags().Int64Var(&eventActorID, "actor", 0, "id of the acting user")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
