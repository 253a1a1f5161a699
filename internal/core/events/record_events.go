package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated    = "user.created"
	EventTypeUserUpdated    = "user.updated"
	EventTypeUserDeleted    = "user.deleted"
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderUpdated   = "order.updated"
	EventTypeOrderDeleted   = "order.deleted"
	EventTypeProductCreated = "product.created"
	EventTypeProductUpdated = "product.updated"
	EventTypeProductDeleted = "product.deleted"
)

// RecordEventTypes lists every mutation event the services publish.
var RecordEventTypes = []string{
	EventTypeUserCreated, EventTypeUserUpdated, EventTypeUserDeleted,
	EventTypeOrderCreated, EventTypeOrderUpdated, EventTypeOrderDeleted,
	EventTypeProductCreated, EventTypeProductUpdated, EventTypeProductDeleted,
}

// RecordEvent reports a change to one or more records of a collection.
// OrderID is set for product events.
type RecordEvent struct {
	BaseEvent
	RecordIDs []int64 `json:"record_ids"`
	OrderID   int64   `json:"order_id,omitempty"`
	ActorID   int64   `json:"actor_id,omitempty"`
}

func NewRecordEvent(eventType string, recordIDs []int64, actorID int64) *RecordEvent {
	return &RecordEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"record_ids": recordIDs,
				"actor_id":   actorID,
			},
		},
		RecordIDs: recordIDs,
		ActorID:   actorID,
	}
}

func NewProductEvent(eventType string, orderID, productID, actorID int64) *RecordEvent {
	e := NewRecordEvent(eventType, []int64{productID}, actorID)
	e.OrderID = orderID
	e.Data["order_id"] = orderID
	return e
}

// AuditHandler writes every event it receives to logger.
func AuditHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		attrs := []any{
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt().Format(time.RFC3339),
		}
		if re, ok := event.(*RecordEvent); ok {
			attrs = append(attrs, "record_ids", re.RecordIDs, "actor_id", re.ActorID)
			if re.OrderID != 0 {
				attrs = append(attrs, "order_id", re.OrderID)
			}
		} else {
			attrs = append(attrs, "payload", event.Payload())
		}
		logger.Info("audit", attrs...)
		return nil
	}
}
