package domain

import "time"

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
}

const (
	EventOrderPlaced     = "order.placed"
	EventOrderEdited     = "order.edited"
	EventOrderDeleted    = "order.deleted"
	EventOrdersUploaded  = "orders.uploaded"
	EventOrdersArchived  = "orders.archived"
	EventPaymentTransfer = "payment.transfer"
)

// LedgerEvent is emitted after a write commits.
type LedgerEvent struct {
	Type       string         `json:"type"`
	CompanyID  string         `json:"company_id"`
	OfferingID string         `json:"offering_id"`
	EntityID   string         `json:"entity_id"`
	Actor      string         `json:"actor"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type EventPublisher interface {
	PublishLedgerEvent(event LedgerEvent) error
}
