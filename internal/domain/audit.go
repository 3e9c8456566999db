package domain

import (
	"context"
	"time"
)

// AuditEntry records an operation the ledger refused.
type AuditEntry struct {
	Operation  string
	CompanyID  string
	OfferingID string
	EntityID   string
	Actor      string
	Reason     string
	Timestamp  time.Time
}

type AuditLogger interface {
	LogRejected(ctx context.Context, entry AuditEntry) error
}
