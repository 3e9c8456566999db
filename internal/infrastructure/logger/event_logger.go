package logger

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"gorm.io/gorm"
)

// AuditEntryModel is one refused ledger operation.
type AuditEntryModel struct {
	ID         uint   `gorm:"primaryKey"`
	Operation  string `gorm:"index;not null"`
	CompanyID  string `gorm:"index"`
	OfferingID string
	EntityID   string
	Actor      string
	Reason     string
	Timestamp  time.Time `gorm:"index"`
}

func (AuditEntryModel) TableName() string { return "ledger_audit_entries" }

var _ domain.AuditLogger = (*PGAuditLogger)(nil)

type PGAuditLogger struct {
	db *gorm.DB
}

func NewPGAuditLogger(db *gorm.DB) *PGAuditLogger {
	return &PGAuditLogger{db: db}
}

func (l *PGAuditLogger) LogRejected(ctx context.Context, entry domain.AuditEntry) error {
	return l.db.WithContext(ctx).Create(&AuditEntryModel{
		Operation:  entry.Operation,
		CompanyID:  entry.CompanyID,
		OfferingID: entry.OfferingID,
		EntityID:   entry.EntityID,
		Actor:      entry.Actor,
		Reason:     entry.Reason,
		Timestamp:  entry.Timestamp,
	}).Error
}
