package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentTransactionModel struct {
	ID              string          `gorm:"primaryKey;type:uuid"`
	CompanyID       string          `gorm:"index:idx_payment_scope;not null"`
	GroupID         string          `gorm:"index:idx_payment_scope;type:uuid;not null"`
	OfferingID      string          `gorm:"index:idx_payment_scope;type:uuid;not null"`
	AmountType      string          `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Remark          string
	TransactionDate time.Time `gorm:"index"`
	IsTransfer      bool
	TransferRef     string `gorm:"index"`
	State           string `gorm:"not null"`
	CreatedBy       string
	CreatedAt       time.Time
}
