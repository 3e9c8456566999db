package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentTransaction struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	GroupID         string          `json:"group_id"`
	OfferingID      string          `json:"offering_id"`
	AmountType      AmountType      `json:"amount_type"`
	Amount          decimal.Decimal `json:"amount"`
	Remark          string          `json:"remark"`
	TransactionDate time.Time       `json:"transaction_date"`
	IsTransfer      bool            `json:"is_transfer"`
	TransferRef     string          `json:"transfer_ref"`
	State           Lifecycle       `json:"state"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

type PaymentFilter struct {
	CompanyID  string
	GroupID    string
	OfferingID string
	From       *time.Time
	To         *time.Time
	// Page/Limit of zero return every match.
	Page  int
	Limit int
}

type PaymentRepository interface {
	CreateTransactions(ctx context.Context, txs []*PaymentTransaction) error
	ListTransactions(ctx context.Context, filter PaymentFilter) ([]*PaymentTransaction, int64, error)
}
