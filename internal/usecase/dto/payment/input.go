package paymentdto

import (
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type CreatePaymentInput struct {
	CompanyID       string
	Actor           string
	GroupID         string
	OfferingID      string
	AmountType      domain.AmountType
	Amount          decimal.Decimal
	Remark          string
	TransactionDate time.Time
}

type TransferLeg struct {
	GroupID    string
	OfferingID string
	AmountType domain.AmountType
	Remark     string
}

type TransferInput struct {
	CompanyID       string
	Actor           string
	Leg1            TransferLeg
	Leg2            TransferLeg
	Amount          decimal.Decimal
	TransactionDate time.Time
}

type TransferOutput struct {
	TransferRef string
	Legs        []*domain.PaymentTransaction
}

type ListPaymentsInput struct {
	CompanyID  string
	GroupID    string
	OfferingID string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type ListPaymentsOutput struct {
	Payments   []*domain.PaymentTransaction
	TotalCount int64
}

type DashboardInput struct {
	CompanyID  string
	GroupID    string
	OfferingID string
	Page       int
	Limit      int
}

type DashboardOutput struct {
	Rows       []domain.DashboardRow
	Footer     domain.DashboardFooter
	TotalCount int
}
