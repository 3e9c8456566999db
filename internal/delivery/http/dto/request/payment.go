package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	GroupID         string          `json:"group_id"`
	OfferingID      string          `json:"offering_id"`
	AmountType      string          `json:"amount_type"`
	Amount          decimal.Decimal `json:"amount"`
	Remark          string          `json:"remark"`
	TransactionDate time.Time       `json:"transaction_date"`
}

type TransferLegRequest struct {
	GroupID    string `json:"group_id"`
	OfferingID string `json:"offering_id"`
	AmountType string `json:"amount_type"`
	Remark     string `json:"remark"`
}

type TransferRequest struct {
	Leg1            TransferLegRequest `json:"leg1"`
	Leg2            TransferLegRequest `json:"leg2"`
	Amount          decimal.Decimal    `json:"amount"`
	TransactionDate time.Time          `json:"transaction_date"`
}

type ArchiveRequest struct {
	Remark string `json:"remark"`
}
