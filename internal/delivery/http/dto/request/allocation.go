package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineRequest struct {
	Direction   string          `json:"direction"`
	Category    string          `json:"category"`
	Investor    string          `json:"investor"`
	StrikePrice string          `json:"strike_price"`
	ApplyRate   bool            `json:"apply_rate"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	OrderedAt   time.Time       `json:"ordered_at"`
}

type PlaceOrderRequest struct {
	OfferingID string        `json:"offering_id"`
	GroupID    string        `json:"group_id"`
	PlacedAt   time.Time     `json:"placed_at"`
	RemarkIDs  []string      `json:"remark_ids"`
	Lines      []LineRequest `json:"lines"`
}

type EditOrderRequest struct {
	GroupID   string      `json:"group_id"`
	RemarkIDs []string    `json:"remark_ids"`
	Line      LineRequest `json:"line"`
}

type UnitDetailRequest struct {
	UnitID        string `json:"unit_id"`
	PAN           string `json:"pan"`
	ClientName    string `json:"client_name"`
	DematNumber   string `json:"demat_number"`
	ApplicationNo string `json:"application_no"`
	AllottedQty   *int   `json:"allotted_qty"`
}

type FillUnitDetailsRequest struct {
	Units []UnitDetailRequest `json:"units"`
}
