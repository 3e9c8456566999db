package allocationdto

import (
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type LineSpec struct {
	Direction   domain.Direction
	Category    domain.Category
	Investor    domain.InvestorTier
	StrikePrice string
	ApplyRate   bool
	Quantity    int
	Rate        decimal.Decimal
	OrderedAt   time.Time
}

type PlaceOrderInput struct {
	CompanyID  string
	Actor      string
	OfferingID string
	GroupID    string
	PlacedAt   time.Time
	RemarkIDs  []string
	Lines      []LineSpec
}

type EditOrderInput struct {
	CompanyID string
	Actor     string
	LineID    string
	GroupID   string
	// RemarkIDs replaces the line's remarks when non-nil.
	RemarkIDs []string
	Line      LineSpec
}

type DeleteOrderInput struct {
	CompanyID string
	Actor     string
	LineID    string
}

type UnitDetail struct {
	UnitID        string
	PAN           string
	ClientName    string
	DematNumber   string
	ApplicationNo string
	AllottedQty   *int
}

type FillUnitDetailsInput struct {
	CompanyID string
	Actor     string
	Units     []UnitDetail
}
