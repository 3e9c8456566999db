package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderMaster is one placement action. IsActive is derived: it turns false
// once no active line remains, independently of State.
type OrderMaster struct {
	ID         string       `json:"id"`
	CompanyID  string       `json:"company_id"`
	OfferingID string       `json:"offering_id"`
	PlacedBy   string       `json:"placed_by"`
	PlacedAt   time.Time    `json:"placed_at"`
	IsActive   bool         `json:"is_active"`
	State      Lifecycle    `json:"state"`
	DeletedBy  string       `json:"deleted_by"`
	DeletedAt  *time.Time   `json:"deleted_at,omitempty"`
	Lines      []*OrderLine `json:"lines,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type OrderLine struct {
	ID          string            `json:"id"`
	MasterID    string            `json:"master_id"`
	CompanyID   string            `json:"company_id"`
	OfferingID  string            `json:"offering_id"`
	GroupID     string            `json:"group_id"`
	Direction   Direction         `json:"direction"`
	Category    Category          `json:"category"`
	Investor    InvestorTier      `json:"investor"`
	StrikePrice string            `json:"strike_price"`
	StrikeKind  StrikeKind        `json:"strike_kind"`
	Quantity    int               `json:"quantity"`
	Rate        decimal.Decimal   `json:"rate"`
	RemarkIDs   []string          `json:"remark_ids,omitempty"`
	OrderedAt   time.Time         `json:"ordered_at"`
	State       Lifecycle         `json:"state"`
	CreatedBy   string            `json:"created_by"`
	DeletedBy   string            `json:"deleted_by"`
	DeletedAt   *time.Time        `json:"deleted_at,omitempty"`
	Units       []*AllocationUnit `json:"units,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AllocationUnit is one individually trackable unit of a line's quantity.
type AllocationUnit struct {
	ID            string     `json:"id"`
	LineID        string     `json:"line_id"`
	CompanyID     string     `json:"company_id"`
	GroupID       string     `json:"group_id"`
	Seq           int        `json:"seq"`
	Quantity      int        `json:"quantity"`
	PAN           string     `json:"pan"`
	ClientName    string     `json:"client_name"`
	DematNumber   string     `json:"demat_number"`
	ApplicationNo string     `json:"application_no"`
	AllottedQty   *int       `json:"allotted_qty,omitempty"`
	State         Lifecycle  `json:"state"`
	DeletedBy     string     `json:"deleted_by"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Filled reports whether the unit is bound to a client.
func (u *AllocationUnit) Filled() bool {
	return u.PAN != ""
}

// Amount is quantity times rate.
func (l *OrderLine) Amount() decimal.Decimal {
	return l.Rate.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineFilter selects active lines of active masters.
type LineFilter struct {
	CompanyID  string
	OfferingID string
	GroupID    string
	Category   *Category
	Investor   *InvestorTier
}

// UnitRow is an active unit together with its owning line.
type UnitRow struct {
	Unit *AllocationUnit
	Line *OrderLine
}

type UnitFilter struct {
	CompanyID  string
	OfferingID string
	GroupID    string
	OnlyFilled bool
}

type OrderRepository interface {
	// CreateMaster persists the master with its lines, units and remark references.
	CreateMaster(ctx context.Context, master *OrderMaster) error
	GetMasterByID(ctx context.Context, companyID, masterID string) (*OrderMaster, error)
	// GetLineByID returns an active line with its active units ordered by Seq.
	GetLineByID(ctx context.Context, companyID, lineID string) (*OrderLine, error)
	UpdateLine(ctx context.Context, line *OrderLine) error
	CreateUnits(ctx context.Context, units []*AllocationUnit) error
	RemoveUnits(ctx context.Context, unitIDs []string) error
	UpdateUnitsGroup(ctx context.Context, lineID, groupID string) error
	GetUnitsByIDs(ctx context.Context, companyID string, unitIDs []string) ([]*AllocationUnit, error)
	UpdateUnitDetails(ctx context.Context, unit *AllocationUnit) error
	MarkLineDeleted(ctx context.Context, lineID, actor string, at time.Time) error
	CountActiveLines(ctx context.Context, masterID string) (int64, error)
	CountActiveLinesByOffering(ctx context.Context, companyID, offeringID string) (int64, error)
	SetMasterActive(ctx context.Context, masterID string, active bool) error
	ListActiveLines(ctx context.Context, filter LineFilter) ([]*OrderLine, error)
	ListActiveUnits(ctx context.Context, filter UnitFilter) ([]UnitRow, error)
	ListRecentLines(ctx context.Context, companyID, offeringID string, limit int) ([]*OrderLine, error)
	// ListMastersForArchive loads active masters with active lines and units.
	ListMastersForArchive(ctx context.Context, companyID, offeringID string) ([]*OrderMaster, error)
	MarkMastersDeleted(ctx context.Context, ids []string, actor string, at time.Time) error
	MarkLinesDeleted(ctx context.Context, ids []string, actor string, at time.Time) error
	MarkUnitsDeleted(ctx context.Context, ids []string, actor string, at time.Time) error
}
