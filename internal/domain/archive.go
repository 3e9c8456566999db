package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DeleteHistory is one archival deletion batch.
type DeleteHistory struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	OfferingID   string    `json:"offering_id"`
	DeletedBy    string    `json:"deleted_by"`
	DeletedAt    time.Time `json:"deleted_at"`
	TotalMasters int       `json:"total_masters"`
	TotalLines   int       `json:"total_lines"`
	TotalUnits   int       `json:"total_units"`
	Remark       string    `json:"remark"`
}

type MasterSnapshot struct {
	HistoryID  string    `json:"history_id"`
	MasterID   string    `json:"master_id"`
	CompanyID  string    `json:"company_id"`
	OfferingID string    `json:"offering_id"`
	PlacedBy   string    `json:"placed_by"`
	PlacedAt   time.Time `json:"placed_at"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type LineSnapshot struct {
	HistoryID   string          `json:"history_id"`
	LineID      string          `json:"line_id"`
	MasterID    string          `json:"master_id"`
	GroupID     string          `json:"group_id"`
	Direction   Direction       `json:"direction"`
	Category    Category        `json:"category"`
	Investor    InvestorTier    `json:"investor"`
	StrikePrice string          `json:"strike_price"`
	StrikeKind  StrikeKind      `json:"strike_kind"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	RemarkIDs   []string        `json:"remark_ids,omitempty"`
	OrderedAt   time.Time       `json:"ordered_at"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

type UnitSnapshot struct {
	HistoryID     string    `json:"history_id"`
	UnitID        string    `json:"unit_id"`
	LineID        string    `json:"line_id"`
	GroupID       string    `json:"group_id"`
	Seq           int       `json:"seq"`
	Quantity      int       `json:"quantity"`
	PAN           string    `json:"pan"`
	ClientName    string    `json:"client_name"`
	DematNumber   string    `json:"demat_number"`
	ApplicationNo string    `json:"application_no"`
	AllottedQty   *int      `json:"allotted_qty,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Archive is a history batch with every snapshot row written for it.
type Archive struct {
	History *DeleteHistory   `json:"history,omitempty"`
	Masters []MasterSnapshot `json:"masters,omitempty"`
	Lines   []LineSnapshot   `json:"lines,omitempty"`
	Units   []UnitSnapshot   `json:"units,omitempty"`
}

type HistoryFilter struct {
	CompanyID  string
	OfferingID string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type ArchiveRepository interface {
	CreateHistory(ctx context.Context, history *DeleteHistory) error
	SaveMasterSnapshots(ctx context.Context, snapshots []MasterSnapshot) error
	SaveLineSnapshots(ctx context.Context, snapshots []LineSnapshot) error
	SaveUnitSnapshots(ctx context.Context, snapshots []UnitSnapshot) error
	GetArchive(ctx context.Context, companyID, historyID string) (*Archive, error)
	ListHistories(ctx context.Context, filter HistoryFilter) ([]*DeleteHistory, int64, error)
}

func SnapshotMaster(historyID string, m *OrderMaster) MasterSnapshot {
	return MasterSnapshot{
		HistoryID:  historyID,
		MasterID:   m.ID,
		CompanyID:  m.CompanyID,
		OfferingID: m.OfferingID,
		PlacedBy:   m.PlacedBy,
		PlacedAt:   m.PlacedAt,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
	}
}

func SnapshotLine(historyID string, l *OrderLine) LineSnapshot {
	return LineSnapshot{
		HistoryID:   historyID,
		LineID:      l.ID,
		MasterID:    l.MasterID,
		GroupID:     l.GroupID,
		Direction:   l.Direction,
		Category:    l.Category,
		Investor:    l.Investor,
		StrikePrice: l.StrikePrice,
		StrikeKind:  l.StrikeKind,
		Quantity:    l.Quantity,
		Rate:        l.Rate,
		RemarkIDs:   append([]string(nil), l.RemarkIDs...),
		OrderedAt:   l.OrderedAt,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
	}
}

func SnapshotUnit(historyID string, u *AllocationUnit) UnitSnapshot {
	s := UnitSnapshot{
		HistoryID:     historyID,
		UnitID:        u.ID,
		LineID:        u.LineID,
		GroupID:       u.GroupID,
		Seq:           u.Seq,
		Quantity:      u.Quantity,
		PAN:           u.PAN,
		ClientName:    u.ClientName,
		DematNumber:   u.DematNumber,
		ApplicationNo: u.ApplicationNo,
		CreatedAt:     u.CreatedAt,
	}
	if u.AllottedQty != nil {
		q := *u.AllottedQty
		s.AllottedQty = &q
	}
	return s
}
