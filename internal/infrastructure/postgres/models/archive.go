package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeleteHistoryModel struct {
	ID           string `gorm:"primaryKey"`
	CompanyID    string `gorm:"index:idx_history_offering;not null"`
	OfferingID   string `gorm:"index:idx_history_offering;type:uuid;not null"`
	DeletedBy    string
	DeletedAt    time.Time `gorm:"index"`
	TotalMasters int
	TotalLines   int
	TotalUnits   int
	Remark       string
}

type MasterSnapshotModel struct {
	ID         uint   `gorm:"primaryKey"`
	HistoryID  string `gorm:"index;not null"`
	MasterID   string `gorm:"type:uuid"`
	CompanyID  string
	OfferingID string `gorm:"type:uuid"`
	PlacedBy   string
	PlacedAt   time.Time
	IsActive   bool
	CreatedAt  time.Time
}

type LineSnapshotModel struct {
	ID          uint   `gorm:"primaryKey"`
	HistoryID   string `gorm:"index;not null"`
	LineID      string `gorm:"type:uuid"`
	MasterID    string `gorm:"type:uuid"`
	GroupID     string
	Direction   string
	Category    string
	Investor    string
	StrikePrice string
	StrikeKind  string
	Quantity    int
	Rate        decimal.Decimal `gorm:"type:numeric(18,4)"`
	// RemarkIDs is the comma-joined ordered remark id list.
	RemarkIDs string
	OrderedAt time.Time
	CreatedBy string
	CreatedAt time.Time
}

type UnitSnapshotModel struct {
	ID            uint   `gorm:"primaryKey"`
	HistoryID     string `gorm:"index;not null"`
	UnitID        string `gorm:"type:uuid"`
	LineID        string `gorm:"type:uuid"`
	GroupID       string
	Seq           int
	Quantity      int
	PAN           string `gorm:"column:pan"`
	ClientName    string
	DematNumber   string
	ApplicationNo string
	AllottedQty   *int
	CreatedAt     time.Time
}
