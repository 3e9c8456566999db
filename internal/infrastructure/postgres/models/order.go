package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderMasterModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	CompanyID  string `gorm:"index:idx_master_offering;not null"`
	OfferingID string `gorm:"index:idx_master_offering;type:uuid;not null"`
	PlacedBy   string
	PlacedAt   time.Time
	IsActive   bool   `gorm:"not null"`
	State      string `gorm:"index:idx_master_offering;not null"`
	DeletedBy  string
	DeletedAt  *time.Time
	Lines      []OrderLineModel `gorm:"foreignKey:MasterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderLineModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	MasterID    string `gorm:"type:uuid;index;not null"`
	CompanyID   string `gorm:"index:idx_line_offering;not null"`
	OfferingID  string `gorm:"index:idx_line_offering;type:uuid;not null"`
	GroupID     string `gorm:"type:uuid;index"`
	Direction   string `gorm:"not null"`
	Category    string `gorm:"not null"`
	Investor    string `gorm:"not null"`
	StrikePrice string
	StrikeKind  string
	Quantity    int             `gorm:"not null"`
	Rate        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	OrderedAt   time.Time       `gorm:"index:idx_line_created"`
	State       string          `gorm:"index:idx_line_offering;not null"`
	CreatedBy   string
	DeletedBy   string
	DeletedAt   *time.Time
	Remarks     []LineRemarkModel     `gorm:"foreignKey:LineID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Units       []AllocationUnitModel `gorm:"foreignKey:LineID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt   time.Time             `gorm:"index:idx_line_created"`
	UpdatedAt   time.Time
}

// LineRemarkModel keeps the ordered remark references of a line.
type LineRemarkModel struct {
	LineID   string `gorm:"primaryKey;type:uuid"`
	RemarkID string `gorm:"primaryKey;type:uuid"`
	Position int    `gorm:"not null"`
}

type AllocationUnitModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	LineID        string `gorm:"type:uuid;index:idx_unit_line;not null"`
	CompanyID     string `gorm:"index;not null"`
	GroupID       string `gorm:"type:uuid;index"`
	Seq           int    `gorm:"index:idx_unit_line;not null"`
	Quantity      int    `gorm:"not null;default:1"`
	PAN           string `gorm:"column:pan;size:10"`
	ClientName    string
	DematNumber   string
	ApplicationNo string
	AllottedQty   *int
	State         string `gorm:"index;not null"`
	DeletedBy     string
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
