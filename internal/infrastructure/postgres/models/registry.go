package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferingModel struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	CompanyID        string          `gorm:"index:idx_offering_company;not null"`
	Name             string          `gorm:"not null"`
	Type             int
	UpperPriceBand   decimal.Decimal `gorm:"type:numeric(18,4)"`
	OpenPrice        decimal.Decimal `gorm:"type:numeric(18,4)"`
	TotalSizeCr      decimal.Decimal `gorm:"type:numeric(18,4)"`
	RetailLotSize    decimal.Decimal `gorm:"type:numeric(18,4)"`
	SHNILotSize      decimal.Decimal `gorm:"column:shni_lot_size;type:numeric(18,4)"`
	BHNILotSize      decimal.Decimal `gorm:"column:bhni_lot_size;type:numeric(18,4)"`
	RetailPercentage int
	SHNIPercentage   int `gorm:"column:shni_percentage"`
	BHNIPercentage   int `gorm:"column:bhni_percentage"`
	Remark           string
	State            string `gorm:"index:idx_offering_company;not null"`
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type GroupModel struct {
	ID         string  `gorm:"primaryKey;type:uuid"`
	CompanyID  string  `gorm:"index:idx_group_company;not null"`
	OfferingID *string `gorm:"type:uuid"`
	Name       string  `gorm:"not null"`
	Mobile     string
	Email      string
	Address    string
	Remark     string
	State      string `gorm:"index:idx_group_company;not null"`
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ClientModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	CompanyID  string `gorm:"index:idx_client_company_pan;not null"`
	PAN        string `gorm:"column:pan;index:idx_client_company_pan;size:10;not null"`
	Name       string `gorm:"not null"`
	GroupID    string `gorm:"index"`
	ClientDPID string `gorm:"column:client_dp_id"`
	State      string `gorm:"not null"`
	CreatedBy  string
	DeletedBy  string
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ClientDeleteHistoryModel struct {
	ID                  string `gorm:"primaryKey"`
	CompanyID           string `gorm:"index;not null"`
	DeletedBy           string
	DeletedAt           time.Time `gorm:"index"`
	TotalClientsDeleted int
	Remark              string
	Details             []ClientDeleteDetailModel `gorm:"foreignKey:HistoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type ClientDeleteDetailModel struct {
	ID         uint   `gorm:"primaryKey"`
	HistoryID  string `gorm:"index;not null"`
	ClientID   string `gorm:"type:uuid"`
	PAN        string `gorm:"column:pan"`
	Name       string
	GroupID    string
	ClientDPID string `gorm:"column:client_dp_id"`
}

type RemarkModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	CompanyID  string `gorm:"index:idx_remark_scope;not null"`
	OfferingID string `gorm:"index:idx_remark_scope;type:uuid;not null"`
	Name       string `gorm:"not null"`
	State      string `gorm:"not null"`
	CreatedBy  string
	CreatedAt  time.Time
}
