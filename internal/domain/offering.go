package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Offering struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	Name             string          `json:"name"`
	Type             int             `json:"type"`
	UpperPriceBand   decimal.Decimal `json:"upper_price_band"`
	OpenPrice        decimal.Decimal `json:"open_price"`
	TotalSizeCr      decimal.Decimal `json:"total_size_cr"`
	RetailLotSize    decimal.Decimal `json:"retail_lot_size"`
	SHNILotSize      decimal.Decimal `json:"shni_lot_size"`
	BHNILotSize      decimal.Decimal `json:"bhni_lot_size"`
	RetailPercentage int             `json:"retail_percentage"`
	SHNIPercentage   int             `json:"shni_percentage"`
	BHNIPercentage   int             `json:"bhni_percentage"`
	Remark           string          `json:"remark"`
	State            Lifecycle       `json:"state"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type OfferingFilter struct {
	CompanyID string
	Name      string
	Page      int
	Limit     int
}

type OfferingRepository interface {
	CreateOffering(ctx context.Context, offering *Offering) error
	UpdateOffering(ctx context.Context, offering *Offering) error
	GetOfferingByID(ctx context.Context, companyID, offeringID string) (*Offering, error)
	ListOfferings(ctx context.Context, filter OfferingFilter) ([]*Offering, int64, error)
}
