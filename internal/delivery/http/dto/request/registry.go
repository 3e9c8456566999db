package request

import "github.com/shopspring/decimal"

type OfferingRequest struct {
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
}

type GroupRequest struct {
	OfferingID *string `json:"offering_id"`
	Name       string  `json:"name"`
	Mobile     string  `json:"mobile"`
	Email      string  `json:"email"`
	Address    string  `json:"address"`
	Remark     string  `json:"remark"`
}

type ClientRequest struct {
	PAN        string `json:"pan"`
	Name       string `json:"name"`
	GroupID    string `json:"group_id"`
	ClientDPID string `json:"client_dp_id"`
}

type DeleteAllClientsRequest struct {
	Remark string `json:"remark"`
}

type RemarkRequest struct {
	OfferingID string `json:"offering_id"`
	Name       string `json:"name"`
}
