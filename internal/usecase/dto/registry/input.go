package registrydto

import (
	"github.com/shopspring/decimal"
)

type OfferingInput struct {
	CompanyID        string
	Actor            string
	Name             string
	Type             int
	UpperPriceBand   decimal.Decimal
	OpenPrice        decimal.Decimal
	TotalSizeCr      decimal.Decimal
	RetailLotSize    decimal.Decimal
	SHNILotSize      decimal.Decimal
	BHNILotSize      decimal.Decimal
	RetailPercentage int
	SHNIPercentage   int
	BHNIPercentage   int
	Remark           string
}

type UpdateOfferingInput struct {
	OfferingID string
	OfferingInput
}

type GroupInput struct {
	CompanyID  string
	Actor      string
	OfferingID *string
	Name       string
	Mobile     string
	Email      string
	Address    string
	Remark     string
}

type UpdateGroupInput struct {
	GroupID string
	GroupInput
}

type ClientInput struct {
	CompanyID  string
	Actor      string
	PAN        string
	Name       string
	GroupID    string
	ClientDPID string
}

type UpdateClientInput struct {
	ClientID string
	ClientInput
}

type DeleteAllClientsInput struct {
	CompanyID string
	Actor     string
	Remark    string
}

type RemarkInput struct {
	CompanyID  string
	Actor      string
	OfferingID string
	Name       string
}
