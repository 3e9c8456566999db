package billingdto

import "github.com/LavaJover/shvark-ipo-ledger/internal/domain"

type BillingInput struct {
	CompanyID  string
	OfferingID string
	GroupID    string
	Page       int
	Limit      int
}

type GroupWiseOutput struct {
	Groups     []*domain.GroupBilling
	TotalCount int
}

type ClientWiseOutput struct {
	Rows       []domain.ClientBillingRow
	TotalCount int
}
