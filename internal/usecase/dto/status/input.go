package statusdto

import "github.com/LavaJover/shvark-ipo-ledger/internal/domain"

type SummaryInput struct {
	CompanyID  string
	OfferingID string
	GroupID    string
	Category   *domain.Category
	Investor   *domain.InvestorTier
}
