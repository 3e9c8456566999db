package archivedto

import (
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
)

type ArchiveInput struct {
	CompanyID  string
	OfferingID string
	Actor      string
	Remark     string
}

type ArchiveOutput struct {
	History *domain.DeleteHistory
}

type ListHistoriesInput struct {
	CompanyID  string
	OfferingID string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type ListHistoriesOutput struct {
	Histories  []*domain.DeleteHistory
	Pagination Pagination
}

type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int64
	ItemsPerPage int
}
