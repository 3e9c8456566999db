package allocationdto

import "github.com/LavaJover/shvark-ipo-ledger/internal/domain"

type EditOrderOutput struct {
	Line         *domain.OrderLine
	UnitsAdded   int
	UnitsRemoved int
}

type DeleteOrderOutput struct {
	LineID         string
	MasterID       string
	MasterInactive bool
}

// MasterView is a master with remark names resolved per line.
type MasterView struct {
	Master  *domain.OrderMaster
	Remarks map[string][]string
}
