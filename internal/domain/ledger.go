package domain

import "context"

// Repositories groups every store accessor, used both outside and inside a transaction.
type Repositories interface {
	Offerings() OfferingRepository
	Groups() GroupRepository
	Clients() ClientRepository
	Remarks() RemarkRepository
	Orders() OrderRepository
	Archives() ArchiveRepository
	Payments() PaymentRepository
}

// LedgerStore is the transactional store behind every operation.
type LedgerStore interface {
	Repositories
	BeginTx(ctx context.Context) (LedgerTx, error)
}

// LedgerTx sees its own writes; nothing is visible to others until Commit.
type LedgerTx interface {
	Repositories
	Commit() error
	Rollback() error
}
