package setup

import "github.com/LavaJover/shvark-ipo-ledger/internal/usecase"

type UseCases struct {
	Allocation usecase.AllocationUsecase
	Ingest     usecase.IngestUsecase
	Status     usecase.StatusUsecase
	Archive    usecase.ArchiveUsecase
	Billing    usecase.BillingUsecase
	Payment    usecase.PaymentUsecase
	Offering   usecase.OfferingUsecase
	Group      usecase.GroupUsecase
	Client     usecase.ClientUsecase
	Remark     usecase.RemarkUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	return &UseCases{
		Allocation: usecase.NewDefaultAllocationUsecase(deps.Store, deps.Publisher, deps.Audit, deps.Metrics),
		Ingest:     usecase.NewDefaultIngestUsecase(deps.Store, deps.Publisher, deps.Audit, deps.Metrics),
		Status:     usecase.NewDefaultStatusUsecase(deps.Store, deps.Metrics),
		Archive:    usecase.NewDefaultArchiveUsecase(deps.Store, deps.Publisher, deps.Metrics),
		Billing:    usecase.NewDefaultBillingUsecase(deps.Store, deps.Metrics),
		Payment:    usecase.NewDefaultPaymentUsecase(deps.Store, deps.Publisher, deps.Metrics),
		Offering:   usecase.NewDefaultOfferingUsecase(deps.Store),
		Group:      usecase.NewDefaultGroupUsecase(deps.Store),
		Client:     usecase.NewDefaultClientUsecase(deps.Store),
		Remark:     usecase.NewDefaultRemarkUsecase(deps.Store),
	}
}
