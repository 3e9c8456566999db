package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	registrydto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/registry"
	"github.com/google/uuid"
)

type RemarkUsecase interface {
	CreateRemark(ctx context.Context, input *registrydto.RemarkInput) (*domain.Remark, error)
	ListRemarks(ctx context.Context, companyID, offeringID string) ([]*domain.Remark, error)
}

type DefaultRemarkUsecase struct {
	Store domain.LedgerStore
	Now   func() time.Time
}

func NewDefaultRemarkUsecase(store domain.LedgerStore) *DefaultRemarkUsecase {
	return &DefaultRemarkUsecase{Store: store, Now: time.Now}
}

func (uc *DefaultRemarkUsecase) CreateRemark(ctx context.Context, input *registrydto.RemarkInput) (*domain.Remark, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	remark := &domain.Remark{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		Name:       name,
		State:      domain.LifecycleActive,
		CreatedBy:  input.Actor,
		CreatedAt:  uc.Now(),
	}
	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		if _, err := tx.Offerings().GetOfferingByID(ctx, input.CompanyID, input.OfferingID); err != nil {
			return err
		}
		_, err := tx.Remarks().FindRemarkByName(ctx, input.CompanyID, input.OfferingID, name)
		switch {
		case err == nil:
			return fmt.Errorf("remark %q: %w", name, domain.ErrConflict)
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("failed to look up remark: %w", err)
		}
		if err := tx.Remarks().CreateRemark(ctx, remark); err != nil {
			return fmt.Errorf("failed to create remark: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return remark, nil
}

func (uc *DefaultRemarkUsecase) ListRemarks(ctx context.Context, companyID, offeringID string) ([]*domain.Remark, error) {
	return uc.Store.Remarks().ListRemarks(ctx, companyID, offeringID)
}
