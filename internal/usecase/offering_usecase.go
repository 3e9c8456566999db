package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	registrydto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/registry"
	"github.com/google/uuid"
)

type OfferingUsecase interface {
	CreateOffering(ctx context.Context, input *registrydto.OfferingInput) (*domain.Offering, error)
	UpdateOffering(ctx context.Context, input *registrydto.UpdateOfferingInput) (*domain.Offering, error)
	GetOffering(ctx context.Context, companyID, offeringID string) (*domain.Offering, error)
	ListOfferings(ctx context.Context, filter domain.OfferingFilter) ([]*domain.Offering, int64, error)
	DeleteOffering(ctx context.Context, companyID, offeringID string) error
}

type DefaultOfferingUsecase struct {
	Store domain.LedgerStore
	Now   func() time.Time
}

func NewDefaultOfferingUsecase(store domain.LedgerStore) *DefaultOfferingUsecase {
	return &DefaultOfferingUsecase{Store: store, Now: time.Now}
}

func validateOffering(input *registrydto.OfferingInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	for field, pct := range map[string]int{
		"retail_percentage": input.RetailPercentage,
		"shni_percentage":   input.SHNIPercentage,
		"bhni_percentage":   input.BHNIPercentage,
	} {
		if pct < 0 || pct > 100 {
			return domain.NewValidationError(field, "must be between 0 and 100")
		}
	}
	if input.UpperPriceBand.IsNegative() || input.OpenPrice.IsNegative() {
		return domain.NewValidationError("price", "must not be negative")
	}
	return nil
}

func (uc *DefaultOfferingUsecase) CreateOffering(ctx context.Context, input *registrydto.OfferingInput) (*domain.Offering, error) {
	if err := validateOffering(input); err != nil {
		return nil, err
	}
	now := uc.Now()
	offering := &domain.Offering{
		ID:        uuid.New().String(),
		CompanyID: input.CompanyID,
		State:     domain.LifecycleActive,
		CreatedBy: input.Actor,
		CreatedAt: now,
	}
	applyOfferingInput(offering, input)
	offering.UpdatedAt = now
	if err := uc.Store.Offerings().CreateOffering(ctx, offering); err != nil {
		return nil, fmt.Errorf("failed to create offering: %w", err)
	}
	return offering, nil
}

func applyOfferingInput(o *domain.Offering, input *registrydto.OfferingInput) {
	o.Name = strings.TrimSpace(input.Name)
	o.Type = input.Type
	o.UpperPriceBand = input.UpperPriceBand
	o.OpenPrice = input.OpenPrice
	o.TotalSizeCr = input.TotalSizeCr
	o.RetailLotSize = input.RetailLotSize
	o.SHNILotSize = input.SHNILotSize
	o.BHNILotSize = input.BHNILotSize
	o.RetailPercentage = input.RetailPercentage
	o.SHNIPercentage = input.SHNIPercentage
	o.BHNIPercentage = input.BHNIPercentage
	o.Remark = strings.TrimSpace(input.Remark)
}

// UpdateOffering rewrites the offering. While active lines reference it,
// only the price band and open price may move.
func (uc *DefaultOfferingUsecase) UpdateOffering(ctx context.Context, input *registrydto.UpdateOfferingInput) (*domain.Offering, error) {
	if err := validateOffering(&input.OfferingInput); err != nil {
		return nil, err
	}
	var out *domain.Offering
	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		current, err := tx.Offerings().GetOfferingByID(ctx, input.CompanyID, input.OfferingID)
		if err != nil {
			return err
		}
		active, err := tx.Orders().CountActiveLinesByOffering(ctx, input.CompanyID, input.OfferingID)
		if err != nil {
			return fmt.Errorf("failed to count active lines: %w", err)
		}
		updated := *current
		applyOfferingInput(&updated, &input.OfferingInput)
		if active > 0 && !onlyPricesChanged(current, &updated) {
			return fmt.Errorf("%w: only upper price band and open price may change", domain.ErrOfferingInUse)
		}
		updated.UpdatedAt = uc.Now()
		if err := tx.Offerings().UpdateOffering(ctx, &updated); err != nil {
			return fmt.Errorf("failed to update offering: %w", err)
		}
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func onlyPricesChanged(before, after *domain.Offering) bool {
	a, b := before, after
	return a.Name == b.Name &&
		a.Type == b.Type &&
		a.TotalSizeCr.Equal(b.TotalSizeCr) &&
		a.RetailLotSize.Equal(b.RetailLotSize) &&
		a.SHNILotSize.Equal(b.SHNILotSize) &&
		a.BHNILotSize.Equal(b.BHNILotSize) &&
		a.RetailPercentage == b.RetailPercentage &&
		a.SHNIPercentage == b.SHNIPercentage &&
		a.BHNIPercentage == b.BHNIPercentage &&
		a.Remark == b.Remark
}

func (uc *DefaultOfferingUsecase) GetOffering(ctx context.Context, companyID, offeringID string) (*domain.Offering, error) {
	return uc.Store.Offerings().GetOfferingByID(ctx, companyID, offeringID)
}

func (uc *DefaultOfferingUsecase) ListOfferings(ctx context.Context, filter domain.OfferingFilter) ([]*domain.Offering, int64, error) {
	return uc.Store.Offerings().ListOfferings(ctx, filter)
}

func (uc *DefaultOfferingUsecase) DeleteOffering(ctx context.Context, companyID, offeringID string) error {
	return withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		offering, err := tx.Offerings().GetOfferingByID(ctx, companyID, offeringID)
		if err != nil {
			return err
		}
		active, err := tx.Orders().CountActiveLinesByOffering(ctx, companyID, offeringID)
		if err != nil {
			return fmt.Errorf("failed to count active lines: %w", err)
		}
		if active > 0 {
			return domain.ErrOfferingInUse
		}
		offering.State = domain.LifecycleDeleted
		offering.UpdatedAt = uc.Now()
		if err := tx.Offerings().UpdateOffering(ctx, offering); err != nil {
			return fmt.Errorf("failed to delete offering: %w", err)
		}
		return nil
	})
}
