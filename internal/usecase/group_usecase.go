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

type GroupUsecase interface {
	CreateGroup(ctx context.Context, input *registrydto.GroupInput) (*domain.Group, error)
	UpdateGroup(ctx context.Context, input *registrydto.UpdateGroupInput) (*domain.Group, error)
	GetGroup(ctx context.Context, companyID, groupID string) (*domain.Group, error)
	ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.Group, int64, error)
	DeleteGroup(ctx context.Context, companyID, groupID string) error
}

type DefaultGroupUsecase struct {
	Store domain.LedgerStore
	Now   func() time.Time
}

func NewDefaultGroupUsecase(store domain.LedgerStore) *DefaultGroupUsecase {
	return &DefaultGroupUsecase{Store: store, Now: time.Now}
}

// ensureUniqueGroupName fails with ErrConflict when another active group of
// the company already uses name.
func ensureUniqueGroupName(ctx context.Context, repo domain.GroupRepository, companyID, name, selfID string) error {
	existing, err := repo.FindGroupByName(ctx, companyID, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up group name: %w", err)
	case existing.ID == selfID:
		return nil
	default:
		return fmt.Errorf("group %q: %w", name, domain.ErrConflict)
	}
}

func (uc *DefaultGroupUsecase) CreateGroup(ctx context.Context, input *registrydto.GroupInput) (*domain.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	now := uc.Now()
	group := &domain.Group{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		Name:       name,
		Mobile:     strings.TrimSpace(input.Mobile),
		Email:      strings.TrimSpace(input.Email),
		Address:    strings.TrimSpace(input.Address),
		Remark:     strings.TrimSpace(input.Remark),
		State:      domain.LifecycleActive,
		CreatedBy:  input.Actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		if err := ensureUniqueGroupName(ctx, tx.Groups(), input.CompanyID, name, ""); err != nil {
			return err
		}
		if input.OfferingID != nil {
			if _, err := tx.Offerings().GetOfferingByID(ctx, input.CompanyID, *input.OfferingID); err != nil {
				return err
			}
		}
		if err := tx.Groups().CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (uc *DefaultGroupUsecase) UpdateGroup(ctx context.Context, input *registrydto.UpdateGroupInput) (*domain.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	var out *domain.Group
	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		group, err := tx.Groups().GetGroupByID(ctx, input.CompanyID, input.GroupID)
		if err != nil {
			return err
		}
		if err := ensureUniqueGroupName(ctx, tx.Groups(), input.CompanyID, name, group.ID); err != nil {
			return err
		}
		group.Name = name
		group.OfferingID = input.OfferingID
		group.Mobile = strings.TrimSpace(input.Mobile)
		group.Email = strings.TrimSpace(input.Email)
		group.Address = strings.TrimSpace(input.Address)
		group.Remark = strings.TrimSpace(input.Remark)
		group.UpdatedAt = uc.Now()
		if err := tx.Groups().UpdateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
		out = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *DefaultGroupUsecase) GetGroup(ctx context.Context, companyID, groupID string) (*domain.Group, error) {
	return uc.Store.Groups().GetGroupByID(ctx, companyID, groupID)
}

func (uc *DefaultGroupUsecase) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.Group, int64, error) {
	return uc.Store.Groups().ListGroups(ctx, filter)
}

func (uc *DefaultGroupUsecase) DeleteGroup(ctx context.Context, companyID, groupID string) error {
	return withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		group, err := tx.Groups().GetGroupByID(ctx, companyID, groupID)
		if err != nil {
			return err
		}
		group.State = domain.LifecycleDeleted
		group.UpdatedAt = uc.Now()
		if err := tx.Groups().UpdateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return nil
	})
}
