package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/metrics"
	allocationdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/allocation"
	"github.com/google/uuid"
)

const defaultRecentLines = 5

type AllocationUsecase interface {
	Place(ctx context.Context, input *allocationdto.PlaceOrderInput) (*domain.OrderMaster, error)
	Edit(ctx context.Context, input *allocationdto.EditOrderInput) (*allocationdto.EditOrderOutput, error)
	Delete(ctx context.Context, input *allocationdto.DeleteOrderInput) (*allocationdto.DeleteOrderOutput, error)
	FillUnitDetails(ctx context.Context, input *allocationdto.FillUnitDetailsInput) ([]*domain.AllocationUnit, error)
	GetMaster(ctx context.Context, companyID, masterID string) (*allocationdto.MasterView, error)
	RecentLines(ctx context.Context, companyID, offeringID string, limit int) ([]*domain.OrderLine, error)
}

type DefaultAllocationUsecase struct {
	Store     domain.LedgerStore
	Publisher domain.EventPublisher
	Audit     domain.AuditLogger
	Metrics   *metrics.LedgerMetrics
	Now       func() time.Time
}

func NewDefaultAllocationUsecase(
	store domain.LedgerStore,
	publisher domain.EventPublisher,
	audit domain.AuditLogger,
	ledgerMetrics *metrics.LedgerMetrics,
) *DefaultAllocationUsecase {
	return &DefaultAllocationUsecase{
		Store:     store,
		Publisher: publisher,
		Audit:     audit,
		Metrics:   ledgerMetrics,
		Now:       time.Now,
	}
}

func (uc *DefaultAllocationUsecase) Place(ctx context.Context, input *allocationdto.PlaceOrderInput) (*domain.OrderMaster, error) {
	if len(input.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "at least one line is required")
	}
	type derived struct {
		strike string
		kind   domain.StrikeKind
	}
	strikes := make([]derived, len(input.Lines))
	for i, spec := range input.Lines {
		if err := validateLineSpec(spec.Direction, spec.Category, spec.Investor, spec.Quantity, spec.Rate); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		strike, kind, err := deriveStrike(spec.Category, spec.StrikePrice, spec.ApplyRate)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		strikes[i] = derived{strike: strike, kind: kind}
	}

	now := uc.Now()
	placedAt := input.PlacedAt
	if placedAt.IsZero() {
		placedAt = now
	}
	remarkIDs := dedupeIDs(input.RemarkIDs)

	master := &domain.OrderMaster{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		PlacedBy:   input.Actor,
		PlacedAt:   placedAt,
		IsActive:   true,
		State:      domain.LifecycleActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i, spec := range input.Lines {
		orderedAt := spec.OrderedAt
		if orderedAt.IsZero() {
			orderedAt = placedAt
		}
		line := &domain.OrderLine{
			ID:          uuid.New().String(),
			MasterID:    master.ID,
			CompanyID:   input.CompanyID,
			OfferingID:  input.OfferingID,
			GroupID:     input.GroupID,
			Direction:   spec.Direction,
			Category:    spec.Category,
			Investor:    spec.Investor,
			StrikePrice: strikes[i].strike,
			StrikeKind:  strikes[i].kind,
			Quantity:    spec.Quantity,
			Rate:        spec.Rate,
			RemarkIDs:   remarkIDs,
			OrderedAt:   orderedAt,
			State:       domain.LifecycleActive,
			CreatedBy:   input.Actor,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		line.Units = newUnits(line, 1, spec.Quantity, now)
		master.Lines = append(master.Lines, line)
	}

	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		if _, err := tx.Offerings().GetOfferingByID(ctx, input.CompanyID, input.OfferingID); err != nil {
			return err
		}
		if _, err := tx.Groups().GetGroupByID(ctx, input.CompanyID, input.GroupID); err != nil {
			return err
		}
		if err := checkRemarks(ctx, tx.Remarks(), input.CompanyID, input.OfferingID, remarkIDs); err != nil {
			return err
		}
		if err := tx.Orders().CreateMaster(ctx, master); err != nil {
			return fmt.Errorf("failed to create order master: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	units := 0
	for _, line := range master.Lines {
		units += len(line.Units)
		uc.recordLinePlaced(line, "place")
	}
	publishAsync(uc.Publisher, domain.LedgerEvent{
		Type:       domain.EventOrderPlaced,
		CompanyID:  master.CompanyID,
		OfferingID: master.OfferingID,
		EntityID:   master.ID,
		Actor:      input.Actor,
		Attributes: map[string]any{"lines": len(master.Lines), "units": units, "group_id": input.GroupID},
		OccurredAt: now,
	})
	return master, nil
}

func (uc *DefaultAllocationUsecase) Edit(ctx context.Context, input *allocationdto.EditOrderInput) (*allocationdto.EditOrderOutput, error) {
	spec := input.Line
	if err := validateLineSpec(spec.Direction, spec.Category, spec.Investor, spec.Quantity, spec.Rate); err != nil {
		return nil, err
	}
	strike, kind, err := deriveStrike(spec.Category, spec.StrikePrice, spec.ApplyRate)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	out := &allocationdto.EditOrderOutput{}
	var offeringID string
	err = withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		orders := tx.Orders()
		line, err := orders.GetLineByID(ctx, input.CompanyID, input.LineID)
		if err != nil {
			return err
		}
		offeringID = line.OfferingID
		if _, err := tx.Groups().GetGroupByID(ctx, input.CompanyID, input.GroupID); err != nil {
			return err
		}
		if input.RemarkIDs != nil {
			line.RemarkIDs = dedupeIDs(input.RemarkIDs)
			if err := checkRemarks(ctx, tx.Remarks(), input.CompanyID, line.OfferingID, line.RemarkIDs); err != nil {
				return err
			}
		}

		current := len(line.Units)
		switch {
		case spec.Quantity > current:
			maxSeq := 0
			for _, u := range line.Units {
				if u.Seq > maxSeq {
					maxSeq = u.Seq
				}
			}
			line.GroupID = input.GroupID
			added := newUnits(line, maxSeq+1, spec.Quantity-current, now)
			if err := orders.CreateUnits(ctx, added); err != nil {
				return fmt.Errorf("failed to append allocation units: %w", err)
			}
			out.UnitsAdded = len(added)
		case spec.Quantity < current:
			removable := pickRemovableUnits(line.Units, current-spec.Quantity)
			if removable == nil {
				return reduceBelowAllocatedError(line.ID, current-spec.Quantity, countUnfilled(line.Units))
			}
			if err := orders.RemoveUnits(ctx, removable); err != nil {
				return fmt.Errorf("failed to remove allocation units: %w", err)
			}
			out.UnitsRemoved = len(removable)
		}

		line.GroupID = input.GroupID
		line.Direction = spec.Direction
		line.Category = spec.Category
		line.Investor = spec.Investor
		line.StrikePrice = strike
		line.StrikeKind = kind
		line.Quantity = spec.Quantity
		line.Rate = spec.Rate
		if !spec.OrderedAt.IsZero() {
			line.OrderedAt = spec.OrderedAt
		}
		line.UpdatedAt = now
		if err := orders.UpdateLine(ctx, line); err != nil {
			return fmt.Errorf("failed to update order line: %w", err)
		}
		if err := orders.UpdateUnitsGroup(ctx, line.ID, input.GroupID); err != nil {
			return fmt.Errorf("failed to update unit groups: %w", err)
		}

		out.Line, err = orders.GetLineByID(ctx, input.CompanyID, line.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			uc.recordEditRejected(reasonOf(err))
			auditRejected(ctx, uc.Audit, domain.AuditEntry{
				Operation:  "order.edit",
				CompanyID:  input.CompanyID,
				OfferingID: offeringID,
				EntityID:   input.LineID,
				Actor:      input.Actor,
				Reason:     err.Error(),
				Timestamp:  now,
			})
		}
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordReconciliation(out.UnitsAdded, out.UnitsRemoved)
	}
	publishAsync(uc.Publisher, domain.LedgerEvent{
		Type:       domain.EventOrderEdited,
		CompanyID:  input.CompanyID,
		OfferingID: out.Line.OfferingID,
		EntityID:   out.Line.ID,
		Actor:      input.Actor,
		Attributes: map[string]any{"quantity": out.Line.Quantity, "units_added": out.UnitsAdded, "units_removed": out.UnitsRemoved},
		OccurredAt: now,
	})
	return out, nil
}

// reduceBelowAllocatedError explains which reduction the guard refused.
func reduceBelowAllocatedError(lineID string, need, unfilled int) error {
	return fmt.Errorf("line %s: need to remove %d units, only %d unfilled: %w", lineID, need, unfilled, domain.ErrAllocatedUnitsExist)
}

// pickRemovableUnits selects n unfilled units, newest first. It returns nil
// when fewer than n unfilled units exist.
func pickRemovableUnits(units []*domain.AllocationUnit, n int) []string {
	unfilled := make([]*domain.AllocationUnit, 0, len(units))
	for _, u := range units {
		if !u.Filled() {
			unfilled = append(unfilled, u)
		}
	}
	if len(unfilled) < n {
		return nil
	}
	sort.Slice(unfilled, func(i, j int) bool { return unfilled[i].Seq > unfilled[j].Seq })
	ids := make([]string, 0, n)
	for _, u := range unfilled[:n] {
		ids = append(ids, u.ID)
	}
	return ids
}

func countUnfilled(units []*domain.AllocationUnit) int {
	n := 0
	for _, u := range units {
		if !u.Filled() {
			n++
		}
	}
	return n
}

func (uc *DefaultAllocationUsecase) Delete(ctx context.Context, input *allocationdto.DeleteOrderInput) (*allocationdto.DeleteOrderOutput, error) {
	now := uc.Now()
	out := &allocationdto.DeleteOrderOutput{LineID: input.LineID}
	var offeringID string
	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		orders := tx.Orders()
		line, err := orders.GetLineByID(ctx, input.CompanyID, input.LineID)
		if err != nil {
			return err
		}
		out.MasterID = line.MasterID
		offeringID = line.OfferingID
		if err := orders.MarkLineDeleted(ctx, line.ID, input.Actor, now); err != nil {
			return fmt.Errorf("failed to delete order line: %w", err)
		}
		remaining, err := orders.CountActiveLines(ctx, line.MasterID)
		if err != nil {
			return fmt.Errorf("failed to count remaining lines: %w", err)
		}
		if remaining == 0 {
			if err := orders.SetMasterActive(ctx, line.MasterID, false); err != nil {
				return fmt.Errorf("failed to deactivate order master: %w", err)
			}
			out.MasterInactive = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordLineDeleted()
	}
	publishAsync(uc.Publisher, domain.LedgerEvent{
		Type:       domain.EventOrderDeleted,
		CompanyID:  input.CompanyID,
		OfferingID: offeringID,
		EntityID:   input.LineID,
		Actor:      input.Actor,
		Attributes: map[string]any{"master_id": out.MasterID, "master_inactive": out.MasterInactive},
		OccurredAt: now,
	})
	return out, nil
}

const maxPANLength = 10

func (uc *DefaultAllocationUsecase) FillUnitDetails(ctx context.Context, input *allocationdto.FillUnitDetailsInput) ([]*domain.AllocationUnit, error) {
	if len(input.Units) == 0 {
		return nil, domain.NewValidationError("units", "at least one unit is required")
	}
	ids := make([]string, 0, len(input.Units))
	for i, d := range input.Units {
		if strings.TrimSpace(d.UnitID) == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("units[%d].unit_id", i), "is required")
		}
		if len(strings.TrimSpace(d.PAN)) > maxPANLength {
			return nil, domain.NewValidationError(fmt.Sprintf("units[%d].pan", i), "must be at most 10 characters")
		}
		if d.AllottedQty != nil && *d.AllottedQty < 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("units[%d].allotted_qty", i), "must not be negative")
		}
		ids = append(ids, d.UnitID)
	}

	now := uc.Now()
	var updated []*domain.AllocationUnit
	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		units, err := tx.Orders().GetUnitsByIDs(ctx, input.CompanyID, ids)
		if err != nil {
			return fmt.Errorf("failed to load allocation units: %w", err)
		}
		byID := make(map[string]*domain.AllocationUnit, len(units))
		for _, u := range units {
			byID[u.ID] = u
		}
		for _, d := range input.Units {
			unit, ok := byID[d.UnitID]
			if !ok {
				return fmt.Errorf("allocation unit %s: %w", d.UnitID, domain.ErrNotFound)
			}
			applyUnitDetail(unit, d)
			if unit.PAN != "" && (strings.TrimSpace(d.ClientName) == "" || strings.TrimSpace(d.DematNumber) == "") {
				client, err := tx.Clients().FindClientByPAN(ctx, input.CompanyID, unit.PAN)
				switch {
				case err == nil:
					if strings.TrimSpace(d.ClientName) == "" && unit.ClientName == "" {
						unit.ClientName = client.Name
					}
					if strings.TrimSpace(d.DematNumber) == "" && unit.DematNumber == "" {
						unit.DematNumber = client.ClientDPID
					}
				case !errors.Is(err, domain.ErrNotFound):
					return fmt.Errorf("failed to look up client by pan: %w", err)
				}
			}
			unit.UpdatedAt = now
			if err := tx.Orders().UpdateUnitDetails(ctx, unit); err != nil {
				return fmt.Errorf("failed to update allocation unit %s: %w", unit.ID, err)
			}
			updated = append(updated, unit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyUnitDetail copies the non-blank fields of d onto unit.
func applyUnitDetail(unit *domain.AllocationUnit, d allocationdto.UnitDetail) {
	if pan := strings.ToUpper(strings.TrimSpace(d.PAN)); pan != "" {
		unit.PAN = pan
	}
	if v := strings.TrimSpace(d.ClientName); v != "" {
		unit.ClientName = v
	}
	if v := strings.TrimSpace(d.DematNumber); v != "" {
		unit.DematNumber = v
	}
	if v := strings.TrimSpace(d.ApplicationNo); v != "" {
		unit.ApplicationNo = v
	}
	if d.AllottedQty != nil {
		q := *d.AllottedQty
		unit.AllottedQty = &q
	}
}

func (uc *DefaultAllocationUsecase) GetMaster(ctx context.Context, companyID, masterID string) (*allocationdto.MasterView, error) {
	master, err := uc.Store.Orders().GetMasterByID(ctx, companyID, masterID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range master.Lines {
		ids = append(ids, line.RemarkIDs...)
	}
	names := map[string]string{}
	if ids = dedupeIDs(ids); len(ids) > 0 {
		remarks, err := uc.Store.Remarks().GetRemarksByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve remarks: %w", err)
		}
		for _, r := range remarks {
			names[r.ID] = r.Name
		}
	}
	view := &allocationdto.MasterView{Master: master, Remarks: make(map[string][]string, len(master.Lines))}
	for _, line := range master.Lines {
		resolved := make([]string, 0, len(line.RemarkIDs))
		for _, id := range line.RemarkIDs {
			if name, ok := names[id]; ok {
				resolved = append(resolved, name)
			}
		}
		view.Remarks[line.ID] = resolved
	}
	return view, nil
}

func (uc *DefaultAllocationUsecase) RecentLines(ctx context.Context, companyID, offeringID string, limit int) ([]*domain.OrderLine, error) {
	if limit <= 0 {
		limit = defaultRecentLines
	}
	return uc.Store.Orders().ListRecentLines(ctx, companyID, offeringID, limit)
}

func (uc *DefaultAllocationUsecase) recordLinePlaced(line *domain.OrderLine, source string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordLinePlaced(string(line.Category), string(line.Direction), source, len(line.Units))
}

func (uc *DefaultAllocationUsecase) recordEditRejected(reason string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordEditRejected(reason)
}
