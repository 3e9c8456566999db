package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// withinTx runs fn in one store transaction and rolls back on any error.
func withinTx(ctx context.Context, store domain.LedgerStore, fn func(tx domain.LedgerTx) error) error {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				slog.Error("failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

func publishAsync(p domain.EventPublisher, event domain.LedgerEvent) {
	if p == nil {
		return
	}
	go func(event domain.LedgerEvent) {
		if err := p.PublishLedgerEvent(event); err != nil {
			slog.Error("failed to publish ledger event", "type", event.Type, "entity_id", event.EntityID, "error", err.Error())
		}
	}(event)
}

func auditRejected(ctx context.Context, audit domain.AuditLogger, entry domain.AuditEntry) {
	slog.Warn("ledger operation rejected",
		"operation", entry.Operation,
		"offering_id", entry.OfferingID,
		"entity_id", entry.EntityID,
		"actor", entry.Actor,
		"reason", entry.Reason,
	)
	if audit == nil {
		return
	}
	if err := audit.LogRejected(ctx, entry); err != nil {
		slog.Error("failed to persist audit entry", "operation", entry.Operation, "error", err.Error())
	}
}

// deriveStrike returns the stored strike text and its kind. Call/Put store
// the strike as normalised decimal text; every other category stores a marker.
func deriveStrike(category domain.Category, strike string, applyRate bool) (string, domain.StrikeKind, error) {
	if category.IsOption() {
		strike = strings.TrimSpace(strike)
		v, err := decimal.NewFromString(strike)
		if err != nil || !v.IsPositive() {
			return "", "", domain.NewValidationError("strike_price", fmt.Sprintf("%s lines need a positive numeric strike, got %q", category, strike))
		}
		return v.String(), domain.StrikeValue, nil
	}
	if applyRate {
		return string(domain.StrikePremium), domain.StrikePremium, nil
	}
	return string(domain.StrikeApplication), domain.StrikeApplication, nil
}

// newUnits builds count empty units for line starting at seq from.
func newUnits(line *domain.OrderLine, from, count int, at time.Time) []*domain.AllocationUnit {
	units := make([]*domain.AllocationUnit, 0, count)
	for i := 0; i < count; i++ {
		units = append(units, &domain.AllocationUnit{
			ID:        uuid.New().String(),
			LineID:    line.ID,
			CompanyID: line.CompanyID,
			GroupID:   line.GroupID,
			Seq:       from + i,
			Quantity:  1,
			State:     domain.LifecycleActive,
			CreatedAt: at,
			UpdatedAt: at,
		})
	}
	return units
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// checkRemarks verifies every id names an active remark of the offering.
func checkRemarks(ctx context.Context, repo domain.RemarkRepository, companyID, offeringID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	remarks, err := repo.GetRemarksByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load remarks: %w", err)
	}
	found := make(map[string]bool, len(remarks))
	for _, r := range remarks {
		if r.CompanyID == companyID && r.OfferingID == offeringID {
			found[r.ID] = true
		}
	}
	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("remark %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrAllocatedUnitsExist):
		return "allocated_units"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrParseFailure):
		return "parse_failure"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrEmptyBatch):
		return "empty_batch"
	case errors.Is(err, domain.ErrInvariantViolation):
		return "invariant"
	default:
		return "error"
	}
}

func validateLineSpec(direction domain.Direction, category domain.Category, investor domain.InvestorTier, quantity int, rate decimal.Decimal) error {
	if !direction.Valid() {
		return domain.NewValidationError("direction", fmt.Sprintf("unknown direction %q", direction))
	}
	if !category.Valid() {
		return domain.NewValidationError("category", fmt.Sprintf("unknown category %q", category))
	}
	if !investor.Valid() {
		return domain.NewValidationError("investor", fmt.Sprintf("unknown investor tier %q", investor))
	}
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "must be greater than zero")
	}
	if rate.IsNegative() {
		return domain.NewValidationError("rate", "must not be negative")
	}
	return nil
}
