package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/metrics"
	archivedto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/archive"
	"github.com/jaevor/go-nanoid"
)

const defaultHistoryPageSize = 20

type ArchiveUsecase interface {
	DeleteAllForOffering(ctx context.Context, input *archivedto.ArchiveInput) (*archivedto.ArchiveOutput, error)
	ListHistories(ctx context.Context, input *archivedto.ListHistoriesInput) (*archivedto.ListHistoriesOutput, error)
	GetArchive(ctx context.Context, companyID, historyID string) (*domain.Archive, error)
}

type DefaultArchiveUsecase struct {
	Store     domain.LedgerStore
	Publisher domain.EventPublisher
	Metrics   *metrics.LedgerMetrics
	Now       func() time.Time
}

func NewDefaultArchiveUsecase(store domain.LedgerStore, publisher domain.EventPublisher, ledgerMetrics *metrics.LedgerMetrics) *DefaultArchiveUsecase {
	return &DefaultArchiveUsecase{
		Store:     store,
		Publisher: publisher,
		Metrics:   ledgerMetrics,
		Now:       time.Now,
	}
}

// DeleteAllForOffering snapshots every active master of the offering with
// its lines and units into one history batch, then flags them deleted.
func (uc *DefaultArchiveUsecase) DeleteAllForOffering(ctx context.Context, input *archivedto.ArchiveInput) (*archivedto.ArchiveOutput, error) {
	newID, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("failed to init history id generator: %w", err)
	}
	now := uc.Now()
	history := &domain.DeleteHistory{
		ID:         newID(),
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		DeletedBy:  input.Actor,
		DeletedAt:  now,
		Remark:     input.Remark,
	}

	err = withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		orders := tx.Orders()
		masters, err := orders.ListMastersForArchive(ctx, input.CompanyID, input.OfferingID)
		if err != nil {
			return fmt.Errorf("failed to load orders for archive: %w", err)
		}
		if len(masters) == 0 {
			return domain.ErrNothingToDelete
		}

		var (
			masterSnaps []domain.MasterSnapshot
			lineSnaps   []domain.LineSnapshot
			unitSnaps   []domain.UnitSnapshot
			masterIDs   []string
			lineIDs     []string
			unitIDs     []string
		)
		for _, m := range masters {
			masterSnaps = append(masterSnaps, domain.SnapshotMaster(history.ID, m))
			masterIDs = append(masterIDs, m.ID)
			for _, l := range m.Lines {
				lineSnaps = append(lineSnaps, domain.SnapshotLine(history.ID, l))
				lineIDs = append(lineIDs, l.ID)
				for _, u := range l.Units {
					unitSnaps = append(unitSnaps, domain.SnapshotUnit(history.ID, u))
					unitIDs = append(unitIDs, u.ID)
				}
			}
		}
		history.TotalMasters = len(masterSnaps)
		history.TotalLines = len(lineSnaps)
		history.TotalUnits = len(unitSnaps)

		archives := tx.Archives()
		if err := archives.CreateHistory(ctx, history); err != nil {
			return fmt.Errorf("failed to create delete history: %w", err)
		}
		if err := archives.SaveMasterSnapshots(ctx, masterSnaps); err != nil {
			return fmt.Errorf("failed to save master snapshots: %w", err)
		}
		if err := archives.SaveLineSnapshots(ctx, lineSnaps); err != nil {
			return fmt.Errorf("failed to save line snapshots: %w", err)
		}
		if err := archives.SaveUnitSnapshots(ctx, unitSnaps); err != nil {
			return fmt.Errorf("failed to save unit snapshots: %w", err)
		}

		if err := orders.MarkUnitsDeleted(ctx, unitIDs, input.Actor, now); err != nil {
			return fmt.Errorf("failed to delete allocation units: %w", err)
		}
		if err := orders.MarkLinesDeleted(ctx, lineIDs, input.Actor, now); err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}
		if err := orders.MarkMastersDeleted(ctx, masterIDs, input.Actor, now); err != nil {
			return fmt.Errorf("failed to delete order masters: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.recordArchive("failed", 0)
		slog.Warn("archive run failed",
			"offering_id", input.OfferingID,
			"actor", input.Actor,
			"error", err.Error(),
		)
		return nil, err
	}

	uc.recordArchive("ok", history.TotalUnits)
	slog.Info("offering orders archived",
		"offering_id", input.OfferingID,
		"history_id", history.ID,
		"masters", history.TotalMasters,
		"lines", history.TotalLines,
		"units", history.TotalUnits,
	)
	publishAsync(uc.Publisher, domain.LedgerEvent{
		Type:       domain.EventOrdersArchived,
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		EntityID:   history.ID,
		Actor:      input.Actor,
		Attributes: map[string]any{
			"masters": history.TotalMasters,
			"lines":   history.TotalLines,
			"units":   history.TotalUnits,
		},
		OccurredAt: now,
	})
	return &archivedto.ArchiveOutput{History: history}, nil
}

func (uc *DefaultArchiveUsecase) ListHistories(ctx context.Context, input *archivedto.ListHistoriesInput) (*archivedto.ListHistoriesOutput, error) {
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryPageSize
	}
	histories, total, err := uc.Store.Archives().ListHistories(ctx, domain.HistoryFilter{
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		From:       input.From,
		To:         input.To,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list delete histories: %w", err)
	}
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &archivedto.ListHistoriesOutput{
		Histories: histories,
		Pagination: archivedto.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

func (uc *DefaultArchiveUsecase) GetArchive(ctx context.Context, companyID, historyID string) (*domain.Archive, error) {
	return uc.Store.Archives().GetArchive(ctx, companyID, historyID)
}

func (uc *DefaultArchiveUsecase) recordArchive(result string, units int) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordArchive(result, units)
}
