package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// createBatchSize keeps every multi-row insert well under postgres' 65535
// bind parameter limit.
const createBatchSize = 500

type DefaultArchiveRepository struct {
	db *gorm.DB
}

func NewDefaultArchiveRepository(db *gorm.DB) *DefaultArchiveRepository {
	return &DefaultArchiveRepository{db: db}
}

func (r *DefaultArchiveRepository) CreateHistory(ctx context.Context, history *domain.DeleteHistory) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMDeleteHistory(history)).Error; err != nil {
		return fmt.Errorf("failed to create delete history: %w", err)
	}
	return nil
}

func (r *DefaultArchiveRepository) SaveMasterSnapshots(ctx context.Context, snapshots []domain.MasterSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	rows := make([]models.MasterSnapshotModel, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, mappers.ToGORMMasterSnapshot(s))
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, createBatchSize).Error
}

func (r *DefaultArchiveRepository) SaveLineSnapshots(ctx context.Context, snapshots []domain.LineSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	rows := make([]models.LineSnapshotModel, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, mappers.ToGORMLineSnapshot(s))
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, createBatchSize).Error
}

func (r *DefaultArchiveRepository) SaveUnitSnapshots(ctx context.Context, snapshots []domain.UnitSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	rows := make([]models.UnitSnapshotModel, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, mappers.ToGORMUnitSnapshot(s))
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, createBatchSize).Error
}

func (r *DefaultArchiveRepository) GetArchive(ctx context.Context, companyID, historyID string) (*domain.Archive, error) {
	db := r.db.WithContext(ctx)
	var history models.DeleteHistoryModel
	if err := db.Where("id = ? AND company_id = ?", historyID, companyID).First(&history).Error; err != nil {
		return nil, notFound(err, "delete history", historyID)
	}
	archive := &domain.Archive{History: mappers.ToDomainDeleteHistory(&history)}

	var masters []models.MasterSnapshotModel
	if err := db.Where("history_id = ?", historyID).Order("id").Find(&masters).Error; err != nil {
		return nil, fmt.Errorf("failed to load master snapshots: %w", err)
	}
	for i := range masters {
		archive.Masters = append(archive.Masters, mappers.ToDomainMasterSnapshot(&masters[i]))
	}
	var lines []models.LineSnapshotModel
	if err := db.Where("history_id = ?", historyID).Order("id").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load line snapshots: %w", err)
	}
	for i := range lines {
		archive.Lines = append(archive.Lines, mappers.ToDomainLineSnapshot(&lines[i]))
	}
	var units []models.UnitSnapshotModel
	if err := db.Where("history_id = ?", historyID).Order("id").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to load unit snapshots: %w", err)
	}
	for i := range units {
		archive.Units = append(archive.Units, mappers.ToDomainUnitSnapshot(&units[i]))
	}
	return archive, nil
}

func (r *DefaultArchiveRepository) ListHistories(ctx context.Context, filter domain.HistoryFilter) ([]*domain.DeleteHistory, int64, error) {
	if filter.OfferingID != "" && !validID(filter.OfferingID) {
		return nil, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.DeleteHistoryModel{}).
		Where("company_id = ?", filter.CompanyID)
	if filter.OfferingID != "" {
		query = query.Where("offering_id = ?", filter.OfferingID)
	}
	if filter.From != nil {
		query = query.Where("deleted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("deleted_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}
	var historyModels []models.DeleteHistoryModel
	if err := pageQuery(query.Order("deleted_at DESC"), filter.Page, filter.Limit).Find(&historyModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find delete histories: %w", err)
	}
	histories := make([]*domain.DeleteHistory, len(historyModels))
	for i := range historyModels {
		histories[i] = mappers.ToDomainDeleteHistory(&historyModels[i])
	}
	return histories, total, nil
}
