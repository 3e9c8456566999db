package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func activeUnits(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", active).Order("seq")
}

func activeLines(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", active).Order("created_at, id")
}

// liveLines joins lines to their masters and keeps only active lines of
// active, undeleted masters of the offering.
func (r *DefaultOrderRepository) liveLines(ctx context.Context, companyID, offeringID string) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.OrderLineModel{}).
		Joins("JOIN order_master_models ON order_master_models.id = order_line_models.master_id").
		Where("order_line_models.company_id = ? AND order_line_models.offering_id = ?", companyID, offeringID).
		Where("order_line_models.state = ?", active).
		Where("order_master_models.is_active = ? AND order_master_models.state = ?", true, active)
}

// CreateMaster writes the master, its lines, remarks and units as separate
// batched inserts so a large quantity stays under the bind parameter limit.
func (r *DefaultOrderRepository) CreateMaster(ctx context.Context, master *domain.OrderMaster) error {
	db := r.DB.WithContext(ctx)
	model := mappers.ToGORMMaster(master)
	lines := model.Lines
	model.Lines = nil

	var remarks []models.LineRemarkModel
	var units []models.AllocationUnitModel
	for i := range lines {
		remarks = append(remarks, lines[i].Remarks...)
		units = append(units, lines[i].Units...)
		lines[i].Remarks = nil
		lines[i].Units = nil
	}

	if err := db.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order master: %w", err)
	}
	if len(lines) > 0 {
		if err := db.CreateInBatches(&lines, createBatchSize).Error; err != nil {
			return fmt.Errorf("failed to create order lines: %w", err)
		}
	}
	if len(remarks) > 0 {
		if err := db.CreateInBatches(&remarks, createBatchSize).Error; err != nil {
			return fmt.Errorf("failed to write line remarks: %w", err)
		}
	}
	if len(units) > 0 {
		if err := db.CreateInBatches(&units, createBatchSize).Error; err != nil {
			return fmt.Errorf("failed to create allocation units: %w", err)
		}
	}
	return nil
}

func (r *DefaultOrderRepository) GetMasterByID(ctx context.Context, companyID, masterID string) (*domain.OrderMaster, error) {
	var master models.OrderMasterModel
	if err := r.DB.WithContext(ctx).
		Preload("Lines", activeLines).
		Preload("Lines.Remarks").
		Preload("Lines.Units", activeUnits).
		Where("id = ? AND company_id = ? AND state = ?", masterID, companyID, active).
		First(&master).Error; err != nil {
		return nil, notFound(err, "order master", masterID)
	}
	return mappers.ToDomainMaster(&master), nil
}

func (r *DefaultOrderRepository) GetLineByID(ctx context.Context, companyID, lineID string) (*domain.OrderLine, error) {
	var line models.OrderLineModel
	if err := r.DB.WithContext(ctx).
		Preload("Remarks").
		Preload("Units", activeUnits).
		Where("id = ? AND company_id = ? AND state = ?", lineID, companyID, active).
		First(&line).Error; err != nil {
		return nil, notFound(err, "order line", lineID)
	}
	return mappers.ToDomainLine(&line), nil
}

func (r *DefaultOrderRepository) UpdateLine(ctx context.Context, line *domain.OrderLine) error {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.OrderLineModel{}).
		Where("id = ? AND state = ?", line.ID, active).
		Updates(map[string]any{
			"group_id":     line.GroupID,
			"direction":    string(line.Direction),
			"category":     string(line.Category),
			"investor":     string(line.Investor),
			"strike_price": line.StrikePrice,
			"strike_kind":  string(line.StrikeKind),
			"quantity":     line.Quantity,
			"rate":         line.Rate,
			"ordered_at":   line.OrderedAt,
			"updated_at":   line.UpdatedAt,
		})
	if err := requireRows(res, "order line", line.ID); err != nil {
		return err
	}
	if err := db.Where("line_id = ?", line.ID).Delete(&models.LineRemarkModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear line remarks: %w", err)
	}
	if remarks := mappers.ToGORMLineRemarks(line.ID, line.RemarkIDs); len(remarks) > 0 {
		if err := db.Create(&remarks).Error; err != nil {
			return fmt.Errorf("failed to write line remarks: %w", err)
		}
	}
	return nil
}

func (r *DefaultOrderRepository) CreateUnits(ctx context.Context, units []*domain.AllocationUnit) error {
	if len(units) == 0 {
		return nil
	}
	unitModels := make([]models.AllocationUnitModel, 0, len(units))
	for _, u := range units {
		unitModels = append(unitModels, *mappers.ToGORMUnit(u))
	}
	return r.DB.WithContext(ctx).CreateInBatches(&unitModels, createBatchSize).Error
}

func (r *DefaultOrderRepository) RemoveUnits(ctx context.Context, unitIDs []string) error {
	if len(unitIDs) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Where("id IN ? AND pan = ''", unitIDs).Delete(&models.AllocationUnitModel{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove allocation units: %w", res.Error)
	}
	if res.RowsAffected != int64(len(unitIDs)) {
		return fmt.Errorf("allocation units: removed %d of %d unfilled: %w", res.RowsAffected, len(unitIDs), domain.ErrAllocatedUnitsExist)
	}
	return nil
}

func (r *DefaultOrderRepository) UpdateUnitsGroup(ctx context.Context, lineID, groupID string) error {
	return r.DB.WithContext(ctx).Model(&models.AllocationUnitModel{}).
		Where("line_id = ? AND state = ?", lineID, active).
		Update("group_id", groupID).Error
}

func (r *DefaultOrderRepository) GetUnitsByIDs(ctx context.Context, companyID string, unitIDs []string) ([]*domain.AllocationUnit, error) {
	unitIDs = validIDs(unitIDs)
	if len(unitIDs) == 0 {
		return nil, nil
	}
	var unitModels []models.AllocationUnitModel
	if err := r.DB.WithContext(ctx).
		Where("company_id = ? AND id IN ? AND state = ?", companyID, unitIDs, active).
		Find(&unitModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find allocation units: %w", err)
	}
	units := make([]*domain.AllocationUnit, len(unitModels))
	for i := range unitModels {
		units[i] = mappers.ToDomainUnit(&unitModels[i])
	}
	return units, nil
}

func (r *DefaultOrderRepository) UpdateUnitDetails(ctx context.Context, unit *domain.AllocationUnit) error {
	res := r.DB.WithContext(ctx).Model(&models.AllocationUnitModel{}).
		Where("id = ? AND state = ?", unit.ID, active).
		Updates(map[string]any{
			"pan":            unit.PAN,
			"client_name":    unit.ClientName,
			"demat_number":   unit.DematNumber,
			"application_no": unit.ApplicationNo,
			"allotted_qty":   unit.AllottedQty,
			"updated_at":     unit.UpdatedAt,
		})
	return requireRows(res, "allocation unit", unit.ID)
}

func deletedColumns(actor string, at time.Time) map[string]any {
	return map[string]any{
		"state":      string(domain.LifecycleDeleted),
		"deleted_by": actor,
		"deleted_at": at,
		"updated_at": at,
	}
}

func (r *DefaultOrderRepository) MarkLineDeleted(ctx context.Context, lineID, actor string, at time.Time) error {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.OrderLineModel{}).
		Where("id = ? AND state = ?", lineID, active).
		Updates(deletedColumns(actor, at))
	if err := requireRows(res, "order line", lineID); err != nil {
		return err
	}
	return db.Model(&models.AllocationUnitModel{}).
		Where("line_id = ? AND state = ?", lineID, active).
		Updates(deletedColumns(actor, at)).Error
}

func (r *DefaultOrderRepository) CountActiveLines(ctx context.Context, masterID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderLineModel{}).
		Where("master_id = ? AND state = ?", masterID, active).
		Count(&n).Error
	return n, err
}

func (r *DefaultOrderRepository) CountActiveLinesByOffering(ctx context.Context, companyID, offeringID string) (int64, error) {
	if !validID(offeringID) {
		return 0, nil
	}
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.OrderLineModel{}).
		Joins("JOIN order_master_models ON order_master_models.id = order_line_models.master_id").
		Where("order_line_models.company_id = ? AND order_line_models.offering_id = ?", companyID, offeringID).
		Where("order_line_models.state = ? AND order_master_models.state = ?", active, active).
		Count(&n).Error
	return n, err
}

func (r *DefaultOrderRepository) SetMasterActive(ctx context.Context, masterID string, isActive bool) error {
	res := r.DB.WithContext(ctx).Model(&models.OrderMasterModel{}).
		Where("id = ?", masterID).
		Update("is_active", isActive)
	return requireRows(res, "order master", masterID)
}

func (r *DefaultOrderRepository) ListActiveLines(ctx context.Context, filter domain.LineFilter) ([]*domain.OrderLine, error) {
	if !validID(filter.OfferingID) || (filter.GroupID != "" && !validID(filter.GroupID)) {
		return nil, nil
	}
	query := r.liveLines(ctx, filter.CompanyID, filter.OfferingID)
	if filter.Category != nil {
		query = query.Where("order_line_models.category = ?", string(*filter.Category))
	}
	if filter.Investor != nil {
		query = query.Where("order_line_models.investor = ?", string(*filter.Investor))
	}
	if filter.GroupID != "" {
		query = query.Where(`EXISTS (SELECT 1 FROM allocation_unit_models u
			WHERE u.line_id = order_line_models.id AND u.state = ? AND u.group_id = ?)`, active, filter.GroupID)
	}

	var lineModels []models.OrderLineModel
	if err := query.Preload("Remarks").
		Order("order_line_models.created_at, order_line_models.id").
		Find(&lineModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find order lines: %w", err)
	}
	lines := make([]*domain.OrderLine, len(lineModels))
	for i := range lineModels {
		lines[i] = mappers.ToDomainLine(&lineModels[i])
	}
	return lines, nil
}

func (r *DefaultOrderRepository) ListActiveUnits(ctx context.Context, filter domain.UnitFilter) ([]domain.UnitRow, error) {
	if !validID(filter.OfferingID) || (filter.GroupID != "" && !validID(filter.GroupID)) {
		return nil, nil
	}
	lineQuery := r.liveLines(ctx, filter.CompanyID, filter.OfferingID).Select("order_line_models.id")
	query := r.DB.WithContext(ctx).Model(&models.AllocationUnitModel{}).
		Where("company_id = ? AND state = ?", filter.CompanyID, active).
		Where("line_id IN (?)", lineQuery)
	if filter.GroupID != "" {
		query = query.Where("group_id = ?", filter.GroupID)
	}
	if filter.OnlyFilled {
		query = query.Where("pan <> ''")
	}

	var unitModels []models.AllocationUnitModel
	if err := query.Order("created_at, seq").Find(&unitModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find allocation units: %w", err)
	}
	if len(unitModels) == 0 {
		return nil, nil
	}

	lineIDs := make([]string, 0, len(unitModels))
	seen := map[string]bool{}
	for _, u := range unitModels {
		if !seen[u.LineID] {
			seen[u.LineID] = true
			lineIDs = append(lineIDs, u.LineID)
		}
	}
	var lineModels []models.OrderLineModel
	if err := r.DB.WithContext(ctx).Preload("Remarks").Where("id IN ?", lineIDs).Find(&lineModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find order lines: %w", err)
	}
	lines := make(map[string]*domain.OrderLine, len(lineModels))
	for i := range lineModels {
		lines[lineModels[i].ID] = mappers.ToDomainLine(&lineModels[i])
	}

	rows := make([]domain.UnitRow, 0, len(unitModels))
	for i := range unitModels {
		rows = append(rows, domain.UnitRow{
			Unit: mappers.ToDomainUnit(&unitModels[i]),
			Line: lines[unitModels[i].LineID],
		})
	}
	return rows, nil
}

func (r *DefaultOrderRepository) ListRecentLines(ctx context.Context, companyID, offeringID string, limit int) ([]*domain.OrderLine, error) {
	if !validID(offeringID) {
		return nil, nil
	}
	query := r.liveLines(ctx, companyID, offeringID).
		Preload("Remarks").
		Order("order_line_models.created_at DESC, order_line_models.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var lineModels []models.OrderLineModel
	if err := query.Find(&lineModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent order lines: %w", err)
	}
	lines := make([]*domain.OrderLine, len(lineModels))
	for i := range lineModels {
		lines[i] = mappers.ToDomainLine(&lineModels[i])
	}
	return lines, nil
}

func (r *DefaultOrderRepository) ListMastersForArchive(ctx context.Context, companyID, offeringID string) ([]*domain.OrderMaster, error) {
	if !validID(offeringID) {
		return nil, nil
	}
	var masterModels []models.OrderMasterModel
	if err := r.DB.WithContext(ctx).
		Preload("Lines", activeLines).
		Preload("Lines.Remarks").
		Preload("Lines.Units", activeUnits).
		Where("company_id = ? AND offering_id = ? AND state = ?", companyID, offeringID, active).
		Order("created_at, id").
		Find(&masterModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find order masters: %w", err)
	}
	masters := make([]*domain.OrderMaster, len(masterModels))
	for i := range masterModels {
		masters[i] = mappers.ToDomainMaster(&masterModels[i])
	}
	return masters, nil
}

func (r *DefaultOrderRepository) MarkMastersDeleted(ctx context.Context, ids []string, actor string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	cols := deletedColumns(actor, at)
	cols["is_active"] = false
	return r.DB.WithContext(ctx).Model(&models.OrderMasterModel{}).Where("id IN ?", ids).Updates(cols).Error
}

func (r *DefaultOrderRepository) MarkLinesDeleted(ctx context.Context, ids []string, actor string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&models.OrderLineModel{}).Where("id IN ?", ids).Updates(deletedColumns(actor, at)).Error
}

func (r *DefaultOrderRepository) MarkUnitsDeleted(ctx context.Context, ids []string, actor string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&models.AllocationUnitModel{}).Where("id IN ?", ids).Updates(deletedColumns(actor, at)).Error
}
