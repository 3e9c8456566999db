package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

var active = string(domain.LifecycleActive)

type DefaultOfferingRepository struct {
	db *gorm.DB
}

func NewDefaultOfferingRepository(db *gorm.DB) *DefaultOfferingRepository {
	return &DefaultOfferingRepository{db: db}
}

func (r *DefaultOfferingRepository) CreateOffering(ctx context.Context, offering *domain.Offering) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMOffering(offering)).Error; err != nil {
		return fmt.Errorf("failed to create offering: %w", err)
	}
	return nil
}

func (r *DefaultOfferingRepository) UpdateOffering(ctx context.Context, offering *domain.Offering) error {
	res := r.db.WithContext(ctx).Model(&models.OfferingModel{}).
		Where("id = ? AND company_id = ?", offering.ID, offering.CompanyID).
		Select("*").Omit("id", "company_id", "created_by", "created_at").
		Updates(mappers.ToGORMOffering(offering))
	return requireRows(res, "offering", offering.ID)
}

func (r *DefaultOfferingRepository) GetOfferingByID(ctx context.Context, companyID, offeringID string) (*domain.Offering, error) {
	var model models.OfferingModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ? AND state = ?", offeringID, companyID, active).
		First(&model).Error; err != nil {
		return nil, notFound(err, "offering", offeringID)
	}
	return mappers.ToDomainOffering(&model), nil
}

func (r *DefaultOfferingRepository) ListOfferings(ctx context.Context, filter domain.OfferingFilter) ([]*domain.Offering, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OfferingModel{}).
		Where("company_id = ? AND state = ?", filter.CompanyID, active)
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}
	var offeringModels []models.OfferingModel
	if err := pageQuery(query.Order("created_at"), filter.Page, filter.Limit).Find(&offeringModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find offerings: %w", err)
	}
	offerings := make([]*domain.Offering, len(offeringModels))
	for i := range offeringModels {
		offerings[i] = mappers.ToDomainOffering(&offeringModels[i])
	}
	return offerings, total, nil
}

type DefaultGroupRepository struct {
	db *gorm.DB
}

func NewDefaultGroupRepository(db *gorm.DB) *DefaultGroupRepository {
	return &DefaultGroupRepository{db: db}
}

func (r *DefaultGroupRepository) CreateGroup(ctx context.Context, group *domain.Group) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMGroup(group)).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *DefaultGroupRepository) UpdateGroup(ctx context.Context, group *domain.Group) error {
	res := r.db.WithContext(ctx).Model(&models.GroupModel{}).
		Where("id = ? AND company_id = ?", group.ID, group.CompanyID).
		Select("*").Omit("id", "company_id", "created_by", "created_at").
		Updates(mappers.ToGORMGroup(group))
	return requireRows(res, "group", group.ID)
}

func (r *DefaultGroupRepository) GetGroupByID(ctx context.Context, companyID, groupID string) (*domain.Group, error) {
	var model models.GroupModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ? AND state = ?", groupID, companyID, active).
		First(&model).Error; err != nil {
		return nil, notFound(err, "group", groupID)
	}
	return mappers.ToDomainGroup(&model), nil
}

func (r *DefaultGroupRepository) FindGroupByName(ctx context.Context, companyID, name string) (*domain.Group, error) {
	var model models.GroupModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND state = ? AND LOWER(name) = ?", companyID, active, strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		return nil, notFound(err, "group", name)
	}
	return mappers.ToDomainGroup(&model), nil
}

func (r *DefaultGroupRepository) GetGroupsByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var groupModels []models.GroupModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&groupModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find groups: %w", err)
	}
	groups := make([]*domain.Group, len(groupModels))
	for i := range groupModels {
		groups[i] = mappers.ToDomainGroup(&groupModels[i])
	}
	return groups, nil
}

func (r *DefaultGroupRepository) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.Group, int64, error) {
	if filter.OfferingID != nil && !validID(*filter.OfferingID) {
		return nil, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.GroupModel{}).
		Where("company_id = ? AND state = ?", filter.CompanyID, active)
	if filter.OfferingID != nil {
		query = query.Where("offering_id = ?", *filter.OfferingID)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}
	var groupModels []models.GroupModel
	if err := pageQuery(query.Order("LOWER(name)"), filter.Page, filter.Limit).Find(&groupModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find groups: %w", err)
	}
	groups := make([]*domain.Group, len(groupModels))
	for i := range groupModels {
		groups[i] = mappers.ToDomainGroup(&groupModels[i])
	}
	return groups, total, nil
}

type DefaultClientRepository struct {
	db *gorm.DB
}

func NewDefaultClientRepository(db *gorm.DB) *DefaultClientRepository {
	return &DefaultClientRepository{db: db}
}

func (r *DefaultClientRepository) CreateClient(ctx context.Context, client *domain.Client) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMClient(client)).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *DefaultClientRepository) UpdateClient(ctx context.Context, client *domain.Client) error {
	res := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("id = ? AND company_id = ?", client.ID, client.CompanyID).
		Select("*").Omit("id", "company_id", "created_by", "created_at").
		Updates(mappers.ToGORMClient(client))
	return requireRows(res, "client", client.ID)
}

func (r *DefaultClientRepository) GetClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ? AND state = ?", clientID, companyID, active).
		First(&model).Error; err != nil {
		return nil, notFound(err, "client", clientID)
	}
	return mappers.ToDomainClient(&model), nil
}

func (r *DefaultClientRepository) FindClientByPAN(ctx context.Context, companyID, pan string) (*domain.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND state = ? AND pan = ?", companyID, active, strings.ToUpper(pan)).
		First(&model).Error; err != nil {
		return nil, notFound(err, "client with pan", pan)
	}
	return mappers.ToDomainClient(&model), nil
}

func (r *DefaultClientRepository) ListClients(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("company_id = ? AND state = ?", filter.CompanyID, active)
	if filter.GroupID != "" {
		query = query.Where("group_id = ?", filter.GroupID)
	}
	if filter.PAN != "" {
		query = query.Where("pan LIKE ?", "%"+strings.ToUpper(filter.PAN)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}
	var clientModels []models.ClientModel
	if err := pageQuery(query.Order("created_at"), filter.Page, filter.Limit).Find(&clientModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find clients: %w", err)
	}
	clients := make([]*domain.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = mappers.ToDomainClient(&clientModels[i])
	}
	return clients, total, nil
}

func (r *DefaultClientRepository) MarkClientsDeleted(ctx context.Context, ids []string, actor string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"state":      string(domain.LifecycleDeleted),
			"deleted_by": actor,
			"deleted_at": at,
			"updated_at": at,
		}).Error
}

func (r *DefaultClientRepository) CreateClientDeleteHistory(ctx context.Context, history *domain.ClientDeleteHistory) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMClientDeleteHistory(history)).Error; err != nil {
		return fmt.Errorf("failed to create client delete history: %w", err)
	}
	return nil
}

func (r *DefaultClientRepository) ListClientDeleteHistories(ctx context.Context, filter domain.HistoryFilter) ([]*domain.ClientDeleteHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientDeleteHistoryModel{}).
		Where("company_id = ?", filter.CompanyID)
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
	var historyModels []models.ClientDeleteHistoryModel
	if err := pageQuery(query.Order("deleted_at DESC"), filter.Page, filter.Limit).
		Preload("Details").
		Find(&historyModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find client delete histories: %w", err)
	}
	histories := make([]*domain.ClientDeleteHistory, len(historyModels))
	for i := range historyModels {
		histories[i] = mappers.ToDomainClientDeleteHistory(&historyModels[i])
	}
	return histories, total, nil
}

type DefaultRemarkRepository struct {
	db *gorm.DB
}

func NewDefaultRemarkRepository(db *gorm.DB) *DefaultRemarkRepository {
	return &DefaultRemarkRepository{db: db}
}

func (r *DefaultRemarkRepository) CreateRemark(ctx context.Context, remark *domain.Remark) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMRemark(remark)).Error; err != nil {
		return fmt.Errorf("failed to create remark: %w", err)
	}
	return nil
}

func (r *DefaultRemarkRepository) FindRemarkByName(ctx context.Context, companyID, offeringID, name string) (*domain.Remark, error) {
	var model models.RemarkModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND offering_id = ? AND state = ? AND LOWER(name) = ?",
			companyID, offeringID, active, strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		return nil, notFound(err, "remark", name)
	}
	return mappers.ToDomainRemark(&model), nil
}

func (r *DefaultRemarkRepository) GetRemarksByIDs(ctx context.Context, ids []string) ([]*domain.Remark, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var remarkModels []models.RemarkModel
	if err := r.db.WithContext(ctx).Where("id IN ? AND state = ?", ids, active).Find(&remarkModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find remarks: %w", err)
	}
	remarks := make([]*domain.Remark, len(remarkModels))
	for i := range remarkModels {
		remarks[i] = mappers.ToDomainRemark(&remarkModels[i])
	}
	return remarks, nil
}

func (r *DefaultRemarkRepository) ListRemarks(ctx context.Context, companyID, offeringID string) ([]*domain.Remark, error) {
	if !validID(offeringID) {
		return nil, nil
	}
	var remarkModels []models.RemarkModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND offering_id = ? AND state = ?", companyID, offeringID, active).
		Order("created_at").
		Find(&remarkModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find remarks: %w", err)
	}
	remarks := make([]*domain.Remark, len(remarkModels))
	for i := range remarkModels {
		remarks[i] = mappers.ToDomainRemark(&remarkModels[i])
	}
	return remarks, nil
}
