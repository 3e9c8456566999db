package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	db *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{db: db}
}

func (r *DefaultPaymentRepository) CreateTransactions(ctx context.Context, txs []*domain.PaymentTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]models.PaymentTransactionModel, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, *mappers.ToGORMPayment(t))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create payment transactions: %w", err)
	}
	return nil
}

func (r *DefaultPaymentRepository) ListTransactions(ctx context.Context, filter domain.PaymentFilter) ([]*domain.PaymentTransaction, int64, error) {
	if (filter.GroupID != "" && !validID(filter.GroupID)) || (filter.OfferingID != "" && !validID(filter.OfferingID)) {
		return nil, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.PaymentTransactionModel{}).
		Where("company_id = ? AND state = ?", filter.CompanyID, active)
	if filter.GroupID != "" {
		query = query.Where("group_id = ?", filter.GroupID)
	}
	if filter.OfferingID != "" {
		query = query.Where("offering_id = ?", filter.OfferingID)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}
	var paymentModels []models.PaymentTransactionModel
	if err := pageQuery(query.Order("transaction_date, created_at"), filter.Page, filter.Limit).
		Find(&paymentModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find payment transactions: %w", err)
	}
	payments := make([]*domain.PaymentTransaction, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments, total, nil
}
