package mappers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentTransactionModel) *domain.PaymentTransaction {
	return &domain.PaymentTransaction{
		ID:              model.ID,
		CompanyID:       model.CompanyID,
		GroupID:         model.GroupID,
		OfferingID:      model.OfferingID,
		AmountType:      domain.AmountType(model.AmountType),
		Amount:          model.Amount,
		Remark:          model.Remark,
		TransactionDate: model.TransactionDate,
		IsTransfer:      model.IsTransfer,
		TransferRef:     model.TransferRef,
		State:           domain.Lifecycle(model.State),
		CreatedBy:       model.CreatedBy,
		CreatedAt:       model.CreatedAt,
	}
}

func ToGORMPayment(tx *domain.PaymentTransaction) *models.PaymentTransactionModel {
	return &models.PaymentTransactionModel{
		ID:              tx.ID,
		CompanyID:       tx.CompanyID,
		GroupID:         tx.GroupID,
		OfferingID:      tx.OfferingID,
		AmountType:      string(tx.AmountType),
		Amount:          tx.Amount,
		Remark:          tx.Remark,
		TransactionDate: tx.TransactionDate,
		IsTransfer:      tx.IsTransfer,
		TransferRef:     tx.TransferRef,
		State:           string(tx.State),
		CreatedBy:       tx.CreatedBy,
		CreatedAt:       tx.CreatedAt,
	}
}
