package mappers

import (
	"strings"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
)

func ToDomainDeleteHistory(model *models.DeleteHistoryModel) *domain.DeleteHistory {
	return &domain.DeleteHistory{
		ID:           model.ID,
		CompanyID:    model.CompanyID,
		OfferingID:   model.OfferingID,
		DeletedBy:    model.DeletedBy,
		DeletedAt:    model.DeletedAt,
		TotalMasters: model.TotalMasters,
		TotalLines:   model.TotalLines,
		TotalUnits:   model.TotalUnits,
		Remark:       model.Remark,
	}
}

func ToGORMDeleteHistory(history *domain.DeleteHistory) *models.DeleteHistoryModel {
	return &models.DeleteHistoryModel{
		ID:           history.ID,
		CompanyID:    history.CompanyID,
		OfferingID:   history.OfferingID,
		DeletedBy:    history.DeletedBy,
		DeletedAt:    history.DeletedAt,
		TotalMasters: history.TotalMasters,
		TotalLines:   history.TotalLines,
		TotalUnits:   history.TotalUnits,
		Remark:       history.Remark,
	}
}

func ToDomainMasterSnapshot(model *models.MasterSnapshotModel) domain.MasterSnapshot {
	return domain.MasterSnapshot{
		HistoryID:  model.HistoryID,
		MasterID:   model.MasterID,
		CompanyID:  model.CompanyID,
		OfferingID: model.OfferingID,
		PlacedBy:   model.PlacedBy,
		PlacedAt:   model.PlacedAt,
		IsActive:   model.IsActive,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMMasterSnapshot(s domain.MasterSnapshot) models.MasterSnapshotModel {
	return models.MasterSnapshotModel{
		HistoryID:  s.HistoryID,
		MasterID:   s.MasterID,
		CompanyID:  s.CompanyID,
		OfferingID: s.OfferingID,
		PlacedBy:   s.PlacedBy,
		PlacedAt:   s.PlacedAt,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
	}
}

func ToDomainLineSnapshot(model *models.LineSnapshotModel) domain.LineSnapshot {
	s := domain.LineSnapshot{
		HistoryID:   model.HistoryID,
		LineID:      model.LineID,
		MasterID:    model.MasterID,
		GroupID:     model.GroupID,
		Direction:   domain.Direction(model.Direction),
		Category:    domain.Category(model.Category),
		Investor:    domain.InvestorTier(model.Investor),
		StrikePrice: model.StrikePrice,
		StrikeKind:  domain.StrikeKind(model.StrikeKind),
		Quantity:    model.Quantity,
		Rate:        model.Rate,
		OrderedAt:   model.OrderedAt,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
	}
	if model.RemarkIDs != "" {
		s.RemarkIDs = strings.Split(model.RemarkIDs, ",")
	}
	return s
}

func ToGORMLineSnapshot(s domain.LineSnapshot) models.LineSnapshotModel {
	return models.LineSnapshotModel{
		HistoryID:   s.HistoryID,
		LineID:      s.LineID,
		MasterID:    s.MasterID,
		GroupID:     s.GroupID,
		Direction:   string(s.Direction),
		Category:    string(s.Category),
		Investor:    string(s.Investor),
		StrikePrice: s.StrikePrice,
		StrikeKind:  string(s.StrikeKind),
		Quantity:    s.Quantity,
		Rate:        s.Rate,
		RemarkIDs:   strings.Join(s.RemarkIDs, ","),
		OrderedAt:   s.OrderedAt,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
	}
}

func ToDomainUnitSnapshot(model *models.UnitSnapshotModel) domain.UnitSnapshot {
	return domain.UnitSnapshot{
		HistoryID:     model.HistoryID,
		UnitID:        model.UnitID,
		LineID:        model.LineID,
		GroupID:       model.GroupID,
		Seq:           model.Seq,
		Quantity:      model.Quantity,
		PAN:           model.PAN,
		ClientName:    model.ClientName,
		DematNumber:   model.DematNumber,
		ApplicationNo: model.ApplicationNo,
		AllottedQty:   model.AllottedQty,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMUnitSnapshot(s domain.UnitSnapshot) models.UnitSnapshotModel {
	return models.UnitSnapshotModel{
		HistoryID:     s.HistoryID,
		UnitID:        s.UnitID,
		LineID:        s.LineID,
		GroupID:       s.GroupID,
		Seq:           s.Seq,
		Quantity:      s.Quantity,
		PAN:           s.PAN,
		ClientName:    s.ClientName,
		DematNumber:   s.DematNumber,
		ApplicationNo: s.ApplicationNo,
		AllottedQty:   s.AllottedQty,
		CreatedAt:     s.CreatedAt,
	}
}
