package mappers

import (
	"sort"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
)

func ToDomainMaster(model *models.OrderMasterModel) *domain.OrderMaster {
	master := &domain.OrderMaster{
		ID:         model.ID,
		CompanyID:  model.CompanyID,
		OfferingID: model.OfferingID,
		PlacedBy:   model.PlacedBy,
		PlacedAt:   model.PlacedAt,
		IsActive:   model.IsActive,
		State:      domain.Lifecycle(model.State),
		DeletedBy:  model.DeletedBy,
		DeletedAt:  model.DeletedAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
	for i := range model.Lines {
		master.Lines = append(master.Lines, ToDomainLine(&model.Lines[i]))
	}
	return master
}

func ToGORMMaster(master *domain.OrderMaster) *models.OrderMasterModel {
	model := &models.OrderMasterModel{
		ID:         master.ID,
		CompanyID:  master.CompanyID,
		OfferingID: master.OfferingID,
		PlacedBy:   master.PlacedBy,
		PlacedAt:   master.PlacedAt,
		IsActive:   master.IsActive,
		State:      string(master.State),
		DeletedBy:  master.DeletedBy,
		DeletedAt:  master.DeletedAt,
		CreatedAt:  master.CreatedAt,
		UpdatedAt:  master.UpdatedAt,
	}
	for _, line := range master.Lines {
		model.Lines = append(model.Lines, *ToGORMLine(line))
	}
	return model
}

// ToDomainLine restores remark order from the join rows' positions.
func ToDomainLine(model *models.OrderLineModel) *domain.OrderLine {
	line := &domain.OrderLine{
		ID:          model.ID,
		MasterID:    model.MasterID,
		CompanyID:   model.CompanyID,
		OfferingID:  model.OfferingID,
		GroupID:     model.GroupID,
		Direction:   domain.Direction(model.Direction),
		Category:    domain.Category(model.Category),
		Investor:    domain.InvestorTier(model.Investor),
		StrikePrice: model.StrikePrice,
		StrikeKind:  domain.StrikeKind(model.StrikeKind),
		Quantity:    model.Quantity,
		Rate:        model.Rate,
		OrderedAt:   model.OrderedAt,
		State:       domain.Lifecycle(model.State),
		CreatedBy:   model.CreatedBy,
		DeletedBy:   model.DeletedBy,
		DeletedAt:   model.DeletedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	remarks := append([]models.LineRemarkModel(nil), model.Remarks...)
	sort.Slice(remarks, func(i, j int) bool { return remarks[i].Position < remarks[j].Position })
	for _, r := range remarks {
		line.RemarkIDs = append(line.RemarkIDs, r.RemarkID)
	}
	for i := range model.Units {
		line.Units = append(line.Units, ToDomainUnit(&model.Units[i]))
	}
	return line
}

func ToGORMLine(line *domain.OrderLine) *models.OrderLineModel {
	model := &models.OrderLineModel{
		ID:          line.ID,
		MasterID:    line.MasterID,
		CompanyID:   line.CompanyID,
		OfferingID:  line.OfferingID,
		GroupID:     line.GroupID,
		Direction:   string(line.Direction),
		Category:    string(line.Category),
		Investor:    string(line.Investor),
		StrikePrice: line.StrikePrice,
		StrikeKind:  string(line.StrikeKind),
		Quantity:    line.Quantity,
		Rate:        line.Rate,
		OrderedAt:   line.OrderedAt,
		State:       string(line.State),
		CreatedBy:   line.CreatedBy,
		DeletedBy:   line.DeletedBy,
		DeletedAt:   line.DeletedAt,
		CreatedAt:   line.CreatedAt,
		UpdatedAt:   line.UpdatedAt,
	}
	model.Remarks = ToGORMLineRemarks(line.ID, line.RemarkIDs)
	for _, u := range line.Units {
		model.Units = append(model.Units, *ToGORMUnit(u))
	}
	return model
}

func ToGORMLineRemarks(lineID string, remarkIDs []string) []models.LineRemarkModel {
	out := make([]models.LineRemarkModel, 0, len(remarkIDs))
	for i, id := range remarkIDs {
		out = append(out, models.LineRemarkModel{LineID: lineID, RemarkID: id, Position: i})
	}
	return out
}

func ToDomainUnit(model *models.AllocationUnitModel) *domain.AllocationUnit {
	return &domain.AllocationUnit{
		ID:            model.ID,
		LineID:        model.LineID,
		CompanyID:     model.CompanyID,
		GroupID:       model.GroupID,
		Seq:           model.Seq,
		Quantity:      model.Quantity,
		PAN:           model.PAN,
		ClientName:    model.ClientName,
		DematNumber:   model.DematNumber,
		ApplicationNo: model.ApplicationNo,
		AllottedQty:   model.AllottedQty,
		State:         domain.Lifecycle(model.State),
		DeletedBy:     model.DeletedBy,
		DeletedAt:     model.DeletedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMUnit(unit *domain.AllocationUnit) *models.AllocationUnitModel {
	return &models.AllocationUnitModel{
		ID:            unit.ID,
		LineID:        unit.LineID,
		CompanyID:     unit.CompanyID,
		GroupID:       unit.GroupID,
		Seq:           unit.Seq,
		Quantity:      unit.Quantity,
		PAN:           unit.PAN,
		ClientName:    unit.ClientName,
		DematNumber:   unit.DematNumber,
		ApplicationNo: unit.ApplicationNo,
		AllottedQty:   unit.AllottedQty,
		State:         string(unit.State),
		DeletedBy:     unit.DeletedBy,
		DeletedAt:     unit.DeletedAt,
		CreatedAt:     unit.CreatedAt,
		UpdatedAt:     unit.UpdatedAt,
	}
}
