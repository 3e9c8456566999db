package mappers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
)

func ToDomainOffering(model *models.OfferingModel) *domain.Offering {
	return &domain.Offering{
		ID:               model.ID,
		CompanyID:        model.CompanyID,
		Name:             model.Name,
		Type:             model.Type,
		UpperPriceBand:   model.UpperPriceBand,
		OpenPrice:        model.OpenPrice,
		TotalSizeCr:      model.TotalSizeCr,
		RetailLotSize:    model.RetailLotSize,
		SHNILotSize:      model.SHNILotSize,
		BHNILotSize:      model.BHNILotSize,
		RetailPercentage: model.RetailPercentage,
		SHNIPercentage:   model.SHNIPercentage,
		BHNIPercentage:   model.BHNIPercentage,
		Remark:           model.Remark,
		State:            domain.Lifecycle(model.State),
		CreatedBy:        model.CreatedBy,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMOffering(offering *domain.Offering) *models.OfferingModel {
	return &models.OfferingModel{
		ID:               offering.ID,
		CompanyID:        offering.CompanyID,
		Name:             offering.Name,
		Type:             offering.Type,
		UpperPriceBand:   offering.UpperPriceBand,
		OpenPrice:        offering.OpenPrice,
		TotalSizeCr:      offering.TotalSizeCr,
		RetailLotSize:    offering.RetailLotSize,
		SHNILotSize:      offering.SHNILotSize,
		BHNILotSize:      offering.BHNILotSize,
		RetailPercentage: offering.RetailPercentage,
		SHNIPercentage:   offering.SHNIPercentage,
		BHNIPercentage:   offering.BHNIPercentage,
		Remark:           offering.Remark,
		State:            string(offering.State),
		CreatedBy:        offering.CreatedBy,
		CreatedAt:        offering.CreatedAt,
		UpdatedAt:        offering.UpdatedAt,
	}
}

func ToDomainGroup(model *models.GroupModel) *domain.Group {
	return &domain.Group{
		ID:         model.ID,
		CompanyID:  model.CompanyID,
		OfferingID: model.OfferingID,
		Name:       model.Name,
		Mobile:     model.Mobile,
		Email:      model.Email,
		Address:    model.Address,
		Remark:     model.Remark,
		State:      domain.Lifecycle(model.State),
		CreatedBy:  model.CreatedBy,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func ToGORMGroup(group *domain.Group) *models.GroupModel {
	return &models.GroupModel{
		ID:         group.ID,
		CompanyID:  group.CompanyID,
		OfferingID: group.OfferingID,
		Name:       group.Name,
		Mobile:     group.Mobile,
		Email:      group.Email,
		Address:    group.Address,
		Remark:     group.Remark,
		State:      string(group.State),
		CreatedBy:  group.CreatedBy,
		CreatedAt:  group.CreatedAt,
		UpdatedAt:  group.UpdatedAt,
	}
}

func ToDomainClient(model *models.ClientModel) *domain.Client {
	return &domain.Client{
		ID:         model.ID,
		CompanyID:  model.CompanyID,
		PAN:        model.PAN,
		Name:       model.Name,
		GroupID:    model.GroupID,
		ClientDPID: model.ClientDPID,
		State:      domain.Lifecycle(model.State),
		CreatedBy:  model.CreatedBy,
		DeletedBy:  model.DeletedBy,
		DeletedAt:  model.DeletedAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func ToGORMClient(client *domain.Client) *models.ClientModel {
	return &models.ClientModel{
		ID:         client.ID,
		CompanyID:  client.CompanyID,
		PAN:        client.PAN,
		Name:       client.Name,
		GroupID:    client.GroupID,
		ClientDPID: client.ClientDPID,
		State:      string(client.State),
		CreatedBy:  client.CreatedBy,
		DeletedBy:  client.DeletedBy,
		DeletedAt:  client.DeletedAt,
		CreatedAt:  client.CreatedAt,
		UpdatedAt:  client.UpdatedAt,
	}
}

func ToDomainClientDeleteHistory(model *models.ClientDeleteHistoryModel) *domain.ClientDeleteHistory {
	history := &domain.ClientDeleteHistory{
		ID:                  model.ID,
		CompanyID:           model.CompanyID,
		DeletedBy:           model.DeletedBy,
		DeletedAt:           model.DeletedAt,
		TotalClientsDeleted: model.TotalClientsDeleted,
		Remark:              model.Remark,
	}
	for _, d := range model.Details {
		history.Details = append(history.Details, domain.ClientDeleteDetail{
			HistoryID:  d.HistoryID,
			ClientID:   d.ClientID,
			PAN:        d.PAN,
			Name:       d.Name,
			GroupID:    d.GroupID,
			ClientDPID: d.ClientDPID,
		})
	}
	return history
}

func ToGORMClientDeleteHistory(history *domain.ClientDeleteHistory) *models.ClientDeleteHistoryModel {
	model := &models.ClientDeleteHistoryModel{
		ID:                  history.ID,
		CompanyID:           history.CompanyID,
		DeletedBy:           history.DeletedBy,
		DeletedAt:           history.DeletedAt,
		TotalClientsDeleted: history.TotalClientsDeleted,
		Remark:              history.Remark,
	}
	for _, d := range history.Details {
		model.Details = append(model.Details, models.ClientDeleteDetailModel{
			HistoryID:  history.ID,
			ClientID:   d.ClientID,
			PAN:        d.PAN,
			Name:       d.Name,
			GroupID:    d.GroupID,
			ClientDPID: d.ClientDPID,
		})
	}
	return model
}

func ToDomainRemark(model *models.RemarkModel) *domain.Remark {
	return &domain.Remark{
		ID:         model.ID,
		CompanyID:  model.CompanyID,
		OfferingID: model.OfferingID,
		Name:       model.Name,
		State:      domain.Lifecycle(model.State),
		CreatedBy:  model.CreatedBy,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMRemark(remark *domain.Remark) *models.RemarkModel {
	return &models.RemarkModel{
		ID:         remark.ID,
		CompanyID:  remark.CompanyID,
		OfferingID: remark.OfferingID,
		Name:       remark.Name,
		State:      string(remark.State),
		CreatedBy:  remark.CreatedBy,
		CreatedAt:  remark.CreatedAt,
	}
}
