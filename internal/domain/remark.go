package domain

import (
	"context"
	"time"
)

type Remark struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	OfferingID string    `json:"offering_id"`
	Name       string    `json:"name"`
	State      Lifecycle `json:"state"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type RemarkRepository interface {
	CreateRemark(ctx context.Context, remark *Remark) error
	FindRemarkByName(ctx context.Context, companyID, offeringID, name string) (*Remark, error)
	GetRemarksByIDs(ctx context.Context, ids []string) ([]*Remark, error)
	ListRemarks(ctx context.Context, companyID, offeringID string) ([]*Remark, error)
}
