package domain

import (
	"context"
	"time"
)

// Group is an intermediary placing orders on behalf of its clients.
type Group struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	OfferingID *string   `json:"offering_id,omitempty"`
	Name       string    `json:"name"`
	Mobile     string    `json:"mobile"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	Remark     string    `json:"remark"`
	State      Lifecycle `json:"state"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type GroupFilter struct {
	CompanyID  string
	OfferingID *string
	Search     string
	Page       int
	Limit      int
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	GetGroupByID(ctx context.Context, companyID, groupID string) (*Group, error)
	// FindGroupByName matches active groups case-insensitively.
	FindGroupByName(ctx context.Context, companyID, name string) (*Group, error)
	GetGroupsByIDs(ctx context.Context, ids []string) ([]*Group, error)
	ListGroups(ctx context.Context, filter GroupFilter) ([]*Group, int64, error)
}
