package domain

import (
	"context"
	"time"
)

type Client struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"company_id"`
	PAN        string     `json:"pan"`
	Name       string     `json:"name"`
	GroupID    string     `json:"group_id"`
	ClientDPID string     `json:"client_dp_id"`
	State      Lifecycle  `json:"state"`
	CreatedBy  string     `json:"created_by"`
	DeletedBy  string     `json:"deleted_by"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ClientDeleteHistory struct {
	ID                  string               `json:"id"`
	CompanyID           string               `json:"company_id"`
	DeletedBy           string               `json:"deleted_by"`
	DeletedAt           time.Time            `json:"deleted_at"`
	TotalClientsDeleted int                  `json:"total_clients_deleted"`
	Remark              string               `json:"remark"`
	Details             []ClientDeleteDetail `json:"details,omitempty"`
}

type ClientDeleteDetail struct {
	HistoryID  string `json:"history_id"`
	ClientID   string `json:"client_id"`
	PAN        string `json:"pan"`
	Name       string `json:"name"`
	GroupID    string `json:"group_id"`
	ClientDPID string `json:"client_dp_id"`
}

type ClientFilter struct {
	CompanyID string
	GroupID   string
	PAN       string
	Page      int
	Limit     int
}

type ClientRepository interface {
	CreateClient(ctx context.Context, client *Client) error
	UpdateClient(ctx context.Context, client *Client) error
	GetClientByID(ctx context.Context, companyID, clientID string) (*Client, error)
	FindClientByPAN(ctx context.Context, companyID, pan string) (*Client, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]*Client, int64, error)
	MarkClientsDeleted(ctx context.Context, ids []string, actor string, at time.Time) error
	CreateClientDeleteHistory(ctx context.Context, history *ClientDeleteHistory) error
	ListClientDeleteHistories(ctx context.Context, filter HistoryFilter) ([]*ClientDeleteHistory, int64, error)
}
