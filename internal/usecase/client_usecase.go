package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	registrydto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/registry"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type ClientUsecase interface {
	CreateClient(ctx context.Context, input *registrydto.ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, input *registrydto.UpdateClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, companyID, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, int64, error)
	DeleteClient(ctx context.Context, companyID, clientID, actor string) error
	DeleteAllClients(ctx context.Context, input *registrydto.DeleteAllClientsInput) (*domain.ClientDeleteHistory, error)
	ListDeleteHistories(ctx context.Context, filter domain.HistoryFilter) ([]*domain.ClientDeleteHistory, int64, error)
}

type DefaultClientUsecase struct {
	Store domain.LedgerStore
	Now   func() time.Time
}

func NewDefaultClientUsecase(store domain.LedgerStore) *DefaultClientUsecase {
	return &DefaultClientUsecase{Store: store, Now: time.Now}
}

func normalizeClient(input *registrydto.ClientInput) (pan, name string, err error) {
	pan = strings.ToUpper(strings.TrimSpace(input.PAN))
	name = strings.TrimSpace(input.Name)
	if pan == "" {
		return "", "", domain.NewValidationError("pan", "is required")
	}
	if len(pan) > maxPANLength {
		return "", "", domain.NewValidationError("pan", "must be at most 10 characters")
	}
	if name == "" {
		return "", "", domain.NewValidationError("name", "is required")
	}
	return pan, name, nil
}

func ensureUniquePAN(ctx context.Context, repo domain.ClientRepository, companyID, pan, selfID string) error {
	existing, err := repo.FindClientByPAN(ctx, companyID, pan)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up client pan: %w", err)
	case existing.ID == selfID:
		return nil
	default:
		return fmt.Errorf("client with pan %s: %w", pan, domain.ErrConflict)
	}
}

func (uc *DefaultClientUsecase) CreateClient(ctx context.Context, input *registrydto.ClientInput) (*domain.Client, error) {
	pan, name, err := normalizeClient(input)
	if err != nil {
		return nil, err
	}
	now := uc.Now()
	client := &domain.Client{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		PAN:        pan,
		Name:       name,
		GroupID:    input.GroupID,
		ClientDPID: strings.TrimSpace(input.ClientDPID),
		State:      domain.LifecycleActive,
		CreatedBy:  input.Actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		if err := ensureUniquePAN(ctx, tx.Clients(), input.CompanyID, pan, ""); err != nil {
			return err
		}
		if input.GroupID != "" {
			if _, err := tx.Groups().GetGroupByID(ctx, input.CompanyID, input.GroupID); err != nil {
				return err
			}
		}
		if err := tx.Clients().CreateClient(ctx, client); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (uc *DefaultClientUsecase) UpdateClient(ctx context.Context, input *registrydto.UpdateClientInput) (*domain.Client, error) {
	pan, name, err := normalizeClient(&input.ClientInput)
	if err != nil {
		return nil, err
	}
	var out *domain.Client
	err = withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		client, err := tx.Clients().GetClientByID(ctx, input.CompanyID, input.ClientID)
		if err != nil {
			return err
		}
		if err := ensureUniquePAN(ctx, tx.Clients(), input.CompanyID, pan, client.ID); err != nil {
			return err
		}
		if input.GroupID != "" && input.GroupID != client.GroupID {
			if _, err := tx.Groups().GetGroupByID(ctx, input.CompanyID, input.GroupID); err != nil {
				return err
			}
		}
		client.PAN = pan
		client.Name = name
		client.GroupID = input.GroupID
		client.ClientDPID = strings.TrimSpace(input.ClientDPID)
		client.UpdatedAt = uc.Now()
		if err := tx.Clients().UpdateClient(ctx, client); err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}
		out = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *DefaultClientUsecase) GetClient(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	return uc.Store.Clients().GetClientByID(ctx, companyID, clientID)
}

func (uc *DefaultClientUsecase) ListClients(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, int64, error) {
	return uc.Store.Clients().ListClients(ctx, filter)
}

func (uc *DefaultClientUsecase) DeleteClient(ctx context.Context, companyID, clientID, actor string) error {
	return withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		if _, err := tx.Clients().GetClientByID(ctx, companyID, clientID); err != nil {
			return err
		}
		if err := tx.Clients().MarkClientsDeleted(ctx, []string{clientID}, actor, uc.Now()); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		return nil
	})
}

// DeleteAllClients records every active client of the company in one
// history batch and flags them deleted.
func (uc *DefaultClientUsecase) DeleteAllClients(ctx context.Context, input *registrydto.DeleteAllClientsInput) (*domain.ClientDeleteHistory, error) {
	newID, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("failed to init history id generator: %w", err)
	}
	now := uc.Now()
	history := &domain.ClientDeleteHistory{
		ID:        newID(),
		CompanyID: input.CompanyID,
		DeletedBy: input.Actor,
		DeletedAt: now,
		Remark:    strings.TrimSpace(input.Remark),
	}
	err = withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		clients, _, err := tx.Clients().ListClients(ctx, domain.ClientFilter{CompanyID: input.CompanyID})
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}
		if len(clients) == 0 {
			return fmt.Errorf("%w: no clients to delete", domain.ErrEmptyBatch)
		}
		ids := make([]string, 0, len(clients))
		for _, c := range clients {
			ids = append(ids, c.ID)
			history.Details = append(history.Details, domain.ClientDeleteDetail{
				HistoryID:  history.ID,
				ClientID:   c.ID,
				PAN:        c.PAN,
				Name:       c.Name,
				GroupID:    c.GroupID,
				ClientDPID: c.ClientDPID,
			})
		}
		history.TotalClientsDeleted = len(ids)
		if err := tx.Clients().CreateClientDeleteHistory(ctx, history); err != nil {
			return fmt.Errorf("failed to create client delete history: %w", err)
		}
		if err := tx.Clients().MarkClientsDeleted(ctx, ids, input.Actor, now); err != nil {
			return fmt.Errorf("failed to delete clients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("clients deleted", "history_id", history.ID, "count", history.TotalClientsDeleted, "actor", input.Actor)
	return history, nil
}

func (uc *DefaultClientUsecase) ListDeleteHistories(ctx context.Context, filter domain.HistoryFilter) ([]*domain.ClientDeleteHistory, int64, error) {
	return uc.Store.Clients().ListClientDeleteHistories(ctx, filter)
}
