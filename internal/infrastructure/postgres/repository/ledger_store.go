package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// invalidTextRepresentation is raised by postgres for a malformed uuid literal.
const invalidTextRepresentation = "22P02"

var _ domain.LedgerStore = (*DefaultLedgerStore)(nil)

type repositories struct {
	db *gorm.DB
}

func (r repositories) Offerings() domain.OfferingRepository {
	return NewDefaultOfferingRepository(r.db)
}
func (r repositories) Groups() domain.GroupRepository { return NewDefaultGroupRepository(r.db) }
func (r repositories) Clients() domain.ClientRepository {
	return NewDefaultClientRepository(r.db)
}
func (r repositories) Remarks() domain.RemarkRepository { return NewDefaultRemarkRepository(r.db) }
func (r repositories) Orders() domain.OrderRepository   { return NewDefaultOrderRepository(r.db) }
func (r repositories) Archives() domain.ArchiveRepository {
	return NewDefaultArchiveRepository(r.db)
}
func (r repositories) Payments() domain.PaymentRepository {
	return NewDefaultPaymentRepository(r.db)
}

// DefaultLedgerStore hands out repositories bound either to the pool or to
// one open transaction.
type DefaultLedgerStore struct {
	repositories
}

func NewDefaultLedgerStore(db *gorm.DB) *DefaultLedgerStore {
	return &DefaultLedgerStore{repositories{db: db}}
}

func (s *DefaultLedgerStore) BeginTx(ctx context.Context) (domain.LedgerTx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTx{repositories: repositories{db: tx}, tx: tx}, nil
}

type gormTx struct {
	repositories
	tx *gorm.DB
}

func (t *gormTx) Commit() error {
	return t.tx.Commit().Error
}

func (t *gormTx) Rollback() error {
	return t.tx.Rollback().Error
}

func malformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

// validID reports whether id can match a uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validIDs drops ids that cannot match a uuid column.
func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}

// notFound maps gorm's missing-row error, and a malformed id, onto the
// domain sentinel.
func notFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || malformedID(err) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %s: %w", entity, id, err)
}

// requireRows turns an update that touched nothing into ErrNotFound.
func requireRows(res *gorm.DB, entity, id string) error {
	if malformedID(res.Error) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	if res.Error != nil {
		return fmt.Errorf("failed to update %s %s: %w", entity, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

func pageQuery(q *gorm.DB, page, limit int) *gorm.DB {
	if limit <= 0 {
		return q
	}
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}
