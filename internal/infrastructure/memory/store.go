// Package memory is an in-process LedgerStore. A transaction works on a
// private copy of the committed state and swaps it in on Commit; write
// transactions are serialised.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
)

var errTxDone = errors.New("transaction already committed or rolled back")

type state struct {
	offerings       map[string]domain.Offering
	groups          map[string]domain.Group
	clients         map[string]domain.Client
	clientHistories []domain.ClientDeleteHistory
	remarks         map[string]domain.Remark
	masters         map[string]domain.OrderMaster
	lines           map[string]domain.OrderLine
	units           map[string]domain.AllocationUnit
	histories       map[string]domain.DeleteHistory
	masterSnaps     []domain.MasterSnapshot
	lineSnaps       []domain.LineSnapshot
	unitSnaps       []domain.UnitSnapshot
	payments        map[string]domain.PaymentTransaction

	// rank keeps insertion order for deterministic listings.
	rank map[string]int64
	next int64
}

func newState() *state {
	return &state{
		offerings: map[string]domain.Offering{},
		groups:    map[string]domain.Group{},
		clients:   map[string]domain.Client{},
		remarks:   map[string]domain.Remark{},
		masters:   map[string]domain.OrderMaster{},
		lines:     map[string]domain.OrderLine{},
		units:     map[string]domain.AllocationUnit{},
		histories: map[string]domain.DeleteHistory{},
		payments:  map[string]domain.PaymentTransaction{},
		rank:      map[string]int64{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the containers. Stored values are replaced wholesale on every
// write, never mutated in place, so sharing them between copies is safe.
func (s *state) clone() *state {
	return &state{
		offerings:       cloneMap(s.offerings),
		groups:          cloneMap(s.groups),
		clients:         cloneMap(s.clients),
		clientHistories: append([]domain.ClientDeleteHistory(nil), s.clientHistories...),
		remarks:         cloneMap(s.remarks),
		masters:         cloneMap(s.masters),
		lines:           cloneMap(s.lines),
		units:           cloneMap(s.units),
		histories:       cloneMap(s.histories),
		masterSnaps:     append([]domain.MasterSnapshot(nil), s.masterSnaps...),
		lineSnaps:       append([]domain.LineSnapshot(nil), s.lineSnaps...),
		unitSnaps:       append([]domain.UnitSnapshot(nil), s.unitSnaps...),
		payments:        cloneMap(s.payments),
		rank:            cloneMap(s.rank),
		next:            s.next,
	}
}

func (s *state) track(id string) {
	if _, ok := s.rank[id]; ok {
		return
	}
	s.next++
	s.rank[id] = s.next
}

// sortByRank orders items by insertion.
func sortByRank[T any](s *state, items []T, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return s.rank[id(items[i])] < s.rank[id(items[j])]
	})
}

type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type repos struct {
	offerings *offeringRepo
	groups    *groupRepo
	clients   *clientRepo
	remarks   *remarkRepo
	orders    *orderRepo
	archives  *archiveRepo
	payments  *paymentRepo
}

func newRepos(a access) repos {
	return repos{
		offerings: &offeringRepo{a: a},
		groups:    &groupRepo{a: a},
		clients:   &clientRepo{a: a},
		remarks:   &remarkRepo{a: a},
		orders:    &orderRepo{a: a},
		archives:  &archiveRepo{a: a},
		payments:  &paymentRepo{a: a},
	}
}

func (r repos) Offerings() domain.OfferingRepository { return r.offerings }
func (r repos) Groups() domain.GroupRepository       { return r.groups }
func (r repos) Clients() domain.ClientRepository     { return r.clients }
func (r repos) Remarks() domain.RemarkRepository     { return r.remarks }
func (r repos) Orders() domain.OrderRepository       { return r.orders }
func (r repos) Archives() domain.ArchiveRepository   { return r.archives }
func (r repos) Payments() domain.PaymentRepository   { return r.payments }

var _ domain.LedgerStore = (*Store)(nil)

type Store struct {
	repos
	writeMu sync.Mutex
	mu      sync.RWMutex
	st      *state
}

func NewStore() *Store {
	s := &Store{st: newState()}
	s.repos = newRepos(s)
	return s
}

func (s *Store) BeginTx(ctx context.Context) (domain.LedgerTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.begin(), nil
}

func (s *Store) begin() *Tx {
	s.writeMu.Lock()
	s.mu.RLock()
	st := s.st.clone()
	s.mu.RUnlock()
	tx := &Tx{store: s, st: st}
	tx.repos = newRepos(tx)
	return tx
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write runs a single statement outside an explicit transaction.
func (s *Store) write(fn func(st *state) error) error {
	tx := s.begin()
	if err := fn(tx.st); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type Tx struct {
	repos
	store *Store
	st    *state
	done  bool
}

func (t *Tx) read(fn func(st *state) error) error {
	if t.done {
		return errTxDone
	}
	return fn(t.st)
}

func (t *Tx) write(fn func(st *state) error) error {
	if t.done {
		return errTxDone
	}
	return fn(t.st)
}

func (t *Tx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.st = t.st
	t.store.mu.Unlock()
	t.store.writeMu.Unlock()
	return nil
}

func (t *Tx) Rollback() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.writeMu.Unlock()
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
