package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/memory"
	allocationdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/allocation"
	registrydto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/registry"
	"github.com/shopspring/decimal"
)

const testCompany = "company-1"

var fixedNow = time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// recordingPublisher collects published events; publishing is asynchronous.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
	ch     chan struct{}
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{ch: make(chan struct{}, 64)}
}

func (p *recordingPublisher) PublishLedgerEvent(event domain.LedgerEvent) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	p.ch <- struct{}{}
	return nil
}

func (p *recordingPublisher) waitFor(t *testing.T, n int) []domain.LedgerEvent {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LedgerEvent(nil), p.events...)
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (a *recordingAudit) LogRejected(_ context.Context, entry domain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *recordingAudit) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

type ledgerEnv struct {
	store      *memory.Store
	allocation *DefaultAllocationUsecase
	offerings  *DefaultOfferingUsecase
	groups     *DefaultGroupUsecase
	clients    *DefaultClientUsecase
	remarks    *DefaultRemarkUsecase
	audit      *recordingAudit
}

func newLedgerEnv() *ledgerEnv {
	store := memory.NewStore()
	audit := &recordingAudit{}
	env := &ledgerEnv{
		store:      store,
		allocation: NewDefaultAllocationUsecase(store, nil, audit, nil),
		offerings:  NewDefaultOfferingUsecase(store),
		groups:     NewDefaultGroupUsecase(store),
		clients:    NewDefaultClientUsecase(store),
		remarks:    NewDefaultRemarkUsecase(store),
		audit:      audit,
	}
	env.allocation.Now = clock
	env.offerings.Now = clock
	env.groups.Now = clock
	env.clients.Now = clock
	env.remarks.Now = clock
	return env
}

func (env *ledgerEnv) offering(t *testing.T, name string) *domain.Offering {
	t.Helper()
	o, err := env.offerings.CreateOffering(context.Background(), &registrydto.OfferingInput{
		CompanyID:        testCompany,
		Actor:            "admin",
		Name:             name,
		UpperPriceBand:   decimal.NewFromInt(100),
		OpenPrice:        decimal.NewFromInt(95),
		RetailPercentage: 35,
		SHNIPercentage:   15,
		BHNIPercentage:   50,
	})
	if err != nil {
		t.Fatalf("failed to create offering %s: %v", name, err)
	}
	return o
}

func (env *ledgerEnv) group(t *testing.T, name string) *domain.Group {
	t.Helper()
	g, err := env.groups.CreateGroup(context.Background(), &registrydto.GroupInput{
		CompanyID: testCompany,
		Actor:     "admin",
		Name:      name,
	})
	if err != nil {
		t.Fatalf("failed to create group %s: %v", name, err)
	}
	return g
}

func (env *ledgerEnv) place(t *testing.T, offeringID, groupID string, lines ...allocationdto.LineSpec) *domain.OrderMaster {
	t.Helper()
	m, err := env.allocation.Place(context.Background(), &allocationdto.PlaceOrderInput{
		CompanyID:  testCompany,
		Actor:      "dealer",
		OfferingID: offeringID,
		GroupID:    groupID,
		Lines:      lines,
	})
	if err != nil {
		t.Fatalf("failed to place order: %v", err)
	}
	return m
}

func kostak(dir domain.Direction, tier domain.InvestorTier, qty int, rate int64) allocationdto.LineSpec {
	return allocationdto.LineSpec{
		Direction: dir,
		Category:  domain.CategoryKostak,
		Investor:  tier,
		Quantity:  qty,
		Rate:      decimal.NewFromInt(rate),
	}
}

func option(dir domain.Direction, cat domain.Category, strike string, qty int, rate int64) allocationdto.LineSpec {
	return allocationdto.LineSpec{
		Direction:   dir,
		Category:    cat,
		Investor:    domain.InvestorOptions,
		StrikePrice: strike,
		Quantity:    qty,
		Rate:        decimal.NewFromInt(rate),
	}
}

func (env *ledgerEnv) line(t *testing.T, lineID string) *domain.OrderLine {
	t.Helper()
	l, err := env.store.Orders().GetLineByID(context.Background(), testCompany, lineID)
	if err != nil {
		t.Fatalf("failed to load line %s: %v", lineID, err)
	}
	return l
}

func intPtr(v int) *int { return &v }
