package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/memory"
	archivedto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/archive"
)

var errSnapshotWrite = errors.New("snapshot write failed")

// failingStore breaks line snapshot writes inside transactions.
type failingStore struct {
	*memory.Store
}

func (s failingStore) BeginTx(ctx context.Context) (domain.LedgerTx, error) {
	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return failingTx{tx}, nil
}

type failingTx struct {
	domain.LedgerTx
}

func (t failingTx) Archives() domain.ArchiveRepository {
	return failingArchives{t.LedgerTx.Archives()}
}

type failingArchives struct {
	domain.ArchiveRepository
}

func (failingArchives) SaveLineSnapshots(context.Context, []domain.LineSnapshot) error {
	return errSnapshotWrite
}

func newTestArchive(store domain.LedgerStore) *DefaultArchiveUsecase {
	uc := NewDefaultArchiveUsecase(store, nil, nil)
	uc.Now = clock
	return uc
}

func TestDeleteAllForOffering_SnapshotsAndDeletes(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	other := env.offering(t, "Other IPO")
	g := env.group(t, "Alpha")
	env.place(t, o.ID, g.ID,
		kostak(domain.DirectionBuy, domain.InvestorRetail, 2, 100),
		kostak(domain.DirectionSell, domain.InvestorRetail, 1, 100),
	)
	env.place(t, o.ID, g.ID, kostak(domain.DirectionBuy, domain.InvestorSHNI, 3, 90))
	kept := env.place(t, other.ID, g.ID, kostak(domain.DirectionBuy, domain.InvestorRetail, 1, 50))
	ctx := context.Background()

	uc := newTestArchive(env.store)
	out, err := uc.DeleteAllForOffering(ctx, &archivedto.ArchiveInput{
		CompanyID:  testCompany,
		OfferingID: o.ID,
		Actor:      "admin",
		Remark:     "listing day",
	})
	if err != nil {
		t.Fatalf("DeleteAllForOffering: %v", err)
	}
	h := out.History
	if h.TotalMasters != 2 || h.TotalLines != 3 || h.TotalUnits != 6 {
		t.Fatalf("unexpected totals %+v", h)
	}
	if n, _ := env.store.Orders().CountActiveLinesByOffering(ctx, testCompany, o.ID); n != 0 {
		t.Fatalf("%d lines still active after archive", n)
	}
	if n, _ := env.store.Orders().CountActiveLinesByOffering(ctx, testCompany, other.ID); n != 1 {
		t.Fatalf("other offering lost lines: %d active", n)
	}
	if _, err := env.store.Orders().GetMasterByID(ctx, testCompany, kept.ID); err != nil {
		t.Fatalf("other offering master: %v", err)
	}

	archive, err := uc.GetArchive(ctx, testCompany, h.ID)
	if err != nil {
		t.Fatalf("GetArchive: %v", err)
	}
	if len(archive.Masters) != 2 || len(archive.Lines) != 3 || len(archive.Units) != 6 {
		t.Fatalf("archive incomplete: %d masters %d lines %d units", len(archive.Masters), len(archive.Lines), len(archive.Units))
	}
	if archive.History.Remark != "listing day" || archive.History.DeletedBy != "admin" {
		t.Fatalf("unexpected history %+v", archive.History)
	}

	if _, err := uc.DeleteAllForOffering(ctx, &archivedto.ArchiveInput{CompanyID: testCompany, OfferingID: o.ID}); !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("second run: expected ErrEmptyBatch, got %v", err)
	}
}

func TestDeleteAllForOffering_FailureLeavesNothingBehind(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	g := env.group(t, "Alpha")
	m := env.place(t, o.ID, g.ID, kostak(domain.DirectionBuy, domain.InvestorRetail, 3, 100))
	ctx := context.Background()

	uc := newTestArchive(failingStore{env.store})
	_, err := uc.DeleteAllForOffering(ctx, &archivedto.ArchiveInput{CompanyID: testCompany, OfferingID: o.ID, Actor: "admin"})
	if !errors.Is(err, errSnapshotWrite) {
		t.Fatalf("expected snapshot failure, got %v", err)
	}

	if env.store.HistoryCount() != 0 {
		t.Fatalf("history persisted despite failure")
	}
	if masters, lines, units := env.store.SnapshotCounts(); masters+lines+units != 0 {
		t.Fatalf("partial snapshots persisted: %d/%d/%d", masters, lines, units)
	}
	line := env.line(t, m.Lines[0].ID)
	if len(line.Units) != 3 {
		t.Fatalf("expected 3 active units, got %d", len(line.Units))
	}

	out, err := newTestArchive(env.store).DeleteAllForOffering(ctx, &archivedto.ArchiveInput{CompanyID: testCompany, OfferingID: o.ID, Actor: "admin"})
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if h := out.History; h.TotalMasters != 1 || h.TotalLines != 1 || h.TotalUnits != 3 {
		t.Fatalf("rerun archived %d/%d/%d, want 1/1/3", h.TotalMasters, h.TotalLines, h.TotalUnits)
	}
	if masters, lines, units := env.store.SnapshotCounts(); masters != 1 || lines != 1 || units != 3 {
		t.Fatalf("rerun snapshots %d/%d/%d, want 1/1/3", masters, lines, units)
	}
}

func TestListHistories_Paginates(t *testing.T) {
	env := newLedgerEnv()
	g := env.group(t, "Alpha")
	uc := newTestArchive(env.store)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		o := env.offering(t, name)
		env.place(t, o.ID, g.ID, kostak(domain.DirectionBuy, domain.InvestorRetail, 1, 1))
		if _, err := uc.DeleteAllForOffering(ctx, &archivedto.ArchiveInput{CompanyID: testCompany, OfferingID: o.ID}); err != nil {
			t.Fatalf("archive %s: %v", name, err)
		}
	}

	out, err := uc.ListHistories(ctx, &archivedto.ListHistoriesInput{CompanyID: testCompany, Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListHistories: %v", err)
	}
	if len(out.Histories) != 1 {
		t.Fatalf("expected 1 history on page 2, got %d", len(out.Histories))
	}
	p := out.Pagination
	if p.TotalItems != 3 || p.TotalPages != 2 || p.CurrentPage != 2 || p.ItemsPerPage != 2 {
		t.Fatalf("unexpected pagination %+v", p)
	}
}
