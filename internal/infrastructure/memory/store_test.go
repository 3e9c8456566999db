package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
)

const company = "company-1"

func seedOffering(t *testing.T, repos domain.Repositories, id string) {
	t.Helper()
	err := repos.Offerings().CreateOffering(context.Background(), &domain.Offering{
		ID:        id,
		CompanyID: company,
		Name:      "Offering " + id,
		State:     domain.LifecycleActive,
	})
	if err != nil {
		t.Fatalf("CreateOffering: %v", err)
	}
}

func TestTx_WritesInvisibleUntilCommit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	seedOffering(t, tx, "o1")

	if _, err := tx.Offerings().GetOfferingByID(ctx, company, "o1"); err != nil {
		t.Fatalf("tx should read its own write: %v", err)
	}
	if _, err := s.Offerings().GetOfferingByID(ctx, company, "o1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("uncommitted write leaked: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := s.Offerings().GetOfferingByID(ctx, company, "o1"); err != nil {
		t.Fatalf("committed write missing: %v", err)
	}
}

func TestTx_RollbackDiscards(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	tx, _ := s.BeginTx(ctx)
	seedOffering(t, tx, "o1")
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if _, err := s.Offerings().GetOfferingByID(ctx, company, "o1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("rolled back write visible: %v", err)
	}
	if err := tx.Commit(); !errors.Is(err, errTxDone) {
		t.Fatalf("commit after rollback: expected errTxDone, got %v", err)
	}
	if _, err := tx.Offerings().GetOfferingByID(ctx, company, "o1"); !errors.Is(err, errTxDone) {
		t.Fatalf("read after rollback: expected errTxDone, got %v", err)
	}

	// the write lock must have been released
	seedOffering(t, s, "o2")
}

func TestTx_SerializesWriters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, _ := s.BeginTx(ctx)
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		second, err := s.BeginTx(ctx)
		if err == nil {
			_ = second.Rollback()
		}
		close(done)
	}()
	<-started
	select {
	case <-done:
		t.Fatal("second writer began while the first was open")
	case <-time.After(50 * time.Millisecond):
	}
	_ = first.Rollback()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second writer never began")
	}
}

func TestBeginTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore().BeginTx(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrders_UnitsSortedAndDeletionCascadesToListings(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()
	seedOffering(t, s, "o1")

	line := &domain.OrderLine{ID: "l1", MasterID: "m1", CompanyID: company, OfferingID: "o1", GroupID: "g1", Quantity: 3, State: domain.LifecycleActive}
	for _, seq := range []int{3, 1, 2} {
		line.Units = append(line.Units, &domain.AllocationUnit{
			ID: fmt.Sprintf("u%d", seq), LineID: "l1", CompanyID: company, GroupID: "g1", Seq: seq, Quantity: 1, State: domain.LifecycleActive,
		})
	}
	master := &domain.OrderMaster{ID: "m1", CompanyID: company, OfferingID: "o1", IsActive: true, State: domain.LifecycleActive, Lines: []*domain.OrderLine{line}}
	if err := s.Orders().CreateMaster(ctx, master); err != nil {
		t.Fatalf("CreateMaster: %v", err)
	}

	got, err := s.Orders().GetLineByID(ctx, company, "l1")
	if err != nil {
		t.Fatalf("GetLineByID: %v", err)
	}
	for i, u := range got.Units {
		if u.Seq != i+1 {
			t.Fatalf("units not sorted by seq: %d at %d", u.Seq, i)
		}
	}

	got.Units[0].PAN = "MUTATED"
	again, _ := s.Orders().GetLineByID(ctx, company, "l1")
	if again.Units[0].PAN != "" {
		t.Fatal("returned unit aliases stored state")
	}

	if err := s.Orders().MarkLineDeleted(ctx, "l1", "tester", now); err != nil {
		t.Fatalf("MarkLineDeleted: %v", err)
	}
	rows, err := s.Orders().ListActiveUnits(ctx, domain.UnitFilter{CompanyID: company, OfferingID: "o1"})
	if err != nil || len(rows) != 0 {
		t.Fatalf("deleted line still lists %d units (%v)", len(rows), err)
	}
	if n, _ := s.Orders().CountActiveLines(ctx, "m1"); n != 0 {
		t.Fatalf("expected 0 active lines, got %d", n)
	}
}

func TestOrders_RemoveUnitsKeepsFilledUnits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedOffering(t, s, "o1")

	line := &domain.OrderLine{ID: "l1", MasterID: "m1", CompanyID: company, OfferingID: "o1", GroupID: "g1", Quantity: 2, State: domain.LifecycleActive}
	for seq := 1; seq <= 2; seq++ {
		line.Units = append(line.Units, &domain.AllocationUnit{
			ID: fmt.Sprintf("u%d", seq), LineID: "l1", CompanyID: company, GroupID: "g1", Seq: seq, Quantity: 1, State: domain.LifecycleActive,
		})
	}
	master := &domain.OrderMaster{ID: "m1", CompanyID: company, OfferingID: "o1", IsActive: true, State: domain.LifecycleActive, Lines: []*domain.OrderLine{line}}
	if err := s.Orders().CreateMaster(ctx, master); err != nil {
		t.Fatalf("CreateMaster: %v", err)
	}
	filled := &domain.AllocationUnit{ID: "u2", PAN: "ABCDE1234F", ClientName: "Client"}
	if err := s.Orders().UpdateUnitDetails(ctx, filled); err != nil {
		t.Fatalf("UpdateUnitDetails: %v", err)
	}

	tests := []struct {
		name string
		ids  []string
		want error
	}{
		{"filled unit refused", []string{"u1", "u2"}, domain.ErrAllocatedUnitsExist},
		{"missing unit", []string{"u9"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Orders().RemoveUnits(ctx, tt.ids); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			got, _ := s.Orders().GetUnitsByIDs(ctx, company, []string{"u1", "u2"})
			if len(got) != 2 {
				t.Fatalf("rejected removal dropped units: %d left", len(got))
			}
		})
	}

	if err := s.Orders().RemoveUnits(ctx, []string{"u1"}); err != nil {
		t.Fatalf("RemoveUnits unfilled: %v", err)
	}
	got, _ := s.Orders().GetUnitsByIDs(ctx, company, []string{"u1", "u2"})
	if len(got) != 1 || got[0].ID != "u2" {
		t.Fatalf("expected only the filled unit to remain, got %d", len(got))
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3}
	if got := paginate(items, 2, 2); len(got) != 1 || got[0] != 3 {
		t.Fatalf("page 2: %v", got)
	}
	if got := paginate(items, 0, 0); len(got) != 3 {
		t.Fatalf("no limit: %v", got)
	}
}
