package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	ingestdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/ingest"
)

func newTestIngest(env *ledgerEnv) *DefaultIngestUsecase {
	uc := NewDefaultIngestUsecase(env.store, nil, env.audit, nil)
	uc.Now = clock
	return uc
}

func uploadRowOf(group, dir, cat, investor, qty, rate, strike, remark string) []string {
	return []string{group, dir, cat, investor, qty, rate, strike, "2024-03-14", "10:15", remark}
}

func TestUpload_CreatesOneMasterWithGroupsAndRemarks(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	existing := env.group(t, "Alpha")
	uc := newTestIngest(env)

	out, err := uc.Upload(context.Background(), &ingestdto.UploadInput{
		CompanyID:  testCompany,
		Actor:      "dealer",
		OfferingID: o.ID,
		Rows: [][]string{
			uploadRowOf("alpha", "buy", "kostak", "retail", "3", "450", "", "hot, Hot ,late"),
			uploadRowOf("Gamma", "SELL", "Call", "Options", "2", "12.5", "650.00", "late"),
			uploadRowOf("gamma", "Buy", "Premium", "SHNI", "1", "80", "premium", ""),
		},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if out.Lines != 3 || out.Units != 6 || out.GroupsCreated != 1 || out.RemarksCreated != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.BatchRef == "" {
		t.Fatal("expected a batch reference")
	}

	master, err := env.store.Orders().GetMasterByID(context.Background(), testCompany, out.MasterID)
	if err != nil {
		t.Fatalf("GetMasterByID: %v", err)
	}
	if len(master.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(master.Lines))
	}
	byQty := map[int]*domain.OrderLine{}
	for _, l := range master.Lines {
		byQty[l.Quantity] = l
	}
	if l := byQty[3]; l.GroupID != existing.ID || len(l.RemarkIDs) != 2 || l.StrikeKind != domain.StrikeApplication {
		t.Fatalf("first row resolved wrong: %+v", l)
	}
	if l := byQty[2]; l.StrikePrice != "650" || l.Direction != domain.DirectionSell || l.GroupID == existing.ID {
		t.Fatalf("second row resolved wrong: %+v", l)
	}
	if byQty[1].GroupID != byQty[2].GroupID {
		t.Fatal("gamma rows should share one created group")
	}
	if byQty[1].StrikeKind != domain.StrikePremium {
		t.Fatalf("expected premium marker, got %q", byQty[1].StrikeKind)
	}
	if got := byQty[3].OrderedAt.Format("2006-01-02 15:04"); got != "2024-03-14 10:15" {
		t.Fatalf("unexpected ordered_at %s", got)
	}
}

func TestUpload_RepeatedNewGroupCreatedOnce(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	ctx := context.Background()

	out, err := newTestIngest(env).Upload(ctx, &ingestdto.UploadInput{
		CompanyID:  testCompany,
		Actor:      "dealer",
		OfferingID: o.ID,
		Rows: [][]string{
			uploadRowOf("Alpha", "Buy", "Kostak", "Retail", "1", "100", "", ""),
			uploadRowOf("Alpha", "Sell", "Kostak", "SHNI", "2", "110", "", ""),
			uploadRowOf("Alpha", "Buy", "SubjectTo", "BHNI", "3", "120", "", ""),
		},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if out.GroupsCreated != 1 {
		t.Fatalf("expected 1 group created, got %d", out.GroupsCreated)
	}

	groups, total, err := env.groups.ListGroups(ctx, domain.GroupFilter{CompanyID: testCompany})
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if total != 1 || len(groups) != 1 || groups[0].Name != "Alpha" {
		t.Fatalf("expected exactly one group named Alpha, got %d: %+v", total, groups)
	}

	master, err := env.store.Orders().GetMasterByID(ctx, testCompany, out.MasterID)
	if err != nil {
		t.Fatalf("GetMasterByID: %v", err)
	}
	if len(master.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(master.Lines))
	}
	for _, l := range master.Lines {
		if l.GroupID != groups[0].ID {
			t.Fatalf("line %s points at group %s, want %s", l.ID, l.GroupID, groups[0].ID)
		}
	}
}

func TestUpload_BadCellRejectsWholeBatch(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	uc := newTestIngest(env)

	_, err := uc.Upload(context.Background(), &ingestdto.UploadInput{
		CompanyID:  testCompany,
		OfferingID: o.ID,
		Rows: [][]string{
			uploadRowOf("Alpha", "Buy", "Kostak", "Retail", "3", "450", "", "new remark"),
			uploadRowOf("Beta", "Buy", "Kostak", "Retail", "1", "450", "", ""),
			uploadRowOf("Beta", "Hold", "Kostak", "Retail", "1", "450", "", ""),
		},
	})
	var perr *domain.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Row != 3 || perr.Column != "OrderType" || perr.Value != "Hold" {
		t.Fatalf("unexpected parse error %+v", perr)
	}
	if !errors.Is(err, domain.ErrParseFailure) {
		t.Fatal("ParseError should unwrap to ErrParseFailure")
	}

	ctx := context.Background()
	if n, _ := env.store.Orders().CountActiveLinesByOffering(ctx, testCompany, o.ID); n != 0 {
		t.Fatalf("rejected upload persisted %d lines", n)
	}
	if _, err := env.store.Groups().FindGroupByName(ctx, testCompany, "Alpha"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("rejected upload created a group: %v", err)
	}
	if remarks, _ := env.store.Remarks().ListRemarks(ctx, testCompany, o.ID); len(remarks) != 0 {
		t.Fatalf("rejected upload created %d remarks", len(remarks))
	}
	if env.audit.count() != 1 {
		t.Fatalf("expected rejected upload to be audited once, got %d", env.audit.count())
	}
}

func TestUpload_RowErrors(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	uc := newTestIngest(env)

	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"short row", []string{"Alpha", "Buy", "Kostak", "Retail"}, "Quantity"},
		{"missing group", uploadRowOf(" ", "Buy", "Kostak", "Retail", "1", "1", "", ""), "Group"},
		{"bad category", uploadRowOf("A", "Buy", "Swap", "Retail", "1", "1", "", ""), "Category"},
		{"bad investor", uploadRowOf("A", "Buy", "Kostak", "Whale", "1", "1", "", ""), "Investor"},
		{"zero quantity", uploadRowOf("A", "Buy", "Kostak", "Retail", "0", "1", "", ""), "Quantity"},
		{"negative rate", uploadRowOf("A", "Buy", "Kostak", "Retail", "1", "-1", "", ""), "Rate"},
		{"put without strike", uploadRowOf("A", "Buy", "Put", "Options", "1", "1", "", ""), "Strike"},
		{"unknown marker", uploadRowOf("A", "Buy", "Kostak", "Retail", "1", "1", "Maybe", ""), "Strike"},
		{"bad date", []string{"A", "Buy", "Kostak", "Retail", "1", "1", "", "14 March", "10:15", ""}, "Date"},
		{"bad time", []string{"A", "Buy", "Kostak", "Retail", "1", "1", "", "2024-03-14", "noon", ""}, "Time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Upload(context.Background(), &ingestdto.UploadInput{
				CompanyID:  testCompany,
				OfferingID: o.ID,
				Rows:       [][]string{tt.row},
			})
			var perr *domain.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Row != 1 || perr.Column != tt.column {
				t.Fatalf("expected row 1 column %s, got row %d column %s", tt.column, perr.Row, perr.Column)
			}
		})
	}
}

func TestUpload_EmptyAndUnknownOffering(t *testing.T) {
	env := newLedgerEnv()
	uc := newTestIngest(env)

	_, err := uc.Upload(context.Background(), &ingestdto.UploadInput{CompanyID: testCompany, OfferingID: "x"})
	if !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	_, err = uc.Upload(context.Background(), &ingestdto.UploadInput{
		CompanyID:  testCompany,
		OfferingID: "missing",
		Rows:       [][]string{uploadRowOf("A", "Buy", "Kostak", "Retail", "1", "1", "", "")},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSplitRemarkNames(t *testing.T) {
	got := splitRemarkNames(" a, A ,b,, c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
