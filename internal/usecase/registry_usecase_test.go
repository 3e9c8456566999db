package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	registrydto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/registry"
	"github.com/shopspring/decimal"
)

func TestUpdateOffering_OnlyPricesMoveWhileInUse(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	g := env.group(t, "Alpha")
	env.place(t, o.ID, g.ID, kostak(domain.DirectionBuy, domain.InvestorRetail, 1, 100))
	ctx := context.Background()

	base := registrydto.OfferingInput{
		CompanyID:        testCompany,
		Name:             o.Name,
		UpperPriceBand:   decimal.NewFromInt(120),
		OpenPrice:        decimal.NewFromInt(118),
		RetailPercentage: o.RetailPercentage,
		SHNIPercentage:   o.SHNIPercentage,
		BHNIPercentage:   o.BHNIPercentage,
	}
	updated, err := env.offerings.UpdateOffering(ctx, &registrydto.UpdateOfferingInput{OfferingID: o.ID, OfferingInput: base})
	if err != nil {
		t.Fatalf("price-only update: %v", err)
	}
	if !updated.UpperPriceBand.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("price band not updated: %s", updated.UpperPriceBand)
	}

	renamed := base
	renamed.Name = "ACME Renamed"
	if _, err := env.offerings.UpdateOffering(ctx, &registrydto.UpdateOfferingInput{OfferingID: o.ID, OfferingInput: renamed}); !errors.Is(err, domain.ErrOfferingInUse) {
		t.Fatalf("expected ErrOfferingInUse, got %v", err)
	}
	if err := env.offerings.DeleteOffering(ctx, testCompany, o.ID); !errors.Is(err, domain.ErrOfferingInUse) {
		t.Fatalf("expected delete to be refused, got %v", err)
	}
}

func TestCreateOffering_Validation(t *testing.T) {
	env := newLedgerEnv()
	_, err := env.offerings.CreateOffering(context.Background(), &registrydto.OfferingInput{CompanyID: testCompany, Name: "X", RetailPercentage: 101})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "retail_percentage" {
		t.Fatalf("expected retail_percentage validation error, got %v", err)
	}
}

func TestGroupNamesAreUniquePerCompany(t *testing.T) {
	env := newLedgerEnv()
	a := env.group(t, "Alpha")
	b := env.group(t, "Beta")
	ctx := context.Background()

	if _, err := env.groups.CreateGroup(ctx, &registrydto.GroupInput{CompanyID: testCompany, Name: "Alpha"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate create: expected ErrConflict, got %v", err)
	}
	_, err := env.groups.UpdateGroup(ctx, &registrydto.UpdateGroupInput{GroupID: b.ID, GroupInput: registrydto.GroupInput{CompanyID: testCompany, Name: "Alpha"}})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("rename onto existing: expected ErrConflict, got %v", err)
	}
	if _, err := env.groups.UpdateGroup(ctx, &registrydto.UpdateGroupInput{GroupID: a.ID, GroupInput: registrydto.GroupInput{CompanyID: testCompany, Name: "Alpha", Mobile: "99"}}); err != nil {
		t.Fatalf("self update: %v", err)
	}
	if _, err := env.groups.CreateGroup(ctx, &registrydto.GroupInput{CompanyID: "company-2", Name: "Alpha"}); err != nil {
		t.Fatalf("other company may reuse the name: %v", err)
	}

	if err := env.groups.DeleteGroup(ctx, testCompany, a.ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if _, err := env.groups.GetGroup(ctx, testCompany, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted group still readable: %v", err)
	}
}

func TestClients_UniquePANAndBulkDelete(t *testing.T) {
	env := newLedgerEnv()
	g := env.group(t, "Alpha")
	ctx := context.Background()

	c, err := env.clients.CreateClient(ctx, &registrydto.ClientInput{CompanyID: testCompany, PAN: " abcde1234f ", Name: "Riya", GroupID: g.ID})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if c.PAN != "ABCDE1234F" {
		t.Fatalf("pan not normalized: %q", c.PAN)
	}
	if _, err := env.clients.CreateClient(ctx, &registrydto.ClientInput{CompanyID: testCompany, PAN: "ABCDE1234F", Name: "Other"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate pan: expected ErrConflict, got %v", err)
	}
	if _, err := env.clients.CreateClient(ctx, &registrydto.ClientInput{CompanyID: testCompany, PAN: "ABCDE1234FX", Name: "Long"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("long pan: expected ErrInvalidInput, got %v", err)
	}
	if _, err := env.clients.CreateClient(ctx, &registrydto.ClientInput{CompanyID: testCompany, PAN: "QWERT5678Y", Name: "Dev"}); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	history, err := env.clients.DeleteAllClients(ctx, &registrydto.DeleteAllClientsInput{CompanyID: testCompany, Actor: "admin", Remark: "season end"})
	if err != nil {
		t.Fatalf("DeleteAllClients: %v", err)
	}
	if history.TotalClientsDeleted != 2 || len(history.Details) != 2 {
		t.Fatalf("unexpected history %+v", history)
	}
	clients, total, err := env.clients.ListClients(ctx, domain.ClientFilter{CompanyID: testCompany})
	if err != nil || total != 0 || len(clients) != 0 {
		t.Fatalf("clients remain after bulk delete: %d (%v)", total, err)
	}
	histories, n, err := env.clients.ListDeleteHistories(ctx, domain.HistoryFilter{CompanyID: testCompany})
	if err != nil || n != 1 || histories[0].Remark != "season end" {
		t.Fatalf("unexpected histories %+v (%v)", histories, err)
	}
	if _, err := env.clients.DeleteAllClients(ctx, &registrydto.DeleteAllClientsInput{CompanyID: testCompany}); !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("second bulk delete: expected ErrEmptyBatch, got %v", err)
	}
}

func TestRemarks_UniqueWithinOffering(t *testing.T) {
	env := newLedgerEnv()
	o := env.offering(t, "ACME IPO")
	ctx := context.Background()

	if _, err := env.remarks.CreateRemark(ctx, &registrydto.RemarkInput{CompanyID: testCompany, OfferingID: o.ID, Name: "urgent"}); err != nil {
		t.Fatalf("CreateRemark: %v", err)
	}
	if _, err := env.remarks.CreateRemark(ctx, &registrydto.RemarkInput{CompanyID: testCompany, OfferingID: o.ID, Name: "urgent"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := env.remarks.CreateRemark(ctx, &registrydto.RemarkInput{CompanyID: testCompany, OfferingID: "missing", Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	remarks, err := env.remarks.ListRemarks(ctx, testCompany, o.ID)
	if err != nil || len(remarks) != 1 {
		t.Fatalf("expected one remark, got %d (%v)", len(remarks), err)
	}
}
