package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/memory"
	paymentdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/payment"
	"github.com/shopspring/decimal"
)

type paymentEnv struct {
	*ledgerEnv
	payments  *DefaultPaymentUsecase
	publisher *recordingPublisher
}

func newTestPaymentEnv() *paymentEnv {
	env := newLedgerEnv()
	pub := newRecordingPublisher()
	uc := NewDefaultPaymentUsecase(env.store, pub, nil)
	uc.Now = clock
	return &paymentEnv{ledgerEnv: env, payments: uc, publisher: pub}
}

func (env *paymentEnv) pay(t *testing.T, groupID, offeringID string, kind domain.AmountType, amount int64) {
	t.Helper()
	_, err := env.payments.CreatePayment(context.Background(), &paymentdto.CreatePaymentInput{
		CompanyID:  testCompany,
		Actor:      "cashier",
		GroupID:    groupID,
		OfferingID: offeringID,
		AmountType: kind,
		Amount:     decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
}

func TestTransfer_BooksBothLegs(t *testing.T) {
	env := newTestPaymentEnv()
	o := env.offering(t, "ACME IPO")
	from := env.group(t, "Alpha")
	to := env.group(t, "Beta")

	out, err := env.payments.Transfer(context.Background(), &paymentdto.TransferInput{
		CompanyID: testCompany,
		Actor:     "cashier",
		Leg1:      paymentdto.TransferLeg{GroupID: from.ID, OfferingID: o.ID, AmountType: domain.AmountDebit},
		Leg2:      paymentdto.TransferLeg{GroupID: to.ID, OfferingID: o.ID, AmountType: domain.AmountCredit},
		Amount:    decimal.NewFromInt(2500),
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if out.TransferRef == "" || len(out.Legs) != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	for _, leg := range out.Legs {
		if !leg.IsTransfer || leg.TransferRef != out.TransferRef || !leg.Amount.Equal(decimal.NewFromInt(2500)) {
			t.Fatalf("unexpected leg %+v", leg)
		}
		if !leg.TransactionDate.Equal(fixedNow) {
			t.Fatalf("leg date defaulted to %s", leg.TransactionDate)
		}
	}

	list, err := env.payments.ListPayments(context.Background(), &paymentdto.ListPaymentsInput{CompanyID: testCompany})
	if err != nil {
		t.Fatalf("ListPayments: %v", err)
	}
	if list.TotalCount != 2 {
		t.Fatalf("expected 2 stored legs, got %d", list.TotalCount)
	}

	events := env.publisher.waitFor(t, 1)
	if events[0].Type != domain.EventPaymentTransfer || events[0].EntityID != out.TransferRef {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestTransfer_Rejections(t *testing.T) {
	env := newTestPaymentEnv()
	o := env.offering(t, "ACME IPO")
	a := env.group(t, "Alpha")
	b := env.group(t, "Beta")

	tests := []struct {
		name   string
		leg1   domain.AmountType
		leg2   domain.AmountType
		amount int64
		group2 string
		want   error
	}{
		{"same direction", domain.AmountCredit, domain.AmountCredit, 10, b.ID, domain.ErrSameLegDirection},
		{"zero amount", domain.AmountDebit, domain.AmountCredit, 0, b.ID, domain.ErrNonPositiveAmount},
		{"negative amount", domain.AmountDebit, domain.AmountCredit, -5, b.ID, domain.ErrNonPositiveAmount},
		{"unknown type", domain.AmountDebit, domain.AmountType("REFUND"), 10, b.ID, domain.ErrInvalidInput},
		{"unknown group", domain.AmountDebit, domain.AmountCredit, 10, "missing", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.payments.Transfer(context.Background(), &paymentdto.TransferInput{
				CompanyID: testCompany,
				Leg1:      paymentdto.TransferLeg{GroupID: a.ID, OfferingID: o.ID, AmountType: tt.leg1},
				Leg2:      paymentdto.TransferLeg{GroupID: tt.group2, OfferingID: o.ID, AmountType: tt.leg2},
				Amount:    decimal.NewFromInt(tt.amount),
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	list, _ := env.payments.ListPayments(context.Background(), &paymentdto.ListPaymentsInput{CompanyID: testCompany})
	if list.TotalCount != 0 {
		t.Fatalf("rejected transfers stored %d legs", list.TotalCount)
	}
}

func TestCreatePayment_RequiresPositiveAmount(t *testing.T) {
	env := newTestPaymentEnv()
	o := env.offering(t, "ACME IPO")
	g := env.group(t, "Alpha")
	_, err := env.payments.CreatePayment(context.Background(), &paymentdto.CreatePaymentInput{
		CompanyID:  testCompany,
		GroupID:    g.ID,
		OfferingID: o.ID,
		AmountType: domain.AmountCredit,
		Amount:     decimal.Zero,
	})
	if !errors.Is(err, domain.ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
}

func TestGroupWiseDashboard_NetsPerPair(t *testing.T) {
	env := newTestPaymentEnv()
	o1 := env.offering(t, "ACME IPO")
	o2 := env.offering(t, "Beta IPO")
	alpha := env.group(t, "Alpha")
	zeta := env.group(t, "zeta")

	env.pay(t, alpha.ID, o1.ID, domain.AmountDebit, 1000)
	env.pay(t, alpha.ID, o1.ID, domain.AmountCredit, 400)
	env.pay(t, alpha.ID, o2.ID, domain.AmountCredit, 50)
	env.pay(t, zeta.ID, o1.ID, domain.AmountCredit, 300)

	out, err := env.payments.GroupWiseDashboard(context.Background(), &paymentdto.DashboardInput{CompanyID: testCompany})
	if err != nil {
		t.Fatalf("GroupWiseDashboard: %v", err)
	}
	if out.TotalCount != 3 {
		t.Fatalf("expected 3 rows, got %d", out.TotalCount)
	}
	first := out.Rows[0]
	if first.GroupID != alpha.ID || first.OfferingName != "ACME IPO" {
		t.Fatalf("rows not ordered by group then offering: %+v", out.Rows)
	}
	if !first.Collection.Equal(decimal.NewFromInt(400)) || !first.Due.Equal(decimal.NewFromInt(600)) || !first.Total.Equal(decimal.NewFromInt(-600)) {
		t.Fatalf("unexpected alpha/ACME row %+v", first)
	}
	if out.Rows[2].GroupID != zeta.ID {
		t.Fatalf("expected zeta last, got %+v", out.Rows[2])
	}
	if !out.Footer.Collection.Equal(decimal.NewFromInt(750)) || !out.Footer.Total.Equal(decimal.NewFromInt(-250)) {
		t.Fatalf("unexpected footer %+v", out.Footer)
	}
	if !out.Footer.Due.Equal(out.Footer.Total.Neg()) {
		t.Fatalf("due and total should mirror: %+v", out.Footer)
	}
}

var errOfferingLookup = errors.New("offering lookup failed")

// offeringLookupStore fails every offering lookup made outside a transaction.
type offeringLookupStore struct {
	*memory.Store
}

func (s offeringLookupStore) Offerings() domain.OfferingRepository {
	return failingOfferings{s.Store.Offerings()}
}

type failingOfferings struct {
	domain.OfferingRepository
}

func (failingOfferings) GetOfferingByID(context.Context, string, string) (*domain.Offering, error) {
	return nil, errOfferingLookup
}

func TestGroupWiseDashboard_OfferingLookup(t *testing.T) {
	env := newTestPaymentEnv()
	o := env.offering(t, "ACME IPO")
	g := env.group(t, "Alpha")
	env.pay(t, g.ID, o.ID, domain.AmountCredit, 100)
	ctx := context.Background()

	t.Run("store failure is returned", func(t *testing.T) {
		uc := NewDefaultPaymentUsecase(offeringLookupStore{env.store}, nil, nil)
		if _, err := uc.GroupWiseDashboard(ctx, &paymentdto.DashboardInput{CompanyID: testCompany}); !errors.Is(err, errOfferingLookup) {
			t.Fatalf("expected the lookup error, got %v", err)
		}
	})

	t.Run("deleted offering keeps the row with a blank name", func(t *testing.T) {
		if err := env.offerings.DeleteOffering(ctx, testCompany, o.ID); err != nil {
			t.Fatalf("DeleteOffering: %v", err)
		}
		out, err := env.payments.GroupWiseDashboard(ctx, &paymentdto.DashboardInput{CompanyID: testCompany})
		if err != nil {
			t.Fatalf("GroupWiseDashboard: %v", err)
		}
		if len(out.Rows) != 1 || out.Rows[0].OfferingName != "" || !out.Rows[0].Collection.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("unexpected rows %+v", out.Rows)
		}
	})
}
