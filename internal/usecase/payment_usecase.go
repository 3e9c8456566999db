package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/metrics"
	paymentdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/payment"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

type PaymentUsecase interface {
	CreatePayment(ctx context.Context, input *paymentdto.CreatePaymentInput) (*domain.PaymentTransaction, error)
	Transfer(ctx context.Context, input *paymentdto.TransferInput) (*paymentdto.TransferOutput, error)
	ListPayments(ctx context.Context, input *paymentdto.ListPaymentsInput) (*paymentdto.ListPaymentsOutput, error)
	GroupWiseDashboard(ctx context.Context, input *paymentdto.DashboardInput) (*paymentdto.DashboardOutput, error)
}

type DefaultPaymentUsecase struct {
	Store     domain.LedgerStore
	Publisher domain.EventPublisher
	Metrics   *metrics.LedgerMetrics
	Now       func() time.Time
}

func NewDefaultPaymentUsecase(store domain.LedgerStore, publisher domain.EventPublisher, ledgerMetrics *metrics.LedgerMetrics) *DefaultPaymentUsecase {
	return &DefaultPaymentUsecase{
		Store:     store,
		Publisher: publisher,
		Metrics:   ledgerMetrics,
		Now:       time.Now,
	}
}

func (uc *DefaultPaymentUsecase) CreatePayment(ctx context.Context, input *paymentdto.CreatePaymentInput) (*domain.PaymentTransaction, error) {
	if !input.AmountType.Valid() {
		return nil, domain.NewValidationError("amount_type", fmt.Sprintf("unknown amount type %q", input.AmountType))
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	now := uc.Now()
	date := input.TransactionDate
	if date.IsZero() {
		date = now
	}
	payment := &domain.PaymentTransaction{
		ID:              uuid.New().String(),
		CompanyID:       input.CompanyID,
		GroupID:         input.GroupID,
		OfferingID:      input.OfferingID,
		AmountType:      input.AmountType,
		Amount:          input.Amount,
		Remark:          strings.TrimSpace(input.Remark),
		TransactionDate: date,
		State:           domain.LifecycleActive,
		CreatedBy:       input.Actor,
		CreatedAt:       now,
	}
	err := withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		if err := checkPaymentParties(ctx, tx, input.CompanyID, input.GroupID, input.OfferingID); err != nil {
			return err
		}
		if err := tx.Payments().CreateTransactions(ctx, []*domain.PaymentTransaction{payment}); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Transfer books a debit on one side and a credit on the other. Both rows
// share the amount, the date and a transfer reference.
func (uc *DefaultPaymentUsecase) Transfer(ctx context.Context, input *paymentdto.TransferInput) (*paymentdto.TransferOutput, error) {
	if input.Leg1.AmountType == input.Leg2.AmountType {
		uc.recordTransfer("rejected")
		return nil, domain.ErrSameLegDirection
	}
	if !input.Amount.IsPositive() {
		uc.recordTransfer("rejected")
		return nil, domain.ErrNonPositiveAmount
	}
	for i, leg := range []paymentdto.TransferLeg{input.Leg1, input.Leg2} {
		if !leg.AmountType.Valid() {
			uc.recordTransfer("rejected")
			return nil, domain.NewValidationError(fmt.Sprintf("leg%d.amount_type", i+1), fmt.Sprintf("unknown amount type %q", leg.AmountType))
		}
	}

	newRef, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("failed to init transfer reference generator: %w", err)
	}
	now := uc.Now()
	date := input.TransactionDate
	if date.IsZero() {
		date = now
	}
	ref := newRef()
	legs := make([]*domain.PaymentTransaction, 0, 2)
	for _, leg := range []paymentdto.TransferLeg{input.Leg1, input.Leg2} {
		legs = append(legs, &domain.PaymentTransaction{
			ID:              uuid.New().String(),
			CompanyID:       input.CompanyID,
			GroupID:         leg.GroupID,
			OfferingID:      leg.OfferingID,
			AmountType:      leg.AmountType,
			Amount:          input.Amount,
			Remark:          strings.TrimSpace(leg.Remark),
			TransactionDate: date,
			IsTransfer:      true,
			TransferRef:     ref,
			State:           domain.LifecycleActive,
			CreatedBy:       input.Actor,
			CreatedAt:       now,
		})
	}

	err = withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		for _, leg := range legs {
			if err := checkPaymentParties(ctx, tx, input.CompanyID, leg.GroupID, leg.OfferingID); err != nil {
				return err
			}
		}
		if err := tx.Payments().CreateTransactions(ctx, legs); err != nil {
			return fmt.Errorf("failed to create transfer legs: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.recordTransfer("failed")
		return nil, err
	}

	uc.recordTransfer("ok")
	publishAsync(uc.Publisher, domain.LedgerEvent{
		Type:      domain.EventPaymentTransfer,
		CompanyID: input.CompanyID,
		EntityID:  ref,
		Actor:     input.Actor,
		Attributes: map[string]any{
			"amount":    input.Amount.String(),
			"from":      legs[0].GroupID,
			"to":        legs[1].GroupID,
			"leg1_type": string(legs[0].AmountType),
		},
		OccurredAt: now,
	})
	return &paymentdto.TransferOutput{TransferRef: ref, Legs: legs}, nil
}

func checkPaymentParties(ctx context.Context, repos domain.Repositories, companyID, groupID, offeringID string) error {
	if _, err := repos.Groups().GetGroupByID(ctx, companyID, groupID); err != nil {
		return err
	}
	if _, err := repos.Offerings().GetOfferingByID(ctx, companyID, offeringID); err != nil {
		return err
	}
	return nil
}

func (uc *DefaultPaymentUsecase) ListPayments(ctx context.Context, input *paymentdto.ListPaymentsInput) (*paymentdto.ListPaymentsOutput, error) {
	payments, total, err := uc.Store.Payments().ListTransactions(ctx, domain.PaymentFilter{
		CompanyID:  input.CompanyID,
		GroupID:    input.GroupID,
		OfferingID: input.OfferingID,
		From:       input.From,
		To:         input.To,
		Page:       input.Page,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &paymentdto.ListPaymentsOutput{Payments: payments, TotalCount: total}, nil
}

// GroupWiseDashboard nets payments per (group, offering) pair.
func (uc *DefaultPaymentUsecase) GroupWiseDashboard(ctx context.Context, input *paymentdto.DashboardInput) (*paymentdto.DashboardOutput, error) {
	start := time.Now()
	payments, _, err := uc.Store.Payments().ListTransactions(ctx, domain.PaymentFilter{
		CompanyID:  input.CompanyID,
		GroupID:    input.GroupID,
		OfferingID: input.OfferingID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	type pairKey struct{ group, offering string }
	type pairSum struct{ credit, debit decimal.Decimal }
	sums := map[pairKey]*pairSum{}
	var groupIDs []string
	for _, p := range payments {
		key := pairKey{p.GroupID, p.OfferingID}
		s, ok := sums[key]
		if !ok {
			s = &pairSum{}
			sums[key] = s
			groupIDs = append(groupIDs, p.GroupID)
		}
		if p.AmountType == domain.AmountCredit {
			s.credit = s.credit.Add(p.Amount)
		} else {
			s.debit = s.debit.Add(p.Amount)
		}
	}

	groupNames := map[string]string{}
	if ids := dedupeIDs(groupIDs); len(ids) > 0 {
		groups, err := uc.Store.Groups().GetGroupsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load groups: %w", err)
		}
		for _, g := range groups {
			groupNames[g.ID] = g.Name
		}
	}
	offeringNames := map[string]string{}
	for key := range sums {
		if _, ok := offeringNames[key.offering]; ok {
			continue
		}
		o, err := uc.Store.Offerings().GetOfferingByID(ctx, input.CompanyID, key.offering)
		if errors.Is(err, domain.ErrNotFound) {
			// offerings deleted after payment keep an empty name
			offeringNames[key.offering] = ""
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load offering %s: %w", key.offering, err)
		}
		offeringNames[key.offering] = o.Name
	}

	out := &paymentdto.DashboardOutput{}
	for key, s := range sums {
		row := domain.DashboardRow{
			GroupID:      key.group,
			GroupName:    groupNames[key.group],
			OfferingID:   key.offering,
			OfferingName: offeringNames[key.offering],
			Collection:   s.credit,
			Due:          s.debit.Sub(s.credit),
			Total:        s.credit.Sub(s.debit),
		}
		out.Rows = append(out.Rows, row)
		out.Footer.Collection = out.Footer.Collection.Add(row.Collection)
		out.Footer.Due = out.Footer.Due.Add(row.Due)
		out.Footer.Total = out.Footer.Total.Add(row.Total)
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if !strings.EqualFold(a.GroupName, b.GroupName) {
			return strings.ToLower(a.GroupName) < strings.ToLower(b.GroupName)
		}
		if a.OfferingName != b.OfferingName {
			return a.OfferingName < b.OfferingName
		}
		return a.GroupID+a.OfferingID < b.GroupID+b.OfferingID
	})
	out.TotalCount = len(out.Rows)
	out.Rows = pageOf(out.Rows, input.Page, input.Limit)
	if uc.Metrics != nil {
		uc.Metrics.RecordAggregation("payment_dashboard", time.Since(start).Seconds())
	}
	return out, nil
}

func (uc *DefaultPaymentUsecase) recordTransfer(result string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordTransfer(result)
}
