package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/metrics"
	billingdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/billing"
	"github.com/shopspring/decimal"
)

type BillingUsecase interface {
	GroupWise(ctx context.Context, input *billingdto.BillingInput) (*billingdto.GroupWiseOutput, error)
	ClientWise(ctx context.Context, input *billingdto.BillingInput) (*billingdto.ClientWiseOutput, error)
}

type DefaultBillingUsecase struct {
	Store   domain.LedgerStore
	Metrics *metrics.LedgerMetrics
}

func NewDefaultBillingUsecase(store domain.LedgerStore, ledgerMetrics *metrics.LedgerMetrics) *DefaultBillingUsecase {
	return &DefaultBillingUsecase{Store: store, Metrics: ledgerMetrics}
}

func (uc *DefaultBillingUsecase) GroupWise(ctx context.Context, input *billingdto.BillingInput) (*billingdto.GroupWiseOutput, error) {
	start := time.Now()
	rows, err := uc.Store.Orders().ListActiveUnits(ctx, domain.UnitFilter{
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		GroupID:    input.GroupID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load allocation units: %w", err)
	}
	names, err := uc.groupNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	groups := buildGroupBilling(rows, names)
	total := len(groups)
	groups = pageOf(groups, input.Page, input.Limit)
	if uc.Metrics != nil {
		uc.Metrics.RecordAggregation("billing_group", time.Since(start).Seconds())
	}
	return &billingdto.GroupWiseOutput{Groups: groups, TotalCount: total}, nil
}

// buildGroupBilling routes every unit into its group's buckets. Groups left
// with nothing but zeros are dropped; the rest are ordered by name.
func buildGroupBilling(rows []domain.UnitRow, names map[string]string) []*domain.GroupBilling {
	byGroup := map[string]*domain.GroupBilling{}
	for _, row := range rows {
		unit, line := row.Unit, row.Line
		g, ok := byGroup[unit.GroupID]
		if !ok {
			g = &domain.GroupBilling{GroupID: unit.GroupID, GroupName: names[unit.GroupID]}
			byGroup[unit.GroupID] = g
		}
		qty := int64(unit.Quantity) * line.Direction.Sign()
		amount := line.Rate.Mul(decimal.NewFromInt(qty))
		var allotted int64
		if unit.AllottedQty != nil {
			allotted = int64(*unit.AllottedQty)
		}

		switch {
		case line.StrikeKind == domain.StrikeValue:
			if line.Direction == domain.DirectionBuy {
				g.Options.CallAmount = g.Options.CallAmount.Add(amount)
			} else {
				g.Options.PutAmount = g.Options.PutAmount.Add(amount)
			}
		case line.Category == domain.CategoryKostak:
			addBilling(kostakBucket(g, line.Investor), qty, allotted, amount)
		case line.Category == domain.CategorySubjectTo:
			addBilling(subjectToBucket(g, line.Investor), qty, allotted, amount)
		case line.Category == domain.CategoryPremium:
			g.Premium.Shares += qty
			g.Premium.Billing = g.Premium.Billing.Add(amount)
		}
		g.TotalShares += qty
		g.TotalAmount = g.TotalAmount.Add(amount)
	}

	out := make([]*domain.GroupBilling, 0, len(byGroup))
	for _, g := range byGroup {
		if g.AllZero() {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].GroupName), strings.ToLower(out[j].GroupName)
		if a != b {
			return a < b
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out
}

func kostakBucket(g *domain.GroupBilling, tier domain.InvestorTier) *domain.CategoryBilling {
	switch tier {
	case domain.InvestorRetail:
		return &g.Retail
	case domain.InvestorSHNI:
		return &g.SHNI
	default:
		return &g.BHNI
	}
}

func subjectToBucket(g *domain.GroupBilling, tier domain.InvestorTier) *domain.CategoryBilling {
	switch tier {
	case domain.InvestorRetail:
		return &g.SubjectToRetail
	case domain.InvestorSHNI:
		return &g.SubjectToSHNI
	default:
		return &g.SubjectToBHNI
	}
}

func addBilling(b *domain.CategoryBilling, qty, allotted int64, amount decimal.Decimal) {
	b.Count += qty
	b.Alloted += allotted
	b.Billing = b.Billing.Add(amount)
}

func (uc *DefaultBillingUsecase) ClientWise(ctx context.Context, input *billingdto.BillingInput) (*billingdto.ClientWiseOutput, error) {
	start := time.Now()
	rows, err := uc.Store.Orders().ListActiveUnits(ctx, domain.UnitFilter{
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		GroupID:    input.GroupID,
		OnlyFilled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load allocation units: %w", err)
	}
	names, err := uc.groupNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Unit.PAN != rows[j].Unit.PAN {
			return rows[i].Unit.PAN < rows[j].Unit.PAN
		}
		return rows[i].Line.OrderedAt.Before(rows[j].Line.OrderedAt)
	})
	out := make([]domain.ClientBillingRow, 0, len(rows))
	for _, row := range rows {
		unit, line := row.Unit, row.Line
		qty := int64(unit.Quantity) * line.Direction.Sign()
		out = append(out, domain.ClientBillingRow{
			UnitID:        unit.ID,
			LineID:        line.ID,
			PAN:           unit.PAN,
			ClientName:    unit.ClientName,
			DematNumber:   unit.DematNumber,
			ApplicationNo: unit.ApplicationNo,
			GroupID:       unit.GroupID,
			GroupName:     names[unit.GroupID],
			Direction:     line.Direction,
			Category:      line.Category,
			Investor:      line.Investor,
			StrikePrice:   line.StrikePrice,
			Rate:          line.Rate,
			AllottedQty:   unit.AllottedQty,
			Amount:        line.Rate.Mul(decimal.NewFromInt(qty)),
		})
	}

	total := len(out)
	out = pageOf(out, input.Page, input.Limit)
	if uc.Metrics != nil {
		uc.Metrics.RecordAggregation("billing_client", time.Since(start).Seconds())
	}
	return &billingdto.ClientWiseOutput{Rows: out, TotalCount: total}, nil
}

func (uc *DefaultBillingUsecase) groupNames(ctx context.Context, rows []domain.UnitRow) (map[string]string, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Unit.GroupID)
	}
	names := map[string]string{}
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return names, nil
	}
	groups, err := uc.Store.Groups().GetGroupsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}

// pageOf slices a fully aggregated result; a non-positive limit keeps everything.
func pageOf[T any](items []T, page, limit int) []T {
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
