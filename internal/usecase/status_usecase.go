package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/metrics"
	statusdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/status"
	"github.com/shopspring/decimal"
)

type StatusUsecase interface {
	Summarize(ctx context.Context, input *statusdto.SummaryInput) (*domain.StatusSummary, error)
}

type DefaultStatusUsecase struct {
	Store   domain.LedgerStore
	Metrics *metrics.LedgerMetrics
}

func NewDefaultStatusUsecase(store domain.LedgerStore, ledgerMetrics *metrics.LedgerMetrics) *DefaultStatusUsecase {
	return &DefaultStatusUsecase{Store: store, Metrics: ledgerMetrics}
}

func (uc *DefaultStatusUsecase) Summarize(ctx context.Context, input *statusdto.SummaryInput) (*domain.StatusSummary, error) {
	start := time.Now()
	if _, err := uc.Store.Offerings().GetOfferingByID(ctx, input.CompanyID, input.OfferingID); err != nil {
		return nil, err
	}
	lines, err := uc.Store.Orders().ListActiveLines(ctx, domain.LineFilter{
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		GroupID:    input.GroupID,
		Category:   input.Category,
		Investor:   input.Investor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	summary := buildStatusSummary(lines)
	if uc.Metrics != nil {
		uc.Metrics.RecordAggregation("status", time.Since(start).Seconds())
	}
	return summary, nil
}

func newTierBook() map[domain.InvestorTier]*domain.BuySellNet {
	book := make(map[domain.InvestorTier]*domain.BuySellNet, len(domain.BaseInvestorTiers))
	for _, tier := range domain.BaseInvestorTiers {
		book[tier] = &domain.BuySellNet{}
	}
	return book
}

func addToSide(b *domain.BuySellNet, line *domain.OrderLine) {
	if line.Direction == domain.DirectionBuy {
		b.Buy.Add(int64(line.Quantity), line.Amount())
		return
	}
	b.Sell.Add(int64(line.Quantity), line.Amount())
}

// buildStatusSummary folds lines into the per-category position view.
func buildStatusSummary(lines []*domain.OrderLine) *domain.StatusSummary {
	summary := &domain.StatusSummary{
		Kostak:    newTierBook(),
		SubjectTo: newTierBook(),
	}
	type strikeAcc struct {
		price      decimal.Decimal
		callShares int64
		callAmount decimal.Decimal
		putShares  int64
		putAmount  decimal.Decimal
	}
	strikes := map[string]*strikeAcc{}

	for _, line := range lines {
		switch {
		case line.Category == domain.CategoryKostak || line.Category == domain.CategorySubjectTo:
			book := summary.Kostak
			if line.Category == domain.CategorySubjectTo {
				book = summary.SubjectTo
			}
			entry, ok := book[line.Investor]
			if !ok {
				entry = &domain.BuySellNet{}
				book[line.Investor] = entry
			}
			addToSide(entry, line)
		case line.Category == domain.CategoryPremium:
			addToSide(&summary.Premium, line)
		}

		if line.StrikeKind != domain.StrikeValue {
			continue
		}
		price, err := decimal.NewFromString(line.StrikePrice)
		if err != nil {
			continue
		}
		key := price.String()
		acc, ok := strikes[key]
		if !ok {
			acc = &strikeAcc{price: price}
			strikes[key] = acc
		}
		if line.Direction == domain.DirectionBuy {
			acc.callShares += int64(line.Quantity)
			acc.callAmount = acc.callAmount.Add(line.Amount())
		} else {
			acc.putShares += int64(line.Quantity)
			acc.putAmount = acc.putAmount.Add(line.Amount())
		}
	}

	for _, book := range []map[domain.InvestorTier]*domain.BuySellNet{summary.Kostak, summary.SubjectTo} {
		for _, entry := range book {
			entry.Settle()
		}
	}
	summary.Premium.Settle()

	for _, acc := range strikes {
		summary.StrikePrices = append(summary.StrikePrices, domain.StrikeBlock{
			StrikePrice: acc.price,
			CallShares:  acc.callShares,
			CallAmount:  acc.callAmount,
			CallAvg:     domain.Average(acc.callAmount, acc.callShares),
			PutShares:   acc.putShares,
			PutAmount:   acc.putAmount,
			PutAvg:      domain.Average(acc.putAmount, acc.putShares),
		})
	}
	sort.Slice(summary.StrikePrices, func(i, j int) bool {
		return summary.StrikePrices[i].StrikePrice.LessThan(summary.StrikePrices[j].StrikePrice)
	})
	if len(summary.StrikePrices) == 0 {
		summary.StrikePrices = []domain.StrikeBlock{{}}
	}
	return summary
}
