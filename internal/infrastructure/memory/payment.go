package memory

import (
	"context"
	"sort"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
)

type paymentRepo struct{ a access }

func (r *paymentRepo) CreateTransactions(_ context.Context, txs []*domain.PaymentTransaction) error {
	return r.a.write(func(st *state) error {
		for _, t := range txs {
			st.payments[t.ID] = *t
			st.track(t.ID)
		}
		return nil
	})
}

func (r *paymentRepo) ListTransactions(_ context.Context, filter domain.PaymentFilter) ([]*domain.PaymentTransaction, int64, error) {
	var out []*domain.PaymentTransaction
	var total int64
	err := r.a.read(func(st *state) error {
		var items []domain.PaymentTransaction
		for _, p := range st.payments {
			if p.CompanyID != filter.CompanyID || p.State != domain.LifecycleActive {
				continue
			}
			if filter.GroupID != "" && p.GroupID != filter.GroupID {
				continue
			}
			if filter.OfferingID != "" && p.OfferingID != filter.OfferingID {
				continue
			}
			if !inRange(p.TransactionDate, filter.From, filter.To) {
				continue
			}
			items = append(items, p)
		}
		sortByRank(st, items, func(p domain.PaymentTransaction) string { return p.ID })
		sort.SliceStable(items, func(i, j int) bool { return items[i].TransactionDate.Before(items[j].TransactionDate) })
		total = int64(len(items))
		for _, p := range paginate(items, filter.Page, filter.Limit) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, total, err
}
