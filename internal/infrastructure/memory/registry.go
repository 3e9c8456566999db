package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
)

type offeringRepo struct{ a access }

func (r *offeringRepo) CreateOffering(_ context.Context, offering *domain.Offering) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.offerings[offering.ID]; ok {
			return fmt.Errorf("offering %s: %w", offering.ID, domain.ErrConflict)
		}
		st.offerings[offering.ID] = *offering
		st.track(offering.ID)
		return nil
	})
}

func (r *offeringRepo) UpdateOffering(_ context.Context, offering *domain.Offering) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.offerings[offering.ID]; !ok {
			return fmt.Errorf("offering %s: %w", offering.ID, domain.ErrNotFound)
		}
		st.offerings[offering.ID] = *offering
		return nil
	})
}

func (r *offeringRepo) GetOfferingByID(_ context.Context, companyID, offeringID string) (*domain.Offering, error) {
	var out *domain.Offering
	err := r.a.read(func(st *state) error {
		o, ok := st.offerings[offeringID]
		if !ok || o.CompanyID != companyID || o.State != domain.LifecycleActive {
			return fmt.Errorf("offering %s: %w", offeringID, domain.ErrNotFound)
		}
		out = &o
		return nil
	})
	return out, err
}

func (r *offeringRepo) ListOfferings(_ context.Context, filter domain.OfferingFilter) ([]*domain.Offering, int64, error) {
	var out []*domain.Offering
	var total int64
	err := r.a.read(func(st *state) error {
		var items []domain.Offering
		for _, o := range st.offerings {
			if o.CompanyID != filter.CompanyID || o.State != domain.LifecycleActive {
				continue
			}
			if filter.Name != "" && !strings.Contains(strings.ToLower(o.Name), strings.ToLower(filter.Name)) {
				continue
			}
			items = append(items, o)
		}
		sortByRank(st, items, func(o domain.Offering) string { return o.ID })
		total = int64(len(items))
		for _, o := range paginate(items, filter.Page, filter.Limit) {
			o := o
			out = append(out, &o)
		}
		return nil
	})
	return out, total, err
}

type groupRepo struct{ a access }

func (r *groupRepo) CreateGroup(_ context.Context, group *domain.Group) error {
	return r.a.write(func(st *state) error {
		st.groups[group.ID] = copyGroup(*group)
		st.track(group.ID)
		return nil
	})
}

func (r *groupRepo) UpdateGroup(_ context.Context, group *domain.Group) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.groups[group.ID]; !ok {
			return fmt.Errorf("group %s: %w", group.ID, domain.ErrNotFound)
		}
		st.groups[group.ID] = copyGroup(*group)
		return nil
	})
}

func (r *groupRepo) GetGroupByID(_ context.Context, companyID, groupID string) (*domain.Group, error) {
	var out *domain.Group
	err := r.a.read(func(st *state) error {
		g, ok := st.groups[groupID]
		if !ok || g.CompanyID != companyID || g.State != domain.LifecycleActive {
			return fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
		}
		g = copyGroup(g)
		out = &g
		return nil
	})
	return out, err
}

func (r *groupRepo) FindGroupByName(_ context.Context, companyID, name string) (*domain.Group, error) {
	var out *domain.Group
	err := r.a.read(func(st *state) error {
		var matches []domain.Group
		for _, g := range st.groups {
			if g.CompanyID == companyID && g.State == domain.LifecycleActive && strings.EqualFold(g.Name, strings.TrimSpace(name)) {
				matches = append(matches, g)
			}
		}
		if len(matches) == 0 {
			return fmt.Errorf("group %q: %w", name, domain.ErrNotFound)
		}
		sortByRank(st, matches, func(g domain.Group) string { return g.ID })
		g := copyGroup(matches[0])
		out = &g
		return nil
	})
	return out, err
}

func (r *groupRepo) GetGroupsByIDs(_ context.Context, ids []string) ([]*domain.Group, error) {
	var out []*domain.Group
	err := r.a.read(func(st *state) error {
		for _, id := range ids {
			if g, ok := st.groups[id]; ok {
				g = copyGroup(g)
				out = append(out, &g)
			}
		}
		return nil
	})
	return out, err
}

func (r *groupRepo) ListGroups(_ context.Context, filter domain.GroupFilter) ([]*domain.Group, int64, error) {
	var out []*domain.Group
	var total int64
	err := r.a.read(func(st *state) error {
		var items []domain.Group
		for _, g := range st.groups {
			if g.CompanyID != filter.CompanyID || g.State != domain.LifecycleActive {
				continue
			}
			if filter.OfferingID != nil && (g.OfferingID == nil || *g.OfferingID != *filter.OfferingID) {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(filter.Search)) {
				continue
			}
			items = append(items, g)
		}
		sort.SliceStable(items, func(i, j int) bool { return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name) })
		total = int64(len(items))
		for _, g := range paginate(items, filter.Page, filter.Limit) {
			g = copyGroup(g)
			out = append(out, &g)
		}
		return nil
	})
	return out, total, err
}

func copyGroup(g domain.Group) domain.Group {
	if g.OfferingID != nil {
		id := *g.OfferingID
		g.OfferingID = &id
	}
	return g
}

type clientRepo struct{ a access }

func (r *clientRepo) CreateClient(_ context.Context, client *domain.Client) error {
	return r.a.write(func(st *state) error {
		st.clients[client.ID] = *client
		st.track(client.ID)
		return nil
	})
}

func (r *clientRepo) UpdateClient(_ context.Context, client *domain.Client) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.clients[client.ID]; !ok {
			return fmt.Errorf("client %s: %w", client.ID, domain.ErrNotFound)
		}
		st.clients[client.ID] = *client
		return nil
	})
}

func (r *clientRepo) GetClientByID(_ context.Context, companyID, clientID string) (*domain.Client, error) {
	var out *domain.Client
	err := r.a.read(func(st *state) error {
		c, ok := st.clients[clientID]
		if !ok || c.CompanyID != companyID || c.State != domain.LifecycleActive {
			return fmt.Errorf("client %s: %w", clientID, domain.ErrNotFound)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *clientRepo) FindClientByPAN(_ context.Context, companyID, pan string) (*domain.Client, error) {
	var out *domain.Client
	err := r.a.read(func(st *state) error {
		for _, c := range st.clients {
			if c.CompanyID == companyID && c.State == domain.LifecycleActive && strings.EqualFold(c.PAN, pan) {
				c := c
				out = &c
				return nil
			}
		}
		return fmt.Errorf("client with pan %s: %w", pan, domain.ErrNotFound)
	})
	return out, err
}

func (r *clientRepo) ListClients(_ context.Context, filter domain.ClientFilter) ([]*domain.Client, int64, error) {
	var out []*domain.Client
	var total int64
	err := r.a.read(func(st *state) error {
		var items []domain.Client
		for _, c := range st.clients {
			if c.CompanyID != filter.CompanyID || c.State != domain.LifecycleActive {
				continue
			}
			if filter.GroupID != "" && c.GroupID != filter.GroupID {
				continue
			}
			if filter.PAN != "" && !strings.Contains(c.PAN, strings.ToUpper(filter.PAN)) {
				continue
			}
			items = append(items, c)
		}
		sortByRank(st, items, func(c domain.Client) string { return c.ID })
		total = int64(len(items))
		for _, c := range paginate(items, filter.Page, filter.Limit) {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	return out, total, err
}

func (r *clientRepo) MarkClientsDeleted(_ context.Context, ids []string, actor string, at time.Time) error {
	return r.a.write(func(st *state) error {
		for _, id := range ids {
			c, ok := st.clients[id]
			if !ok {
				return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
			}
			when := at
			c.State = domain.LifecycleDeleted
			c.DeletedBy = actor
			c.DeletedAt = &when
			c.UpdatedAt = at
			st.clients[id] = c
		}
		return nil
	})
}

func (r *clientRepo) CreateClientDeleteHistory(_ context.Context, history *domain.ClientDeleteHistory) error {
	return r.a.write(func(st *state) error {
		h := *history
		h.Details = append([]domain.ClientDeleteDetail(nil), history.Details...)
		st.clientHistories = append(st.clientHistories, h)
		return nil
	})
}

func (r *clientRepo) ListClientDeleteHistories(_ context.Context, filter domain.HistoryFilter) ([]*domain.ClientDeleteHistory, int64, error) {
	var out []*domain.ClientDeleteHistory
	var total int64
	err := r.a.read(func(st *state) error {
		var items []domain.ClientDeleteHistory
		for _, h := range st.clientHistories {
			if h.CompanyID != filter.CompanyID || !inRange(h.DeletedAt, filter.From, filter.To) {
				continue
			}
			items = append(items, h)
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].DeletedAt.After(items[j].DeletedAt) })
		total = int64(len(items))
		for _, h := range paginate(items, filter.Page, filter.Limit) {
			h := h
			h.Details = append([]domain.ClientDeleteDetail(nil), h.Details...)
			out = append(out, &h)
		}
		return nil
	})
	return out, total, err
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

type remarkRepo struct{ a access }

func (r *remarkRepo) CreateRemark(_ context.Context, remark *domain.Remark) error {
	return r.a.write(func(st *state) error {
		st.remarks[remark.ID] = *remark
		st.track(remark.ID)
		return nil
	})
}

func (r *remarkRepo) FindRemarkByName(_ context.Context, companyID, offeringID, name string) (*domain.Remark, error) {
	var out *domain.Remark
	err := r.a.read(func(st *state) error {
		for _, rm := range st.remarks {
			if rm.CompanyID == companyID && rm.OfferingID == offeringID && rm.State == domain.LifecycleActive &&
				strings.EqualFold(rm.Name, strings.TrimSpace(name)) {
				rm := rm
				out = &rm
				return nil
			}
		}
		return fmt.Errorf("remark %q: %w", name, domain.ErrNotFound)
	})
	return out, err
}

func (r *remarkRepo) GetRemarksByIDs(_ context.Context, ids []string) ([]*domain.Remark, error) {
	var out []*domain.Remark
	err := r.a.read(func(st *state) error {
		for _, id := range ids {
			if rm, ok := st.remarks[id]; ok && rm.State == domain.LifecycleActive {
				rm := rm
				out = append(out, &rm)
			}
		}
		return nil
	})
	return out, err
}

func (r *remarkRepo) ListRemarks(_ context.Context, companyID, offeringID string) ([]*domain.Remark, error) {
	var out []*domain.Remark
	err := r.a.read(func(st *state) error {
		var items []domain.Remark
		for _, rm := range st.remarks {
			if rm.CompanyID == companyID && rm.OfferingID == offeringID && rm.State == domain.LifecycleActive {
				items = append(items, rm)
			}
		}
		sortByRank(st, items, func(rm domain.Remark) string { return rm.ID })
		for _, rm := range items {
			rm := rm
			out = append(out, &rm)
		}
		return nil
	})
	return out, err
}
