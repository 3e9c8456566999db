package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
)

type orderRepo struct{ a access }

func copyLine(l domain.OrderLine) domain.OrderLine {
	l.RemarkIDs = append([]string(nil), l.RemarkIDs...)
	l.Units = nil
	return l
}

func copyUnit(u domain.AllocationUnit) domain.AllocationUnit {
	if u.AllottedQty != nil {
		q := *u.AllottedQty
		u.AllottedQty = &q
	}
	return u
}

func (r *orderRepo) CreateMaster(_ context.Context, master *domain.OrderMaster) error {
	return r.a.write(func(st *state) error {
		m := *master
		m.Lines = nil
		st.masters[m.ID] = m
		st.track(m.ID)
		for _, line := range master.Lines {
			st.lines[line.ID] = copyLine(*line)
			st.track(line.ID)
			for _, unit := range line.Units {
				st.units[unit.ID] = copyUnit(*unit)
				st.track(unit.ID)
			}
		}
		return nil
	})
}

func (st *state) activeUnitsOf(lineID string) []*domain.AllocationUnit {
	var units []*domain.AllocationUnit
	for _, u := range st.units {
		if u.LineID == lineID && u.State == domain.LifecycleActive {
			u := copyUnit(u)
			units = append(units, &u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Seq < units[j].Seq })
	return units
}

func (st *state) activeLinesOf(masterID string) []*domain.OrderLine {
	var lines []domain.OrderLine
	for _, l := range st.lines {
		if l.MasterID == masterID && l.State == domain.LifecycleActive {
			lines = append(lines, l)
		}
	}
	sortByRank(st, lines, func(l domain.OrderLine) string { return l.ID })
	out := make([]*domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		l := copyLine(l)
		l.Units = st.activeUnitsOf(l.ID)
		out = append(out, &l)
	}
	return out
}

// liveMaster reports whether the line's master is active and not deleted.
func (st *state) liveMaster(masterID string) bool {
	m, ok := st.masters[masterID]
	return ok && m.IsActive && m.State == domain.LifecycleActive
}

func (r *orderRepo) GetMasterByID(_ context.Context, companyID, masterID string) (*domain.OrderMaster, error) {
	var out *domain.OrderMaster
	err := r.a.read(func(st *state) error {
		m, ok := st.masters[masterID]
		if !ok || m.CompanyID != companyID || m.State != domain.LifecycleActive {
			return fmt.Errorf("order master %s: %w", masterID, domain.ErrNotFound)
		}
		m.Lines = st.activeLinesOf(m.ID)
		out = &m
		return nil
	})
	return out, err
}

func (r *orderRepo) GetLineByID(_ context.Context, companyID, lineID string) (*domain.OrderLine, error) {
	var out *domain.OrderLine
	err := r.a.read(func(st *state) error {
		l, ok := st.lines[lineID]
		if !ok || l.CompanyID != companyID || l.State != domain.LifecycleActive {
			return fmt.Errorf("order line %s: %w", lineID, domain.ErrNotFound)
		}
		l = copyLine(l)
		l.Units = st.activeUnitsOf(l.ID)
		out = &l
		return nil
	})
	return out, err
}

func (r *orderRepo) UpdateLine(_ context.Context, line *domain.OrderLine) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.lines[line.ID]
		if !ok || cur.State != domain.LifecycleActive {
			return fmt.Errorf("order line %s: %w", line.ID, domain.ErrNotFound)
		}
		cur.GroupID = line.GroupID
		cur.Direction = line.Direction
		cur.Category = line.Category
		cur.Investor = line.Investor
		cur.StrikePrice = line.StrikePrice
		cur.StrikeKind = line.StrikeKind
		cur.Quantity = line.Quantity
		cur.Rate = line.Rate
		cur.RemarkIDs = append([]string(nil), line.RemarkIDs...)
		cur.OrderedAt = line.OrderedAt
		cur.UpdatedAt = line.UpdatedAt
		st.lines[line.ID] = cur
		return nil
	})
}

func (r *orderRepo) CreateUnits(_ context.Context, units []*domain.AllocationUnit) error {
	return r.a.write(func(st *state) error {
		for _, u := range units {
			st.units[u.ID] = copyUnit(*u)
			st.track(u.ID)
		}
		return nil
	})
}

func (r *orderRepo) RemoveUnits(_ context.Context, unitIDs []string) error {
	return r.a.write(func(st *state) error {
		for _, id := range unitIDs {
			u, ok := st.units[id]
			if !ok {
				return fmt.Errorf("allocation unit %s: %w", id, domain.ErrNotFound)
			}
			if u.PAN != "" {
				return fmt.Errorf("allocation unit %s: %w", id, domain.ErrAllocatedUnitsExist)
			}
		}
		for _, id := range unitIDs {
			delete(st.units, id)
			delete(st.rank, id)
		}
		return nil
	})
}

func (r *orderRepo) UpdateUnitsGroup(_ context.Context, lineID, groupID string) error {
	return r.a.write(func(st *state) error {
		for id, u := range st.units {
			if u.LineID == lineID && u.State == domain.LifecycleActive {
				u.GroupID = groupID
				st.units[id] = u
			}
		}
		return nil
	})
}

func (r *orderRepo) GetUnitsByIDs(_ context.Context, companyID string, unitIDs []string) ([]*domain.AllocationUnit, error) {
	var out []*domain.AllocationUnit
	err := r.a.read(func(st *state) error {
		for _, id := range unitIDs {
			u, ok := st.units[id]
			if ok && u.CompanyID == companyID && u.State == domain.LifecycleActive {
				u = copyUnit(u)
				out = append(out, &u)
			}
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) UpdateUnitDetails(_ context.Context, unit *domain.AllocationUnit) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.units[unit.ID]
		if !ok || cur.State != domain.LifecycleActive {
			return fmt.Errorf("allocation unit %s: %w", unit.ID, domain.ErrNotFound)
		}
		upd := copyUnit(*unit)
		cur.PAN = upd.PAN
		cur.ClientName = upd.ClientName
		cur.DematNumber = upd.DematNumber
		cur.ApplicationNo = upd.ApplicationNo
		cur.AllottedQty = upd.AllottedQty
		cur.UpdatedAt = upd.UpdatedAt
		st.units[unit.ID] = cur
		return nil
	})
}

func (r *orderRepo) MarkLineDeleted(_ context.Context, lineID, actor string, at time.Time) error {
	return r.a.write(func(st *state) error {
		l, ok := st.lines[lineID]
		if !ok || l.State != domain.LifecycleActive {
			return fmt.Errorf("order line %s: %w", lineID, domain.ErrNotFound)
		}
		for id, u := range st.units {
			if u.LineID == lineID && u.State == domain.LifecycleActive {
				st.units[id] = deletedUnit(u, actor, at)
			}
		}
		st.lines[lineID] = deletedLine(l, actor, at)
		return nil
	})
}

func deletedLine(l domain.OrderLine, actor string, at time.Time) domain.OrderLine {
	when := at
	l.State = domain.LifecycleDeleted
	l.DeletedBy = actor
	l.DeletedAt = &when
	l.UpdatedAt = at
	return l
}

func deletedUnit(u domain.AllocationUnit, actor string, at time.Time) domain.AllocationUnit {
	when := at
	u.State = domain.LifecycleDeleted
	u.DeletedBy = actor
	u.DeletedAt = &when
	u.UpdatedAt = at
	return u
}

func (r *orderRepo) CountActiveLines(_ context.Context, masterID string) (int64, error) {
	var n int64
	err := r.a.read(func(st *state) error {
		for _, l := range st.lines {
			if l.MasterID == masterID && l.State == domain.LifecycleActive {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *orderRepo) CountActiveLinesByOffering(_ context.Context, companyID, offeringID string) (int64, error) {
	var n int64
	err := r.a.read(func(st *state) error {
		for _, l := range st.lines {
			if l.CompanyID == companyID && l.OfferingID == offeringID && l.State == domain.LifecycleActive &&
				st.masters[l.MasterID].State == domain.LifecycleActive {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *orderRepo) SetMasterActive(_ context.Context, masterID string, active bool) error {
	return r.a.write(func(st *state) error {
		m, ok := st.masters[masterID]
		if !ok {
			return fmt.Errorf("order master %s: %w", masterID, domain.ErrNotFound)
		}
		m.IsActive = active
		st.masters[masterID] = m
		return nil
	})
}

func (st *state) lineMatches(l domain.OrderLine, filter domain.LineFilter) bool {
	if l.State != domain.LifecycleActive || l.CompanyID != filter.CompanyID || l.OfferingID != filter.OfferingID {
		return false
	}
	if !st.liveMaster(l.MasterID) {
		return false
	}
	if filter.Category != nil && l.Category != *filter.Category {
		return false
	}
	if filter.Investor != nil && l.Investor != *filter.Investor {
		return false
	}
	if filter.GroupID != "" {
		for _, u := range st.units {
			if u.LineID == l.ID && u.State == domain.LifecycleActive && u.GroupID == filter.GroupID {
				return true
			}
		}
		return false
	}
	return true
}

func (r *orderRepo) ListActiveLines(_ context.Context, filter domain.LineFilter) ([]*domain.OrderLine, error) {
	var out []*domain.OrderLine
	err := r.a.read(func(st *state) error {
		var items []domain.OrderLine
		for _, l := range st.lines {
			if st.lineMatches(l, filter) {
				items = append(items, l)
			}
		}
		sortByRank(st, items, func(l domain.OrderLine) string { return l.ID })
		for _, l := range items {
			l := copyLine(l)
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) ListActiveUnits(_ context.Context, filter domain.UnitFilter) ([]domain.UnitRow, error) {
	var out []domain.UnitRow
	err := r.a.read(func(st *state) error {
		var units []domain.AllocationUnit
		for _, u := range st.units {
			if u.State != domain.LifecycleActive || u.CompanyID != filter.CompanyID {
				continue
			}
			if filter.GroupID != "" && u.GroupID != filter.GroupID {
				continue
			}
			if filter.OnlyFilled && u.PAN == "" {
				continue
			}
			l, ok := st.lines[u.LineID]
			if !ok || l.State != domain.LifecycleActive || l.OfferingID != filter.OfferingID || !st.liveMaster(l.MasterID) {
				continue
			}
			units = append(units, u)
		}
		sortByRank(st, units, func(u domain.AllocationUnit) string { return u.ID })
		for _, u := range units {
			u := copyUnit(u)
			l := copyLine(st.lines[u.LineID])
			out = append(out, domain.UnitRow{Unit: &u, Line: &l})
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) ListRecentLines(ctx context.Context, companyID, offeringID string, limit int) ([]*domain.OrderLine, error) {
	lines, err := r.ListActiveLines(ctx, domain.LineFilter{CompanyID: companyID, OfferingID: offeringID})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].CreatedAt.After(lines[j].CreatedAt) })
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

func (r *orderRepo) ListMastersForArchive(_ context.Context, companyID, offeringID string) ([]*domain.OrderMaster, error) {
	var out []*domain.OrderMaster
	err := r.a.read(func(st *state) error {
		var masters []domain.OrderMaster
		for _, m := range st.masters {
			if m.CompanyID == companyID && m.OfferingID == offeringID && m.State == domain.LifecycleActive {
				masters = append(masters, m)
			}
		}
		sortByRank(st, masters, func(m domain.OrderMaster) string { return m.ID })
		for _, m := range masters {
			m := m
			m.Lines = st.activeLinesOf(m.ID)
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) MarkMastersDeleted(_ context.Context, ids []string, actor string, at time.Time) error {
	return r.a.write(func(st *state) error {
		for _, id := range ids {
			m, ok := st.masters[id]
			if !ok {
				return fmt.Errorf("order master %s: %w", id, domain.ErrNotFound)
			}
			when := at
			m.State = domain.LifecycleDeleted
			m.IsActive = false
			m.DeletedBy = actor
			m.DeletedAt = &when
			m.UpdatedAt = at
			st.masters[id] = m
		}
		return nil
	})
}

func (r *orderRepo) MarkLinesDeleted(_ context.Context, ids []string, actor string, at time.Time) error {
	return r.a.write(func(st *state) error {
		for _, id := range ids {
			l, ok := st.lines[id]
			if !ok {
				return fmt.Errorf("order line %s: %w", id, domain.ErrNotFound)
			}
			st.lines[id] = deletedLine(l, actor, at)
		}
		return nil
	})
}

func (r *orderRepo) MarkUnitsDeleted(_ context.Context, ids []string, actor string, at time.Time) error {
	return r.a.write(func(st *state) error {
		for _, id := range ids {
			u, ok := st.units[id]
			if !ok {
				return fmt.Errorf("allocation unit %s: %w", id, domain.ErrNotFound)
			}
			st.units[id] = deletedUnit(u, actor, at)
		}
		return nil
	})
}
