package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
)

type archiveRepo struct{ a access }

func (r *archiveRepo) CreateHistory(_ context.Context, history *domain.DeleteHistory) error {
	return r.a.write(func(st *state) error {
		st.histories[history.ID] = *history
		st.track(history.ID)
		return nil
	})
}

func (r *archiveRepo) SaveMasterSnapshots(_ context.Context, snapshots []domain.MasterSnapshot) error {
	return r.a.write(func(st *state) error {
		st.masterSnaps = append(st.masterSnaps, snapshots...)
		return nil
	})
}

func (r *archiveRepo) SaveLineSnapshots(_ context.Context, snapshots []domain.LineSnapshot) error {
	return r.a.write(func(st *state) error {
		for _, s := range snapshots {
			s.RemarkIDs = append([]string(nil), s.RemarkIDs...)
			st.lineSnaps = append(st.lineSnaps, s)
		}
		return nil
	})
}

func (r *archiveRepo) SaveUnitSnapshots(_ context.Context, snapshots []domain.UnitSnapshot) error {
	return r.a.write(func(st *state) error {
		st.unitSnaps = append(st.unitSnaps, snapshots...)
		return nil
	})
}

func (r *archiveRepo) GetArchive(_ context.Context, companyID, historyID string) (*domain.Archive, error) {
	var out *domain.Archive
	err := r.a.read(func(st *state) error {
		h, ok := st.histories[historyID]
		if !ok || h.CompanyID != companyID {
			return fmt.Errorf("delete history %s: %w", historyID, domain.ErrNotFound)
		}
		archive := &domain.Archive{History: &h}
		for _, s := range st.masterSnaps {
			if s.HistoryID == historyID {
				archive.Masters = append(archive.Masters, s)
			}
		}
		for _, s := range st.lineSnaps {
			if s.HistoryID == historyID {
				s.RemarkIDs = append([]string(nil), s.RemarkIDs...)
				archive.Lines = append(archive.Lines, s)
			}
		}
		for _, s := range st.unitSnaps {
			if s.HistoryID == historyID {
				archive.Units = append(archive.Units, s)
			}
		}
		out = archive
		return nil
	})
	return out, err
}

func (r *archiveRepo) ListHistories(_ context.Context, filter domain.HistoryFilter) ([]*domain.DeleteHistory, int64, error) {
	var out []*domain.DeleteHistory
	var total int64
	err := r.a.read(func(st *state) error {
		var items []domain.DeleteHistory
		for _, h := range st.histories {
			if h.CompanyID != filter.CompanyID || !inRange(h.DeletedAt, filter.From, filter.To) {
				continue
			}
			if filter.OfferingID != "" && h.OfferingID != filter.OfferingID {
				continue
			}
			items = append(items, h)
		}
		sort.SliceStable(items, func(i, j int) bool { return st.rank[items[i].ID] > st.rank[items[j].ID] })
		total = int64(len(items))
		for _, h := range paginate(items, filter.Page, filter.Limit) {
			h := h
			out = append(out, &h)
		}
		return nil
	})
	return out, total, err
}

// SnapshotCounts reports how many master, line and unit snapshot rows exist.
func (s *Store) SnapshotCounts() (masters, lines, units int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.st.masterSnaps), len(s.st.lineSnaps), len(s.st.unitSnaps)
}

// HistoryCount reports how many archival batches were committed.
func (s *Store) HistoryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.st.histories)
}
