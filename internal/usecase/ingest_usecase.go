package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/metrics"
	ingestdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/ingest"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

// Upload column order.
const (
	colGroup = iota
	colDirection
	colCategory
	colInvestor
	colQuantity
	colRate
	colStrike
	colDate
	colTime
	colRemark
	uploadColumns
)

var columnNames = [uploadColumns]string{"Group", "OrderType", "Category", "Investor", "Quantity", "Rate", "Strike", "Date", "Time", "Remark"}

var (
	uploadDateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02"}
	uploadTimeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}
)

type IngestUsecase interface {
	Upload(ctx context.Context, input *ingestdto.UploadInput) (*ingestdto.UploadOutput, error)
}

type DefaultIngestUsecase struct {
	Store     domain.LedgerStore
	Publisher domain.EventPublisher
	Audit     domain.AuditLogger
	Metrics   *metrics.LedgerMetrics
	Now       func() time.Time
}

func NewDefaultIngestUsecase(
	store domain.LedgerStore,
	publisher domain.EventPublisher,
	audit domain.AuditLogger,
	ledgerMetrics *metrics.LedgerMetrics,
) *DefaultIngestUsecase {
	return &DefaultIngestUsecase{
		Store:     store,
		Publisher: publisher,
		Audit:     audit,
		Metrics:   ledgerMetrics,
		Now:       time.Now,
	}
}

type uploadRow struct {
	group     string
	direction domain.Direction
	category  domain.Category
	investor  domain.InvestorTier
	quantity  int
	rate      decimal.Decimal
	strike    string
	kind      domain.StrikeKind
	orderedAt time.Time
	remarks   []string
}

// Upload turns every row into a line of a single new master. Rows are all
// parsed before the first write; any failure leaves the store untouched.
func (uc *DefaultIngestUsecase) Upload(ctx context.Context, input *ingestdto.UploadInput) (*ingestdto.UploadOutput, error) {
	now := uc.Now()
	out, err := uc.upload(ctx, input, now)
	if err != nil {
		uc.recordUpload("rejected", 0, 0)
		auditRejected(ctx, uc.Audit, domain.AuditEntry{
			Operation:  "orders.upload",
			CompanyID:  input.CompanyID,
			OfferingID: input.OfferingID,
			Actor:      input.Actor,
			Reason:     err.Error(),
			Timestamp:  now,
		})
		return nil, err
	}
	uc.recordUpload("ok", out.Lines, out.Units)
	publishAsync(uc.Publisher, domain.LedgerEvent{
		Type:       domain.EventOrdersUploaded,
		CompanyID:  input.CompanyID,
		OfferingID: input.OfferingID,
		EntityID:   out.MasterID,
		Actor:      input.Actor,
		Attributes: map[string]any{"batch_ref": out.BatchRef, "lines": out.Lines, "units": out.Units},
		OccurredAt: now,
	})
	return out, nil
}

func (uc *DefaultIngestUsecase) upload(ctx context.Context, input *ingestdto.UploadInput, now time.Time) (*ingestdto.UploadOutput, error) {
	if len(input.Rows) == 0 {
		return nil, domain.ErrEmptyUpload
	}
	parsed := make([]uploadRow, 0, len(input.Rows))
	for i, record := range input.Rows {
		row, err := parseUploadRow(i+1, record)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, row)
	}

	newRef, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("failed to init batch reference generator: %w", err)
	}
	out := &ingestdto.UploadOutput{BatchRef: newRef()}

	err = withinTx(ctx, uc.Store, func(tx domain.LedgerTx) error {
		if _, err := tx.Offerings().GetOfferingByID(ctx, input.CompanyID, input.OfferingID); err != nil {
			return err
		}
		resolver := newNameResolver(tx, input.CompanyID, input.OfferingID, input.Actor, now)

		master := &domain.OrderMaster{
			ID:         uuid.New().String(),
			CompanyID:  input.CompanyID,
			OfferingID: input.OfferingID,
			PlacedBy:   input.Actor,
			PlacedAt:   now,
			IsActive:   true,
			State:      domain.LifecycleActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for _, row := range parsed {
			groupID, err := resolver.group(ctx, row.group)
			if err != nil {
				return err
			}
			remarkIDs, err := resolver.remarks(ctx, row.remarks)
			if err != nil {
				return err
			}
			line := &domain.OrderLine{
				ID:          uuid.New().String(),
				MasterID:    master.ID,
				CompanyID:   input.CompanyID,
				OfferingID:  input.OfferingID,
				GroupID:     groupID,
				Direction:   row.direction,
				Category:    row.category,
				Investor:    row.investor,
				StrikePrice: row.strike,
				StrikeKind:  row.kind,
				Quantity:    row.quantity,
				Rate:        row.rate,
				RemarkIDs:   remarkIDs,
				OrderedAt:   row.orderedAt,
				State:       domain.LifecycleActive,
				CreatedBy:   input.Actor,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			line.Units = newUnits(line, 1, row.quantity, now)
			master.Lines = append(master.Lines, line)
			out.Units += len(line.Units)
		}
		if err := tx.Orders().CreateMaster(ctx, master); err != nil {
			return fmt.Errorf("failed to create order master: %w", err)
		}
		out.MasterID = master.ID
		out.Lines = len(master.Lines)
		out.GroupsCreated = resolver.groupsCreated
		out.RemarksCreated = resolver.remarksCreated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseUploadRow(rowNum int, record []string) (uploadRow, error) {
	if len(record) < uploadColumns {
		return uploadRow{}, &domain.ParseError{
			Row:    rowNum,
			Column: columnNames[len(record)],
			Value:  strings.Join(record, ","),
			Reason: fmt.Sprintf("expected %d columns, got %d", uploadColumns, len(record)),
		}
	}
	cell := func(col int) string { return strings.TrimSpace(record[col]) }
	fail := func(col int, reason string) error {
		return &domain.ParseError{Row: rowNum, Column: columnNames[col], Value: record[col], Reason: reason}
	}

	var row uploadRow
	if row.group = cell(colGroup); row.group == "" {
		return row, fail(colGroup, "group name is required")
	}
	var ok bool
	if row.direction, ok = domain.ParseDirection(cell(colDirection)); !ok {
		return row, fail(colDirection, "")
	}
	if row.category, ok = domain.ParseCategory(cell(colCategory)); !ok {
		return row, fail(colCategory, "")
	}
	if row.investor, ok = domain.ParseInvestorTier(cell(colInvestor)); !ok {
		return row, fail(colInvestor, "")
	}

	qty, err := strconv.Atoi(cell(colQuantity))
	if err != nil || qty <= 0 {
		return row, fail(colQuantity, "must be a positive integer")
	}
	row.quantity = qty

	rate, err := decimal.NewFromString(cell(colRate))
	if err != nil || rate.IsNegative() {
		return row, fail(colRate, "must be a non-negative number")
	}
	row.rate = rate

	strike := cell(colStrike)
	switch {
	case row.category.IsOption():
		v, err := decimal.NewFromString(strike)
		if err != nil || !v.IsPositive() {
			return row, fail(colStrike, "call/put rows need a positive numeric strike")
		}
		row.strike, row.kind = v.String(), domain.StrikeValue
	case strings.EqualFold(strike, string(domain.StrikePremium)):
		row.strike, row.kind = string(domain.StrikePremium), domain.StrikePremium
	case strike == "" || strings.EqualFold(strike, string(domain.StrikeApplication)):
		row.strike, row.kind = string(domain.StrikeApplication), domain.StrikeApplication
	default:
		return row, fail(colStrike, "expected Premium or Application")
	}

	date, ok := parseWithLayouts(cell(colDate), uploadDateLayouts)
	if !ok {
		return row, fail(colDate, "unrecognized date")
	}
	clock, ok := parseWithLayouts(strings.ToUpper(cell(colTime)), uploadTimeLayouts)
	if !ok {
		return row, fail(colTime, "unrecognized time")
	}
	row.orderedAt = time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)

	row.remarks = splitRemarkNames(record[colRemark])
	return row, nil
}

func parseWithLayouts(value string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// splitRemarkNames splits on commas, trims and drops case-insensitive repeats.
func splitRemarkNames(text string) []string {
	var names []string
	seen := map[string]bool{}
	for _, part := range strings.Split(text, ",") {
		name := strings.TrimSpace(part)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// nameResolver maps free-text names to ids with get-or-create semantics.
// Its caches live for one upload only.
type nameResolver struct {
	tx         domain.LedgerTx
	companyID  string
	offeringID string
	actor      string
	now        time.Time

	groupCache  map[string]string
	remarkCache map[string]string

	groupsCreated  int
	remarksCreated int
}

func newNameResolver(tx domain.LedgerTx, companyID, offeringID, actor string, now time.Time) *nameResolver {
	return &nameResolver{
		tx:          tx,
		companyID:   companyID,
		offeringID:  offeringID,
		actor:       actor,
		now:         now,
		groupCache:  map[string]string{},
		remarkCache: map[string]string{},
	}
}

func (r *nameResolver) group(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := r.groupCache[key]; ok {
		return id, nil
	}
	existing, err := r.tx.Groups().FindGroupByName(ctx, r.companyID, name)
	switch {
	case err == nil:
		r.groupCache[key] = existing.ID
		return existing.ID, nil
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("failed to look up group %q: %w", name, err)
	}

	offeringID := r.offeringID
	group := &domain.Group{
		ID:         uuid.New().String(),
		CompanyID:  r.companyID,
		OfferingID: &offeringID,
		Name:       strings.TrimSpace(name),
		State:      domain.LifecycleActive,
		CreatedBy:  r.actor,
		CreatedAt:  r.now,
		UpdatedAt:  r.now,
	}
	if err := r.tx.Groups().CreateGroup(ctx, group); err != nil {
		return "", fmt.Errorf("failed to create group %q: %w", name, err)
	}
	r.groupsCreated++
	r.groupCache[key] = group.ID
	return group.ID, nil
}

func (r *nameResolver) remarks(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if id, ok := r.remarkCache[key]; ok {
			ids = append(ids, id)
			continue
		}
		existing, err := r.tx.Remarks().FindRemarkByName(ctx, r.companyID, r.offeringID, name)
		if err == nil {
			r.remarkCache[key] = existing.ID
			ids = append(ids, existing.ID)
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up remark %q: %w", name, err)
		}
		remark := &domain.Remark{
			ID:         uuid.New().String(),
			CompanyID:  r.companyID,
			OfferingID: r.offeringID,
			Name:       name,
			State:      domain.LifecycleActive,
			CreatedBy:  r.actor,
			CreatedAt:  r.now,
		}
		if err := r.tx.Remarks().CreateRemark(ctx, remark); err != nil {
			return nil, fmt.Errorf("failed to create remark %q: %w", name, err)
		}
		r.remarksCreated++
		r.remarkCache[key] = remark.ID
		ids = append(ids, remark.ID)
	}
	return ids, nil
}

func (uc *DefaultIngestUsecase) recordUpload(result string, lines, units int) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordUpload(result, lines)
	if units > 0 {
		uc.Metrics.UnitsCreatedTotal.WithLabelValues("bulk").Add(float64(units))
	}
}
