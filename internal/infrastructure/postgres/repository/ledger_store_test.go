package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestNotFound_MapsMissingAndMalformedIDs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"missing row", gorm.ErrRecordNotFound, true},
		{"malformed uuid", fmt.Errorf("query: %w", &pgconn.PgError{Code: invalidTextRepresentation}), true},
		{"other postgres error", &pgconn.PgError{Code: "23505"}, false},
		{"connection error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := notFound(tt.err, "offering", "abc")
			if got := errors.Is(err, domain.ErrNotFound); got != tt.notFound {
				t.Fatalf("errors.Is(ErrNotFound) = %v, want %v (%v)", got, tt.notFound, err)
			}
		})
	}
}

func TestRequireRows(t *testing.T) {
	tests := []struct {
		name string
		res  *gorm.DB
		want error
	}{
		{"updated", &gorm.DB{RowsAffected: 1}, nil},
		{"no rows", &gorm.DB{}, domain.ErrNotFound},
		{"malformed uuid", &gorm.DB{Error: &pgconn.PgError{Code: invalidTextRepresentation}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireRows(tt.res, "group", "abc")
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidIDs(t *testing.T) {
	good := "3f1c7a52-8d0e-4b7a-9a51-0c2d1e6f7a10"
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"all valid", []string{good}, []string{good}},
		{"drops malformed", []string{"abc", good, ""}, []string{good}},
		{"none valid", []string{"abc"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validIDs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("validIDs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestListFilters_MalformedIDReturnsEmpty(t *testing.T) {
	db, recorded := dryRunDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	bad := "not-a-uuid"

	lines, err := NewDefaultOrderRepository(db).ListActiveLines(ctx, domain.LineFilter{CompanyID: "company-1", OfferingID: bad})
	if err != nil || len(lines) != 0 {
		t.Fatalf("ListActiveLines: %d lines, %v", len(lines), err)
	}
	txs, total, err := NewDefaultPaymentRepository(db).ListTransactions(ctx, domain.PaymentFilter{CompanyID: "company-1", GroupID: bad})
	if err != nil || total != 0 || len(txs) != 0 {
		t.Fatalf("ListTransactions: %d rows of %d, %v", len(txs), total, err)
	}
	groups, err := NewDefaultGroupRepository(db).GetGroupsByIDs(ctx, []string{bad})
	if err != nil || len(groups) != 0 {
		t.Fatalf("GetGroupsByIDs: %d groups, %v", len(groups), err)
	}
	if len(*recorded) != 0 {
		t.Fatalf("malformed ids still reached the database: %d statements", len(*recorded))
	}
}
