package csvrows

import (
	"strings"
	"testing"
)

func TestReadSkipsHeaderAndBlankRecords(t *testing.T) {
	input := "Group,OrderType,Category,Investor,Qty,Rate,Strike,Date,Time,Remark\n" +
		"Alpha,BUY,Kostak,Retail,2,100,,2025-01-02,10:30,\"vip, late\"\n" +
		",,,,,,,,,\n" +
		"Beta,SELL,Premium,Retail,1,5,Premium,2025-01-02,11:00,\n"

	rows, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Alpha" || rows[0][9] != "vip, late" {
		t.Errorf("unexpected first row: %q", rows[0])
	}
	if rows[1][6] != "Premium" {
		t.Errorf("expected strike marker Premium, got %q", rows[1][6])
	}
}

func TestReadHeaderOnly(t *testing.T) {
	rows, err := Read(strings.NewReader("Group,OrderType\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestReadMalformedQuote(t *testing.T) {
	_, err := Read(strings.NewReader("h\n\"unterminated\n"))
	if err == nil {
		t.Fatal("expected error for malformed csv")
	}
}
