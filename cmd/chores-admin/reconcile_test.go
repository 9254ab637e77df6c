package main

import (
	"bytes"
	"strings"
	"testing"

	"family-chores-go/internal/domain/reconcile"
	"github.com/shopspring/decimal"
)

func TestWriteReportDriftOnly(t *testing.T) {
	report := &reconcile.Report{
		Drifted: 1,
		Children: []reconcile.ChildReport{
			{ChildID: "c1", FirstName: "Ava", StoredEarnings: decimal.NewFromInt(12), ActualEarnings: decimal.NewFromInt(10), Difference: decimal.NewFromInt(-2), Drift: true},
			{ChildID: "c2", FirstName: "Ben", StoredEarnings: decimal.NewFromInt(5), ActualEarnings: decimal.NewFromInt(5)},
		},
	}

	var out bytes.Buffer
	if err := writeReport(&out, report, true); err != nil {
		t.Fatalf("write report: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Ava") || !strings.Contains(text, "-2.00") {
		t.Fatalf("expected drifted child in report, got %q", text)
	}
	if strings.Contains(text, "Ben") {
		t.Fatalf("expected clean child to be filtered, got %q", text)
	}
	if !strings.Contains(text, "1 of 2 children drifted") {
		t.Fatalf("expected summary line, got %q", text)
	}
}
