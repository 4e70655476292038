package datetime

import (
	"strings"
	"testing"
)

func TestMonthSequence(t *testing.T) {
	long, err := MonthSequence("2025-01", DateTimeLayout, 360)
	if err != nil {
		t.Fatalf("MonthSequence() error = %v", err)
	}
	if long[359] != "2054-12" {
		t.Errorf("month 360 = %s, expected 2054-12", long[359])
	}

	months, err := MonthSequence("2025-11", DateTimeLayout, 4)
	if err != nil {
		t.Fatalf("MonthSequence() error = %v", err)
	}
	if got := strings.Join(months, ","); got != "2025-11,2025-12,2026-01,2026-02" {
		t.Errorf("MonthSequence() = %s", got)
	}

	empty, err := MonthSequence("2025-11", DateTimeLayout, 0)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected an empty sequence, got %v, %v", empty, err)
	}

	if _, err := MonthSequence("2025/11", DateTimeLayout, 3); err == nil {
		t.Error("expected an error for a malformed start")
	}
}
