package output

import (
	"testing"

	"github.com/iwvelando/mortgage-calculator/pkg/loans"
)

func makeRows(n int) []loans.ScheduleRow {
	rows := make([]loans.ScheduleRow, n)
	for i := range rows {
		rows[i].Month = i + 1
	}
	return rows
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		rows       int
		pageSize   int
		page       int
		number     int
		totalPages int
		firstMonth int
		count      int
	}{
		{"First page of 30 years", 360, 12, 1, 1, 30, 1, 12},
		{"Last page of 30 years", 360, 12, 30, 30, 30, 349, 12},
		{"Page beyond end is clamped", 360, 12, 99, 30, 30, 349, 12},
		{"Page below one is clamped", 360, 12, -3, 1, 30, 1, 12},
		{"Partial last page", 25, 12, 3, 3, 3, 25, 1},
		{"Arbitrary page size", 100, 7, 2, 2, 15, 8, 7},
		{"Default page size", 30, 0, 2, 2, 3, 13, 12},
		{"Empty schedule", 0, 12, 1, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(makeRows(tt.rows), tt.pageSize, tt.page)
			if page.Number != tt.number {
				t.Errorf("Number = %d, expected %d", page.Number, tt.number)
			}
			if page.TotalPages != tt.totalPages {
				t.Errorf("TotalPages = %d, expected %d", page.TotalPages, tt.totalPages)
			}
			if page.TotalRows != tt.rows {
				t.Errorf("TotalRows = %d, expected %d", page.TotalRows, tt.rows)
			}
			if len(page.Rows) != tt.count {
				t.Fatalf("len(Rows) = %d, expected %d", len(page.Rows), tt.count)
			}
			if tt.count > 0 && page.Rows[0].Month != tt.firstMonth {
				t.Errorf("first month = %d, expected %d", page.Rows[0].Month, tt.firstMonth)
			}
		})
	}
}

func TestPageNavigation(t *testing.T) {
	rows := makeRows(24)

	first := Paginate(rows, 12, 1)
	if first.HasPrevious() || !first.HasNext() {
		t.Errorf("first page navigation: previous=%t next=%t", first.HasPrevious(), first.HasNext())
	}

	last := Paginate(rows, 12, 2)
	if !last.HasPrevious() || last.HasNext() {
		t.Errorf("last page navigation: previous=%t next=%t", last.HasPrevious(), last.HasNext())
	}
}

func TestPaginateCoversEveryRowOnce(t *testing.T) {
	rows := makeRows(95)
	seen := 0
	for n := 1; n <= Paginate(rows, 10, 1).TotalPages; n++ {
		for _, row := range Paginate(rows, 10, n).Rows {
			seen++
			if row.Month != seen {
				t.Fatalf("page %d: month %d out of order, expected %d", n, row.Month, seen)
			}
		}
	}
	if seen != len(rows) {
		t.Errorf("saw %d rows, expected %d", seen, len(rows))
	}
}
