package output

import (
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
)

// Page is one page of an amortization schedule. Number is 1-indexed.
type Page struct {
	Number     int                 `json:"number"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
	TotalRows  int                 `json:"totalRows"`
	Rows       []loans.ScheduleRow `json:"rows"`
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// Paginate returns the requested page of rows. A page size below 1 falls
// back to the default, the page number is clamped to [1, TotalPages], and an
// empty schedule yields a single empty page.
func Paginate(rows []loans.ScheduleRow, pageSize, page int) Page {
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}

	totalPages := (len(rows) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}

	return Page{
		Number:     page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalRows:  len(rows),
		Rows:       rows[start:end],
	}
}
