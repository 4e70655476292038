// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// FindLoanResult finds a loan result by ID in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindLoanResult(results []loans.LoanResult, id string) *loans.LoanResult {
	for i := range results {
		if results[i].LoanID == id {
			return &results[i]
		}
	}
	return nil
}

// AssertClose fails the test when got and want differ by more than tolerance.
func AssertClose(t testing.TB, name string, got, want, tolerance float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, tolerance) {
		t.Errorf("%s = %.4f, expected %.4f (tolerance %v)", name, got, want, tolerance)
	}
}
