package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"github.com/shopspring/decimal"
)

// ErrExportNotImplemented is returned by export formats that are reserved but
// not yet available.
var ErrExportNotImplemented = errors.New("export format not implemented")

// CSVHeader is the header row of an exported schedule.
var CSVHeader = []string{
	"Month",
	"Monthly Payment",
	"Principal Payment",
	"Prepayment",
	"Interest Payment",
	"Remaining Principal",
	"Total Interest",
	"Total Principal",
}

// Exporter writes the amortization schedule of one loan.
type Exporter interface {
	Export(w io.Writer, result loans.LoanResult) error
	ContentType() string
	Extension() string
}

// ExporterFor returns the exporter registered for a format name.
func ExporterFor(format string) (Exporter, error) {
	switch format {
	case constants.OutputFormatCSV:
		return CSVExporter{}, nil
	case constants.ExportFormatPDF:
		return PDFExporter{}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q, expected %s or %s",
		format, constants.OutputFormatCSV, constants.ExportFormatPDF)
}

// CSVExporter writes schedules as CSV with amounts fixed to two decimals.
type CSVExporter struct{}

// ContentType implements Exporter.
func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Extension implements Exporter.
func (CSVExporter) Extension() string { return "csv" }

// Export implements Exporter.
func (CSVExporter) Export(w io.Writer, result loans.LoanResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range result.Schedule.Rows {
		record := []string{
			strconv.Itoa(row.Month),
			fixed(row.Payment),
			fixed(row.Principal),
			fixed(row.Prepayment),
			fixed(row.Interest),
			fixed(row.RemainingPrincipal),
			fixed(row.TotalInterest),
			fixed(row.TotalPrincipal),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// PDFExporter is the extension point for PDF output.
type PDFExporter struct{}

// ContentType implements Exporter.
func (PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Exporter.
func (PDFExporter) Extension() string { return "pdf" }

// Export implements Exporter and always fails with ErrExportNotImplemented.
func (PDFExporter) Export(io.Writer, loans.LoanResult) error {
	return ErrExportNotImplemented
}
