// Package server exposes the loan calculator as a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/pkg/chart"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/finance"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/loans"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

type calculateOptions struct {
	Page     int
	PageSize int
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	router := mux.NewRouter()
	router.Use(h.requestContext)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/calculate", h.handleCalculate).Methods(http.MethodPost)
	api.HandleFunc("/export/{format}", h.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/chart", h.handleChart).Methods(http.MethodPost)
	api.HandleFunc("/investment", h.handleInvestment).Methods(http.MethodPost)
	api.HandleFunc("/currencies", h.handleCurrencies).Methods(http.MethodGet)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	return router
}

type calculateResponse struct {
	Currency     format.CurrencyInfo           `json:"currency"`
	PeriodMonths int                           `json:"periodMonths"`
	Totals       loans.Totals                  `json:"totals"`
	Display      map[string]string             `json:"display"`
	Loans        []loanResponse                `json:"loans"`
	Investment   *finance.InvestmentProjection `json:"investment,omitempty"`
	Warnings     []string                      `json:"warnings,omitempty"`
	Duration     string                        `json:"duration"`
}

type loanResponse struct {
	LoanID              string            `json:"loanId"`
	Name                string            `json:"name,omitempty"`
	Principal           float64           `json:"principal"`
	MonthlyEMI          float64           `json:"monthlyEMI"`
	TotalInterest       float64           `json:"totalInterest"`
	TotalAmount         float64           `json:"totalAmount"`
	PeriodMonths        int               `json:"periodMonths"`
	PeriodInterestPaid  float64           `json:"periodInterestPaid"`
	PeriodPrincipalPaid float64           `json:"periodPrincipalPaid"`
	PaymentProgress     float64           `json:"paymentProgress"`
	ActualTermMonths    int               `json:"actualTermMonths"`
	NominalTermMonths   int               `json:"nominalTermMonths"`
	Display             map[string]string `json:"display"`
	Schedule            output.Page       `json:"schedule"`
	HasNextPage         bool              `json:"hasNextPage"`
	HasPreviousPage     bool              `json:"hasPreviousPage"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := time.Now()

	report, opts, ok := h.loadReport(w, r, op)
	if !ok {
		return
	}

	pageSize := report.PageSize
	if opts.PageSize > 0 {
		pageSize = opts.PageSize
	}

	cur := report.Currency
	response := calculateResponse{
		Currency:     cur,
		PeriodMonths: report.PeriodMonths,
		Totals:       report.Totals,
		Display: map[string]string{
			"principal":           format.Currency(report.Totals.Principal, cur),
			"monthlyEMI":          format.Currency(report.Totals.MonthlyEMI, cur),
			"totalInterest":       format.Currency(report.Totals.TotalInterest, cur),
			"totalAmount":         format.Currency(report.Totals.TotalAmount, cur),
			"periodInterestPaid":  format.Currency(report.Totals.PeriodInterestPaid, cur),
			"periodPrincipalPaid": format.Currency(report.Totals.PeriodPrincipalPaid, cur),
		},
		Loans:      make([]loanResponse, 0, len(report.Loans)),
		Investment: report.Investment,
		Warnings:   report.Warnings,
	}

	for _, result := range report.Loans {
		page := output.Paginate(result.Schedule.Rows, pageSize, opts.Page)
		response.Loans = append(response.Loans, loanResponse{
			LoanID:              result.LoanID,
			Name:                result.Name,
			Principal:           result.Principal,
			MonthlyEMI:          result.MonthlyEMI,
			TotalInterest:       result.TotalInterest,
			TotalAmount:         result.TotalAmount,
			PeriodMonths:        result.PeriodMonths,
			PeriodInterestPaid:  result.PeriodInterestPaid,
			PeriodPrincipalPaid: result.PeriodPrincipalPaid,
			PaymentProgress:     result.PaymentProgress(),
			ActualTermMonths:    result.ActualTermMonths,
			NominalTermMonths:   result.NominalTermMonths,
			Display: map[string]string{
				"principal":           format.Currency(result.Principal, cur),
				"monthlyEMI":          format.Currency(result.MonthlyEMI, cur),
				"totalInterest":       format.Currency(result.TotalInterest, cur),
				"totalAmount":         format.Currency(result.TotalAmount, cur),
				"periodInterestPaid":  format.Currency(result.PeriodInterestPaid, cur),
				"periodPrincipalPaid": format.Currency(result.PeriodPrincipalPaid, cur),
			},
			Schedule:        page,
			HasNextPage:     page.HasNext(),
			HasPreviousPage: page.HasPrevious(),
		})
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("calculation completed",
		zap.String("op", op),
		zap.String("requestId", RequestID(r.Context())),
		zap.Int("loans", len(response.Loans)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	exporter, err := output.ExporterFor(mux.Vars(r)["format"])
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	report, _, ok := h.loadReport(w, r, op)
	if !ok {
		return
	}

	result, ok := h.selectLoan(w, r, report, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, *result); err != nil {
		if errors.Is(err, output.ErrExportNotImplemented) {
			h.respondErrorWithOp(w, r, http.StatusNotImplemented, err.Error(), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to export schedule: %v", err), op)
		return
	}

	filename := fmt.Sprintf("%s-schedule.%s", result.LoanID, exporter.Extension())
	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write export", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleChart"

	report, _, ok := h.loadReport(w, r, op)
	if !ok {
		return
	}

	result, ok := h.selectLoan(w, r, report, op)
	if !ok {
		return
	}

	img, err := chart.BalanceChart(*result, report.Currency)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		h.logger.Warn("failed to write chart", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleInvestment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInvestment"

	payload, ok := h.decodePayload(w, r, op)
	if !ok {
		return
	}

	input, err := validation.ParseInvestmentForm(validation.InvestmentForm{
		CurrentValue: cast.ToString(payload["currentValue"]),
		AnnualRate:   cast.ToString(payload["annualRate"]),
		Years:        cast.ToString(payload["years"]),
	})
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	projection, err := finance.NewInvestmentProcessor(h.logger).Project(input)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, projection)
}

func (h *handler) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"currencies": format.Currencies(),
		"default":    format.DefaultCurrency(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// loadReport reads the configuration from the request and computes the
// report. It writes the error response itself and returns false on failure.
func (h *handler) loadReport(w http.ResponseWriter, r *http.Request, op string) (*calculator.Report, calculateOptions, bool) {
	configBytes, opts, ok := h.readConfig(w, r, op)
	if !ok {
		return nil, opts, false
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return nil, opts, false
	}

	report, err := calculator.GetReport(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, r, statusForError(err), err.Error(), op)
		return nil, opts, false
	}
	return report, opts, true
}

// readConfig returns YAML configuration bytes from either a multipart upload
// (field "file") or a JSON body of the form {"config": {...}, "options":
// {...}}. A JSON body without a "config" key is the configuration itself.
func (h *handler) readConfig(w http.ResponseWriter, r *http.Request, op string) ([]byte, calculateOptions, bool) {
	var opts calculateOptions

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			h.respondBodyError(w, r, err, op)
			return nil, opts, false
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
			return nil, opts, false
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file", zap.String("op", op), zap.Error(closeErr))
			}
		}()

		data, err := io.ReadAll(file)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
			return nil, opts, false
		}
		opts.Page = cast.ToInt(r.FormValue("page"))
		opts.PageSize = cast.ToInt(r.FormValue("pageSize"))
		return data, opts, true
	}

	payload, ok := h.decodePayload(w, r, op)
	if !ok {
		return nil, opts, false
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, "invalid config payload: expected object", op)
			return nil, opts, false
		}
		configPayload = cfgMap
	}

	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, "invalid options payload: expected object", op)
			return nil, opts, false
		}
		opts.Page = cast.ToInt(optsMap["page"])
		opts.PageSize = cast.ToInt(optsMap["pageSize"])
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return nil, opts, false
	}
	return configBytes, opts, true
}

func (h *handler) decodePayload(w http.ResponseWriter, r *http.Request, op string) (map[string]interface{}, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondBodyError(w, r, err, op)
		return nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return payload, true
}

func (h *handler) selectLoan(w http.ResponseWriter, r *http.Request, report *calculator.Report, op string) (*loans.LoanResult, bool) {
	key := r.URL.Query().Get("loan")
	if key == "" {
		key = "1"
	}
	result, ok := report.FindLoan(key)
	if !ok {
		h.respondErrorWithOp(w, r, http.StatusNotFound, fmt.Sprintf("loan %q not found", key), op)
		return nil, false
	}
	return result, true
}

func statusForError(err error) int {
	var validationErr *validation.ValidationError
	var inputErr *loans.InvalidInputError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &inputErr), errors.Is(err, calculator.ErrNoLoans):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) respondBodyError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestId", RequestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes before writing the status so an unencodable payload
// becomes a 500 instead of an empty 200.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
