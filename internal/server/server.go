package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/uk-tax-calculator/internal/assessment"
	"github.com/iwvelando/uk-tax-calculator/internal/config"
	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/output"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxengine"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxyear"
	"github.com/iwvelando/uk-tax-calculator/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	runner        *assessment.Runner
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the tax API.
func NewHandler(logger *zap.Logger, registry *taxrules.Registry, maxUploadSize int64, version string) http.Handler {
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

	h := &handler{
		logger:        logger,
		runner:        assessment.NewRunner(logger, registry),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Single computation from a JSON payload
	mux.HandleFunc("/api/compute", h.handleCompute)

	// Every active scenario of an uploaded configuration file
	mux.HandleFunc("/api/assessment", h.handleAssessment)

	// PDF rendering of a single computation
	mux.HandleFunc("/api/report", h.handleReport)

	// Rule table metadata
	mux.HandleFunc("/api/years", h.handleYears)
	mux.HandleFunc("/api/rules", h.handleRules)

	mux.HandleFunc("/api/version", h.handleVersion)

	return withCorrelationID(logger, mux)
}

type computeRequest struct {
	TaxYear string                 `json:"taxYear"`
	Name    string                 `json:"name"`
	Inputs  map[string]interface{} `json:"inputs"`
}

type computeResponse struct {
	Result   assessment.Result `json:"result"`
	Warnings []string          `json:"warnings,omitempty"`
	Duration string            `json:"duration"`
}

type assessmentResponse struct {
	Scenarios  []string            `json:"scenarios"`
	Results    []assessment.Result `json:"results"`
	CSV        string              `json:"csv"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   string              `json:"duration"`
	ConfigYAML string              `json:"configYaml,omitempty"`
}

type yearsResponse struct {
	Years       []string `json:"years"`
	DefaultYear string   `json:"defaultYear"`
	CurrentYear string   `json:"currentYear"`
}

type rulesResponse struct {
	RequestedYear string         `json:"requestedYear,omitempty"`
	FellBack      bool           `json:"fellBack"`
	Rules         taxrules.Rules `json:"rules"`
}

func (h *handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompute"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, ok := h.decodeComputeRequest(w, r, op)
	if !ok {
		return
	}

	result, warnings := h.compute(req)
	elapsed := time.Since(start)

	h.requestLogger(r).Info("tax computed",
		zap.String("op", op),
		zap.String("taxYear", result.TaxYear),
		zap.Float64("residualTax", result.Tax.Totals.ResidualTax),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, computeResponse{
		Result:   result,
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeComputeRequest(w, r, op)
	if !ok {
		return
	}

	result, _ := h.compute(req)
	report, err := output.PDFReport([]assessment.Result{result})
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.DefaultPDFFile))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report); err != nil {
		h.requestLogger(r).Error("failed to write PDF response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) decodeComputeRequest(w http.ResponseWriter, r *http.Request, op string) (computeRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return req, false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return req, false
	}
	if req.Inputs == nil {
		req.Inputs = make(map[string]interface{})
	}
	return req, true
}

func (h *handler) compute(req computeRequest) (assessment.Result, []string) {
	var warnings []string
	if warning := validation.ValidateTaxYear("request", req.TaxYear, h.runner.Registry()); warning != "" {
		warnings = append(warnings, warning)
	}
	warnings = append(warnings, validation.ValidateInputs("request", req.Inputs)...)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "request"
	}
	return h.runner.Assess(name, req.TaxYear, taxengine.InputsFromMap(req.Inputs)), warnings
}

func (h *handler) handleAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAssessment"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.requestLogger(r).Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration(h.runner.Registry())
	if cfg.RulesFile != "" {
		warnings = append(warnings, "rulesFile is ignored for uploaded configurations; the server's rule tables are used")
	}

	results, err := h.runner.Run(*cfg)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to assess configuration: %v", err), op)
		return
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	response := assessmentResponse{
		Scenarios:  scenarioNames(results),
		Results:    results,
		CSV:        csvData,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		ConfigYAML: buf.String(),
	}

	h.requestLogger(r).Info("assessment computed",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleYears(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	registry := h.runner.Registry()
	h.writeJSON(w, http.StatusOK, yearsResponse{
		Years:       registry.Years(),
		DefaultYear: registry.DefaultYear(),
		CurrentYear: taxyear.Current(),
	})
}

func (h *handler) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	requested := strings.TrimSpace(r.URL.Query().Get("year"))
	rules, fellBack := h.runner.ResolveRules(requested)
	h.writeJSON(w, http.StatusOK, rulesResponse{
		RequestedYear: requested,
		FellBack:      fellBack,
		Rules:         rules,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	return h.logger.With(zap.String("correlationId", correlationIDFromContext(r.Context())))
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.requestLogger(r).Error("tax request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before sending the status so an unencodable
// payload becomes a 500 with an error body.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

func scenarioNames(results []assessment.Result) []string {
	names := make([]string, 0, len(results))
	for _, result := range results {
		names = append(names, result.Name)
	}
	return names
}
