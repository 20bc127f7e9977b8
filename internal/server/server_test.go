package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
	"github.com/iwvelando/uk-tax-calculator/pkg/testutil"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), taxrules.Builtin(), constants.DefaultMaxUploadSizeBytes, "test")
}

func uploadRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "config.yaml")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/assessment", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleComputeSuccess(t *testing.T) {
	payload := `{"taxYear": "2024/25", "inputs": {"employmentIncome": "50,000"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/compute", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp computeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Result.TaxYear != "2024/25" {
		t.Fatalf("expected tax year 2024/25, got %s", resp.Result.TaxYear)
	}
	testutil.AssertAmount(t, "income tax", resp.Result.Tax.Totals.IncomeTax, 7486)
	if len(resp.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", resp.Warnings)
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
}

func TestHandleComputeWarnings(t *testing.T) {
	payload := `{"taxYear": "2010/11", "inputs": {"employmentIncome": 40000, "dividends": -5, "bonus": 100}}`
	req := httptest.NewRequest(http.MethodPost, "/api/compute", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp computeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Result.FellBack || resp.Result.TaxYear != "2025/26" {
		t.Fatalf("expected fallback to 2025/26, got %s (fellBack %v)", resp.Result.TaxYear, resp.Result.FellBack)
	}
	if len(resp.Warnings) != 3 {
		t.Fatalf("expected 3 warnings (tax year, negative, unknown), got %v", resp.Warnings)
	}
}

func TestHandleComputeHugeAmounts(t *testing.T) {
	payload := `{"inputs": {"employmentIncome": 1e308, "selfEmploymentIncome": 1e308}}`
	req := httptest.NewRequest(http.MethodPost, "/api/compute", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp computeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}

	totals := resp.Result.Tax.Totals
	if math.IsInf(totals.IncomeTax, 0) || math.IsInf(totals.ResidualTax, 0) || totals.ResidualTax <= 0 {
		t.Fatalf("expected finite positive tax, got income %v residual %v", totals.IncomeTax, totals.ResidualTax)
	}
	if resp.Result.Tax.Inputs.EmploymentIncome != constants.MaxAmount {
		t.Fatalf("expected employment income capped at %v, got %v", constants.MaxAmount, resp.Result.Tax.Inputs.EmploymentIncome)
	}
	if len(resp.Warnings) != 2 {
		t.Fatalf("expected 2 capped-amount warnings, got %v", resp.Warnings)
	}
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	h := &handler{logger: zap.NewNop()}
	rr := httptest.NewRecorder()
	h.writeJSON(rr, http.StatusOK, map[string]float64{"residualTax": math.Inf(1)})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rr.Body.String(), err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error message, got %v", body)
	}
}

func TestHandleComputeInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/compute", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatal("expected error message in response")
	}
}

func TestHandleComputeMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/compute", nil)
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleAssessmentSuccess(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "test", "test_config.yaml"))
	if err != nil {
		t.Fatalf("failed to read test config: %v", err)
	}

	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, uploadRequest(t, data))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp assessmentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Scenarios) != 2 || len(resp.Results) != 2 {
		t.Fatalf("expected 2 active scenarios, got %v", resp.Scenarios)
	}
	contractor := testutil.FindScenario(resp.Results, "scottish contractor")
	if contractor == nil || contractor.TaxYear != "2026/27" {
		t.Fatalf("expected scottish contractor assessed under 2026/27, got %+v", contractor)
	}
	if resp.CSV == "" {
		t.Fatal("expected CSV data in response")
	}
	if resp.ConfigYAML == "" {
		t.Fatal("expected config YAML in response")
	}
}

func TestHandleAssessmentIgnoresRulesFile(t *testing.T) {
	data := []byte(`rulesFile: custom-rules.yaml
scenarios:
  - name: upload
    active: true
    inputs:
      employmentIncome: 30000
`)
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, uploadRequest(t, data))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp assessmentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	found := false
	for _, warning := range resp.Warnings {
		if strings.Contains(warning, "rulesFile is ignored") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rulesFile warning, got %v", resp.Warnings)
	}
}

func TestHandleAssessmentNoActiveScenarios(t *testing.T) {
	data := []byte(`scenarios:
  - name: disabled
    active: false
`)
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, uploadRequest(t, data))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleAssessmentMissingFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/assessment", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleAssessmentTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, 64, "")
	data := bytes.Repeat([]byte("# padding\n"), 100)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, uploadRequest(t, data))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
}

func TestHandleReport(t *testing.T) {
	payload := `{"name": "report", "inputs": {"employmentIncome": 80000, "eisInvestment": 20000}}`
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected PDF body")
	}
}

func TestHandleYears(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/years", nil)
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp yearsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if strings.Join(resp.Years, ",") != "2024/25,2025/26,2026/27" {
		t.Fatalf("unexpected years %v", resp.Years)
	}
	if resp.DefaultYear != "2025/26" {
		t.Fatalf("expected default year 2025/26, got %s", resp.DefaultYear)
	}
	if resp.CurrentYear == "" {
		t.Fatal("expected current year in response")
	}
}

func TestHandleRules(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		taxYear  string
		fellBack bool
	}{
		{name: "known year", query: "?year=2026/27", taxYear: "2026/27"},
		{name: "unknown year", query: "?year=1999/00", taxYear: "2025/26", fellBack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/rules"+tt.query, nil)
			rr := httptest.NewRecorder()
			newTestHandler().ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}

			var resp struct {
				FellBack bool                   `json:"fellBack"`
				Rules    map[string]interface{} `json:"rules"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Rules["taxYear"] != tt.taxYear {
				t.Fatalf("expected rules for %s, got %v", tt.taxYear, resp.Rules["taxYear"])
			}
			if resp.FellBack != tt.fellBack {
				t.Fatalf("expected fellBack %v, got %v", tt.fellBack, resp.FellBack)
			}
		})
	}
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, constants.DefaultMaxUploadSizeBytes, "v1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "v1.2.3" {
		t.Fatalf("expected version v1.2.3, got %s", resp["version"])
	}
}

func TestHandleVersionDefault(t *testing.T) {
	handler := NewHandler(nil, nil, 0, "   ")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "dev" {
		t.Fatalf("expected default version dev, got %s", resp["version"])
	}
}

func TestCorrelationID(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	generated := rr.Header().Get(constants.CorrelationIDHeader)
	if len(generated) != 36 {
		t.Fatalf("expected generated UUID correlation ID, got %q", generated)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(constants.CorrelationIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get(constants.CorrelationIDHeader); got != "abc-123" {
		t.Fatalf("expected caller correlation ID to be echoed, got %q", got)
	}
}
