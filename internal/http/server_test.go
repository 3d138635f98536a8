package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"financeflow/internal/budget"
	"financeflow/internal/export"
	"financeflow/internal/files"
	"financeflow/internal/progress"
	"financeflow/internal/services"
	"financeflow/internal/storage"
)

type fixture struct {
	server *Server
	repo   *storage.SQLiteRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	evaluator := budget.NewEvaluator(budget.DefaultApproachingThreshold, budget.LanguageEnglish)
	ts := services.NewTransactionService(repo, evaluator, nil)
	cs := services.NewCategoryService(repo)
	es := services.NewExportService(repo, files.NewStore(t.TempDir()), progress.NewRegistry())

	server := NewServer(":0", repo, ts, cs, es)
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	return &fixture{server: server, repo: repo}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return v
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func currentMonthRange() (string, string) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/transactions", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	f := newFixture(t)

	body := fmt.Sprintf(`{"amount_cents":1250,"description":"Lunch","category_id":1,"type":"expense","date":%q}`, today())
	rec := f.do(t, http.MethodPost, "/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /transactions = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[transactionResponse](t, rec)
	if created.Transaction.ID == 0 {
		t.Error("created transaction has no ID")
	}
	if created.Impacts == nil {
		t.Error("response should carry an impacts array")
	}

	rec = f.do(t, http.MethodGet, "/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /transactions = %d", rec.Code)
	}
	listed := decodeBody[[]jsonTransactionDetail](t, rec)
	if len(listed) != 1 {
		t.Fatalf("listed %d transactions, want 1", len(listed))
	}
	if listed[0].CategoryName == "" {
		t.Error("listed transaction missing joined category name")
	}

	update := fmt.Sprintf(`{"amount_cents":1500,"description":"Lunch and coffee","category_id":1,"type":"expense","date":%q}`, today())
	path := fmt.Sprintf("/transactions/%d", created.Transaction.ID)
	if rec = f.do(t, http.MethodPut, path, update); rec.Code != http.StatusOK {
		t.Fatalf("PUT %s = %d, body %s", path, rec.Code, rec.Body.String())
	}

	if rec = f.do(t, http.MethodDelete, path, ""); rec.Code != http.StatusOK {
		t.Fatalf("DELETE %s = %d", path, rec.Code)
	}

	listed = decodeBody[[]jsonTransactionDetail](t, f.do(t, http.MethodGet, "/transactions", ""))
	if len(listed) != 0 {
		t.Errorf("listed %d transactions after delete, want 0", len(listed))
	}
}

func TestCreateTransactionErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "malformed JSON",
			body:     `{"amount_cents":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty body",
			body:     " ",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty description",
			body:     fmt.Sprintf(`{"amount_cents":100,"description":"","category_id":1,"type":"expense","date":%q}`, today()),
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "bad date format",
			body:     `{"amount_cents":100,"description":"x","category_id":1,"type":"expense","date":"15/06/2025"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown type",
			body:     fmt.Sprintf(`{"amount_cents":100,"description":"x","category_id":1,"type":"transfer","date":%q}`, today()),
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/transactions", tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestAlertFlow(t *testing.T) {
	f := newFixture(t)
	start, end := currentMonthRange()

	budgetBody := fmt.Sprintf(`{"category_id":1,"amount_cents":50000,"period_start":%q,"period_end":%q}`, start, end)
	if rec := f.do(t, http.MethodPost, "/budgets", budgetBody); rec.Code != http.StatusCreated {
		t.Fatalf("POST /budgets = %d, body %s", rec.Code, rec.Body.String())
	}

	// 80% of the budget crosses the approaching threshold.
	txBody := fmt.Sprintf(`{"amount_cents":40000,"description":"Groceries","category_id":1,"type":"expense","date":%q}`, today())
	rec := f.do(t, http.MethodPost, "/transactions", txBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /transactions = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[transactionResponse](t, rec)
	if len(created.Impacts) != 1 || len(created.Impacts[0].Alerts) != 1 {
		t.Fatalf("impacts = %+v, want one impact with one alert", created.Impacts)
	}
	if got := created.Impacts[0].Alerts[0].AlertType; got != "approaching" {
		t.Errorf("alert type = %q, want approaching", got)
	}

	alerts := decodeBody[[]jsonAlert](t, f.do(t, http.MethodGet, "/alerts", ""))
	if len(alerts) != 1 {
		t.Fatalf("GET /alerts returned %d alerts, want 1", len(alerts))
	}

	ackPath := fmt.Sprintf("/alerts/%d/acknowledge", alerts[0].ID)
	if rec := f.do(t, http.MethodPost, ackPath, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("POST %s = %d", ackPath, rec.Code)
	}

	alerts = decodeBody[[]jsonAlert](t, f.do(t, http.MethodGet, "/alerts", ""))
	if len(alerts) != 0 {
		t.Errorf("GET /alerts after acknowledge returned %d alerts, want 0", len(alerts))
	}
}

func TestCategoryEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/categories", `{"name":"Side Projects","color":"3366AA","icon":"laptop"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /categories = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[jsonCategory](t, rec)

	if rec = f.do(t, http.MethodPost, "/categories", `{"name":"side projects","color":"3366AA","icon":"laptop"}`); rec.Code != http.StatusConflict {
		t.Errorf("duplicate category = %d, want 409", rec.Code)
	}

	// Default categories cannot be deleted, only hidden.
	if rec = f.do(t, http.MethodDelete, "/categories/1", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("DELETE default category = %d, want 422", rec.Code)
	}
	if rec = f.do(t, http.MethodPost, "/categories/1/hide", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("POST /categories/1/hide = %d", rec.Code)
	}

	visible := decodeBody[[]jsonCategory](t, f.do(t, http.MethodGet, "/categories", ""))
	for _, c := range visible {
		if c.ID == 1 {
			t.Error("hidden category still listed without include_hidden")
		}
	}
	all := decodeBody[[]jsonCategory](t, f.do(t, http.MethodGet, "/categories?include_hidden=true", ""))
	if len(all) != len(visible)+1 {
		t.Errorf("include_hidden listed %d, visible %d", len(all), len(visible))
	}

	path := fmt.Sprintf("/categories/%d", created.ID)
	if rec = f.do(t, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE unused custom category = %d, want 204", rec.Code)
	}
}

func TestCategoryForceDelete(t *testing.T) {
	f := newFixture(t)

	created := decodeBody[jsonCategory](t, f.do(t, http.MethodPost, "/categories", `{"name":"Hobby","color":"225577","icon":"paint"}`))
	txBody := fmt.Sprintf(`{"amount_cents":900,"description":"Paint","category_id":%d,"type":"expense","date":%q}`, created.ID, today())
	if rec := f.do(t, http.MethodPost, "/transactions", txBody); rec.Code != http.StatusCreated {
		t.Fatalf("POST /transactions = %d", rec.Code)
	}

	path := fmt.Sprintf("/categories/%d", created.ID)
	if rec := f.do(t, http.MethodDelete, path, ""); rec.Code != http.StatusConflict {
		t.Errorf("DELETE used category = %d, want 409", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, path+"?force=true", ""); rec.Code != http.StatusNoContent {
		t.Errorf("forced DELETE = %d, want 204", rec.Code)
	}

	// The transaction survives with its category reference cleared.
	listed := decodeBody[[]jsonTransactionDetail](t, f.do(t, http.MethodGet, "/transactions", ""))
	if len(listed) != 1 {
		t.Fatalf("listed %d transactions, want 1", len(listed))
	}
	if listed[0].CategoryID != 0 || listed[0].CategoryName != "" {
		t.Errorf("detached transaction still references category: %+v", listed[0])
	}
}

func TestBudgetSummaryInvalidation(t *testing.T) {
	f := newFixture(t)
	start, end := currentMonthRange()

	budgetBody := fmt.Sprintf(`{"category_id":1,"amount_cents":50000,"period_start":%q,"period_end":%q}`, start, end)
	if rec := f.do(t, http.MethodPost, "/budgets", budgetBody); rec.Code != http.StatusCreated {
		t.Fatalf("POST /budgets = %d", rec.Code)
	}

	summary := decodeBody[[]jsonBudgetDetail](t, f.do(t, http.MethodGet, "/budgets/summary", ""))
	if len(summary) != 1 || summary[0].SpentCents != 0 {
		t.Fatalf("initial summary = %+v, want one budget with 0 spent", summary)
	}

	txBody := fmt.Sprintf(`{"amount_cents":12000,"description":"Dinner","category_id":1,"type":"expense","date":%q}`, today())
	if rec := f.do(t, http.MethodPost, "/transactions", txBody); rec.Code != http.StatusCreated {
		t.Fatalf("POST /transactions = %d", rec.Code)
	}

	// The mutation purges the cache, so the summary reflects the spend
	// immediately.
	summary = decodeBody[[]jsonBudgetDetail](t, f.do(t, http.MethodGet, "/budgets/summary", ""))
	if summary[0].SpentCents != 12000 {
		t.Errorf("summary spent = %d after transaction, want 12000", summary[0].SpentCents)
	}
	if summary[0].RemainingCents != 38000 {
		t.Errorf("summary remaining = %d, want 38000", summary[0].RemainingCents)
	}
}

func TestGoalEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/goals", `{"name":"Emergency fund","target_cents":1000000,"current_cents":250000,"deadline":"2026-12-31"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /goals = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[jsonGoal](t, rec)
	if created.Deadline != "2026-12-31" {
		t.Errorf("deadline = %q, want 2026-12-31", created.Deadline)
	}

	path := fmt.Sprintf("/goals/%d", created.ID)
	update := `{"name":"Emergency fund","target_cents":1000000,"current_cents":400000}`
	if rec = f.do(t, http.MethodPut, path, update); rec.Code != http.StatusOK {
		t.Fatalf("PUT %s = %d, body %s", path, rec.Code, rec.Body.String())
	}

	goals := decodeBody[[]jsonGoal](t, f.do(t, http.MethodGet, "/goals", ""))
	if len(goals) != 1 || goals[0].CurrentCents != 400000 {
		t.Fatalf("goals = %+v, want one with 400000 current", goals)
	}
	if goals[0].Deadline != "" {
		t.Errorf("deadline = %q after open-ended update, want empty", goals[0].Deadline)
	}

	if rec = f.do(t, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE %s = %d, want 204", path, rec.Code)
	}
}

func TestExportEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/export", `{"format":"csv","include_categories":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /export = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[export.Result](t, rec)
	if !result.Success {
		t.Error("export result not successful")
	}
	if result.RecordCount != 8 {
		t.Errorf("record count = %d, want 8 seeded categories", result.RecordCount)
	}
	if !strings.HasPrefix(result.FileName, "financeflow_export_") {
		t.Errorf("file name = %q", result.FileName)
	}

	if rec = f.do(t, http.MethodPost, "/export", `{"format":"xml","include_categories":true}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid export format = %d, want 422", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/export/estimate?format=csv&categories=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /export/estimate = %d, body %s", rec.Code, rec.Body.String())
	}
	estimate := decodeBody[services.ExportEstimate](t, rec)
	if estimate.RecordCount != 8 {
		t.Errorf("estimate records = %d, want 8", estimate.RecordCount)
	}

	if rec = f.do(t, http.MethodGet, "/export/estimate?format=csv", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("estimate with no data types = %d, want 422", rec.Code)
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	f := newFixture(t)

	var limited bool
	for i := 0; i < 61; i++ {
		rec := f.do(t, http.MethodPost, "/transactions", `{}`)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if got := rec.Header().Get("Retry-After"); got != "60" {
				t.Errorf("Retry-After = %q, want 60", got)
			}
			break
		}
	}
	if !limited {
		t.Error("no request was rate limited after 61 writes")
	}

	// Reads stay unthrottled.
	if rec := f.do(t, http.MethodGet, "/transactions", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /transactions = %d while write-limited, want 200", rec.Code)
	}
}

func TestServerShutdownIdempotent(t *testing.T) {
	f := newFixture(t)

	// Shutdown stops the rate limiter and cache sweeper; a second call
	// must not re-close their channels.
	if err := f.server.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := f.server.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown() error = %v", err)
	}
}
