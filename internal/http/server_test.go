package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"masarif/internal/cloud"
	cloudmemory "masarif/internal/cloud/memory"
	"masarif/internal/core"
	"masarif/internal/export"
	"masarif/internal/log"
	"masarif/internal/storage"
	"masarif/internal/store"
)

func newTestServer(t *testing.T) *Server {
	return newTestServerWithSharer(t, nil)
}

func newTestServerWithSharer(t *testing.T, sharer export.Sharer) *Server {
	t.Helper()
	kv := storage.NewMemoryKV()
	st := store.New(kv)
	st.Load(context.Background())

	logger := log.New(log.DefaultConfig())
	syncSvc := cloud.NewService(kv, cloudmemory.New(), logger)
	if err := syncSvc.Load(context.Background()); err != nil {
		t.Fatalf("sync load: %v", err)
	}

	s := NewServer("127.0.0.1:0", st, syncSvc, kv, nil, sharer, logger)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListTransactions(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":50.5,"category":"طعام","description":"غداء"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.Amount.Cents != 5050 {
		t.Fatalf("created = %+v", created)
	}
	if created.Currency != core.SAR {
		t.Fatalf("currency not defaulted: %s", created.Currency)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("list = %+v", listed)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"zero amount", `{"type":"expense","amount":0,"category":"x","description":"y"}`},
		{"negative amount", `{"type":"expense","amount":-5,"category":"x","description":"y"}`},
		{"bad type", `{"type":"transfer","amount":10,"category":"x","description":"y"}`},
		{"empty category", `{"type":"expense","amount":10,"category":" ","description":"y"}`},
		{"empty description", `{"type":"expense","amount":10,"category":"x","description":""}`},
		{"unknown currency", `{"type":"expense","amount":10,"category":"x","description":"y","currency":"EUR"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/api/transactions", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
		})
	}

	if rec := doRequest(s, http.MethodPost, "/api/transactions", "{not json"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":1000,"category":"راتب","description":"شهري"}`)
	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rec := doRequest(s, http.MethodDelete, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	// Deleting an absent id is still a no-op success.
	if rec := doRequest(s, http.MethodDelete, "/api/transactions/missing", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete absent status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions", "")
	var listed []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("list after delete = %+v", listed)
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":1000,"category":"راتب","description":"شهري"}`)
	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":250.25,"category":"طعام","description":"مطعم"}`)

	rec := doRequest(s, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}

	var summary struct {
		TotalIncome      float64 `json:"totalIncome"`
		TotalExpenses    float64 `json:"totalExpenses"`
		Balance          float64 `json:"balance"`
		Currency         string  `json:"currency"`
		FormattedBalance string  `json:"formattedBalance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalIncome != 1000 || summary.TotalExpenses != 250.25 || summary.Balance != 749.75 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.FormattedBalance != "749.75 ريال" {
		t.Fatalf("formatted balance = %q", summary.FormattedBalance)
	}
}

func TestCurrencySettings(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api/settings/currency", `{"currency":"USD"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put currency status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/api/settings/currency", "")
	var info core.CurrencyInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode currency: %v", err)
	}
	if info.Code != core.USD {
		t.Fatalf("currency = %s, want USD", info.Code)
	}

	if rec := doRequest(s, http.MethodPut, "/api/settings/currency", `{"currency":"EUR"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid currency status = %d", rec.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/categories?type=expense", "")
	var cats []string
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats) == 0 || cats[0] != "طعام" {
		t.Fatalf("expense categories = %v", cats)
	}

	rec = doRequest(s, http.MethodPost, "/api/categories/custom",
		`{"name":"قهوة مختصة","type":"expense","color":"#8B4513"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created core.CustomCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode category: %v", err)
	}

	// Duplicate (name, type) conflicts.
	if rec := doRequest(s, http.MethodPost, "/api/categories/custom",
		`{"name":"قهوة مختصة","type":"expense"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/categories?type=expense", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if cats[len(cats)-1] != "قهوة مختصة" {
		t.Fatalf("custom category not appended: %v", cats)
	}

	if rec := doRequest(s, http.MethodDelete, "/api/categories/custom/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete category status = %d", rec.Code)
	}
}

func TestReportsInsightsAndCacheInvalidation(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":100,"category":"طعام","description":"a"}`)
	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":50,"category":"طعام","description":"b"}`)
	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":50,"category":"مواصلات","description":"c"}`)

	rec := doRequest(s, http.MethodGet, "/api/reports/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("insights status = %d", rec.Code)
	}
	var insights []struct {
		Category   string  `json:"category"`
		Percentage float64 `json:"percentage"`
		Count      int     `json:"transactionCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &insights); err != nil {
		t.Fatalf("decode insights: %v", err)
	}
	if len(insights) != 2 || insights[0].Category != "طعام" || insights[0].Percentage != 75 {
		t.Fatalf("insights = %+v", insights)
	}

	// A write invalidates the cached report.
	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":200,"category":"صحة","description":"d"}`)
	rec = doRequest(s, http.MethodGet, "/api/reports/insights", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &insights); err != nil {
		t.Fatalf("decode insights: %v", err)
	}
	if len(insights) != 3 {
		t.Fatalf("stale insights after write: %+v", insights)
	}
}

func TestFinancialHealthReport(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":1000,"category":"راتب","description":"شهري"}`)
	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":1200,"category":"تسوق","description":"مشتريات"}`)

	rec := doRequest(s, http.MethodGet, "/api/reports/health", "")
	var health struct {
		Score           int      `json:"score"`
		Status          string   `json:"status"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Score < 0 || health.Score > 100 {
		t.Fatalf("score out of bounds: %d", health.Score)
	}
	if len(health.Recommendations) == 0 {
		t.Fatalf("no recommendations: %+v", health)
	}
}

func TestTipsReportCapped(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":1000,"category":"راتب","description":"شهري"}`)
	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":1200,"category":"تسوق","description":"مشتريات"}`)

	rec := doRequest(s, http.MethodGet, "/api/reports/tips", "")
	var tips []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tips); err != nil {
		t.Fatalf("decode tips: %v", err)
	}
	if len(tips) == 0 || len(tips) > 5 {
		t.Fatalf("got %d tips", len(tips))
	}
}

func TestTrendsPeriodValidation(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/api/reports/trends?period=decade", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid period status = %d", rec.Code)
	}

	rec := doRequest(s, http.MethodGet, "/api/reports/trends?period=week", "")
	var trends []struct {
		Period string `json:"period"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &trends); err != nil {
		t.Fatalf("decode trends: %v", err)
	}
	if len(trends) != 4 {
		t.Fatalf("got %d weekly buckets, want 4", len(trends))
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":50,"category":"طعام","description":"غداء"}`)

	rec := doRequest(s, http.MethodGet, "/api/export?format=csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %s", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Date,Type,Amount,Category,Description,Currency") {
		t.Fatalf("csv header missing:\n%s", body)
	}
	if !strings.Contains(body, `"طعام"`) {
		t.Fatalf("csv row missing:\n%s", body)
	}

	if rec := doRequest(s, http.MethodGet, "/api/export?format=xml", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid format status = %d", rec.Code)
	}
}

func TestSyncLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/sync/status", "")
	var status struct {
		IsEnabled bool `json:"isEnabled"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.IsEnabled {
		t.Fatal("sync enabled by default")
	}

	rec = doRequest(s, http.MethodPost, "/api/sync/enable", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("enable status = %d", rec.Code)
	}
	var enabled struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &enabled); err != nil {
		t.Fatalf("decode enable: %v", err)
	}
	if enabled.UserID == "" {
		t.Fatal("no user id assigned")
	}

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":10,"category":"طعام","description":"x"}`)

	rec = doRequest(s, http.MethodPost, "/api/sync/now", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sync now status = %d, body %s", rec.Code, rec.Body.String())
	}
	var after struct {
		IsEnabled    bool    `json:"isEnabled"`
		LastSyncTime *string `json:"lastSyncTime"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !after.IsEnabled || after.LastSyncTime == nil {
		t.Fatalf("status after sync = %+v", after)
	}

	if rec := doRequest(s, http.MethodPost, "/api/sync/disable", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("disable status = %d", rec.Code)
	}
}

func TestVoiceParseEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/voice/parse", `{"text":"دفعت 50 ريال على مطعم"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("parse status = %d, body %s", rec.Code, rec.Body.String())
	}
	var parsed struct {
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Type     string  `json:"type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode parsed: %v", err)
	}
	if parsed.Amount != 50 || parsed.Category != "طعام" || parsed.Type != "expense" {
		t.Fatalf("parsed = %+v", parsed)
	}

	if rec := doRequest(s, http.MethodPost, "/api/voice/parse", `{"text":"كلام بلا أرقام"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unparseable status = %d", rec.Code)
	}
}

func TestReportParameterBounds(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"months too large", "/api/reports/monthly?months=20000000", http.StatusUnprocessableEntity},
		{"months zero", "/api/reports/monthly?months=0", http.StatusUnprocessableEntity},
		{"months negative", "/api/reports/monthly?months=-3", http.StatusUnprocessableEntity},
		{"months in range", "/api/reports/monthly?months=12", http.StatusOK},
		{"window too large", "/api/reports/insights?window=10000", http.StatusUnprocessableEntity},
		{"window zero", "/api/reports/insights?window=0", http.StatusUnprocessableEntity},
		{"window in range", "/api/reports/insights?window=90", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodGet, tc.path, "")
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestSyncEnableRunsInitialSync(t *testing.T) {
	// Without an AMQP publisher the initial sync after enable runs inline;
	// a fresh remote gets the local snapshot and the status records it.
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":25,"category":"طعام","description":"فطور"}`)

	rec := doRequest(s, http.MethodPost, "/api/sync/enable", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("enable status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/sync/status", "")
	var status struct {
		IsEnabled    bool    `json:"isEnabled"`
		LastSyncTime *string `json:"lastSyncTime"`
		Error        string  `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.IsEnabled || status.LastSyncTime == nil {
		t.Fatalf("no sync recorded after enable: %+v", status)
	}
	if status.Error != "" {
		t.Fatalf("unexpected sync error: %q", status.Error)
	}
}

type recordingSharer struct {
	docs []export.Document
	err  error
}

func (r *recordingSharer) Share(_ context.Context, doc export.Document) error {
	if r.err != nil {
		return r.err
	}
	r.docs = append(r.docs, doc)
	return nil
}

func TestExportShare(t *testing.T) {
	sharer := &recordingSharer{}
	s := newTestServerWithSharer(t, sharer)

	doRequest(s, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":50,"category":"طعام","description":"غداء"}`)

	rec := doRequest(s, http.MethodPost, "/api/export/share?format=csv&lang=en", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("share status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(sharer.docs) != 1 {
		t.Fatalf("got %d shared documents, want 1", len(sharer.docs))
	}
	doc := sharer.docs[0]
	if doc.Title != "Financial Transactions.csv" || doc.MIMEType != "text/csv" {
		t.Fatalf("shared doc = %+v", doc)
	}
	if !strings.Contains(doc.Content, `"طعام"`) {
		t.Fatalf("shared content missing row:\n%s", doc.Content)
	}
}

func TestExportShareFailureSurfaces(t *testing.T) {
	sharer := &recordingSharer{err: errors.New("mail surface unavailable")}
	s := newTestServerWithSharer(t, sharer)

	rec := doRequest(s, http.MethodPost, "/api/export/share?format=text", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mail surface unavailable") {
		t.Fatalf("error not surfaced: %s", rec.Body.String())
	}
}

func TestExportShareUnconfigured(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodPost, "/api/export/share", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}
