package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-alerter/internal/config"
	"hr-alerter/internal/domain"
	"hr-alerter/internal/events"
	"hr-alerter/internal/pipeline"
	"hr-alerter/internal/store"
)

var asOf = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db      *store.DB
	hub     *events.Hub
	cfgVal  *atomic.Value
	cfgPath string
	router  http.Handler
	secrets map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	db, err := store.Open(filepath.Join(dir, "api.db"))
	require.NoError(t, err)
	db.Now = func() time.Time { return asOf }
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Default()
	cfg.SMTP.Username = "alerts@example.com"
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, config.SaveAtomic(cfgPath, cfg))

	f := &fixture{db: db, hub: events.NewHub(), cfgVal: &atomic.Value{}, cfgPath: cfgPath, secrets: map[string]string{}}
	f.cfgVal.Store(cfg)

	runner := &pipeline.Runner{DB: db, Config: func() config.Config { return f.cfgVal.Load().(config.Config) }, Now: func() time.Time { return asOf }}
	f.router = NewRouter(context.Background(), Deps{
		DB:          db,
		Hub:         f.hub,
		Runner:      runner,
		CfgVal:      f.cfgVal,
		UserCfgPath: cfgPath,
		LoadCfg:     func() (config.Config, error) { return config.Load(cfgPath) },
		SetSMTPPassword: func(username, password string) error {
			f.secrets[username] = password
			return nil
		},
		Now: func() time.Time { return asOf },
	})
	return f
}

func (f *fixture) do(method, target, body string, mut ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for _, m := range mut {
		m(req)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func local(r *http.Request) { r.RemoteAddr = "127.0.0.1:50000" }

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func seedCompany(t *testing.T, db *store.DB, name string, score int, temp domain.Temperature) domain.Company {
	t.Helper()
	ctx := context.Background()
	c, err := db.UpsertCompany(ctx, name, domain.CompanyUpdate{})
	require.NoError(t, err)
	_, err = db.SaveSignal(ctx, domain.Signal{
		CompanyID: c.ID, SignalDate: "2026-03-09", SignalType: domain.SignalTypeHiringVelocity,
		FinalScore: score, LeadTemperature: temp,
	})
	require.NoError(t, err)
	return c
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health", "", func(r *http.Request) { r.Header.Set("X-Request-ID", "abc") })

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 0, body["postings"])
}

func TestSignals_ListAndFilter(t *testing.T) {
	f := newFixture(t)
	samsung := seedCompany(t, f.db, "Samsung", 82, domain.Hot)
	seedCompany(t, f.db, "Allegro", 55, domain.Warm)

	rec := f.do(http.MethodGet, "/signals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []domain.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	rec = f.do(http.MethodGet, "/signals?temperature=hot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hot []domain.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hot))
	require.Len(t, hot, 1)
	assert.Equal(t, samsung.ID, hot[0].CompanyID)

	rec = f.do(http.MethodGet, "/signals?temperature=lukewarm", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeErr(t, rec)
	assert.Equal(t, "invalid_temperature", e.Error.Code)
	assert.NotEmpty(t, e.Error.RequestID)

	rec = f.do(http.MethodGet, "/signals?company_id=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompanies_ScoreAndUpdate(t *testing.T) {
	f := newFixture(t)
	c := seedCompany(t, f.db, "Samsung", 82, domain.Hot)

	rec := f.do(http.MethodGet, "/companies/999/score", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/companies/abc/score", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/companies/1/score?as_of=10.03.2026", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/companies/1/score?as_of=2026-03-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.EqualValues(t, c.ID, res["company_id"])
	assert.Equal(t, "cold", res["lead_temperature"])

	ch := f.hub.Subscribe()
	defer f.hub.Unsubscribe(ch)

	rec = f.do(http.MethodPatch, "/companies/1", `{"headcount_poland": 1200, "is_icp_match": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got domain.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.HeadcountPoland)
	assert.Equal(t, 1200, *got.HeadcountPoland)
	assert.True(t, got.IsICPMatch)

	select {
	case msg := <-ch:
		assert.Contains(t, msg, events.TypeCompanyUpdated)
	default:
		t.Fatal("expected a company_updated event")
	}

	rec = f.do(http.MethodPatch, "/companies/1", `{"linkedin_url": "not a url"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPatch, "/companies/1", `{"nickname": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPatch, "/companies/42", `{"industry": "retail"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPipeline_StatusAndRunValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/pipeline/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st pipeline.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.Running)

	rec = f.do(http.MethodPost, "/pipeline/run?kind=monthly", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/pipeline/run", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConfig_PutValidatesAndPersists(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, rec.Code)

	bad := config.Default()
	bad.App.Port = 0
	b, err := json.Marshal(bad)
	require.NoError(t, err)
	rec = f.do(http.MethodPut, "/config", string(b))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	good := config.Default()
	good.Report.Recipient = "sales@example.com"
	b, err = json.Marshal(good)
	require.NoError(t, err)
	rec = f.do(http.MethodPut, "/config", string(b))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "sales@example.com", f.cfgVal.Load().(config.Config).Report.Recipient)
	onDisk, err := config.Load(f.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "sales@example.com", onDisk.Report.Recipient)
}

func TestSecrets_LocalOnly(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/secrets/smtp", `{"password":"hunter2"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/secrets/smtp", `{"password":""}`, local)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/secrets/smtp", `{"password":"hunter2"}`, local)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "hunter2", f.secrets["alerts@example.com"])
}

func TestNotFoundEnvelope(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErr(t, rec).Error.Code)
}
