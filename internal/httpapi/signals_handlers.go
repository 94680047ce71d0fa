package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"hr-alerter/internal/config"
	"hr-alerter/internal/domain"
	"hr-alerter/internal/events"
	"hr-alerter/internal/rank"
	"hr-alerter/internal/store"
)

type SignalsHandler struct {
	DB *store.DB
}

// List serves GET /signals?company_id=&temperature=&limit=.
func (h SignalsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var companyID int64
	if s := q.Get("company_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_company_id", "company_id must be a positive integer")
			return
		}
		companyID = id
	}

	temp := domain.Temperature(q.Get("temperature"))
	switch temp {
	case "", domain.Hot, domain.Warm, domain.Cold:
	default:
		WriteError(w, r, http.StatusBadRequest, "invalid_temperature", "temperature must be hot, warm or cold")
		return
	}

	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	signals, err := h.DB.ListSignals(r.Context(), companyID, temp, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if signals == nil {
		signals = []domain.Signal{}
	}
	writeJSON(w, signals)
}

type CompaniesHandler struct {
	DB     *store.DB
	CfgVal *atomic.Value // stores config.Config
	Hub    events.Publisher
	Now    func() time.Time
}

// Score serves GET /companies/{id}/score?as_of=YYYY-MM-DD. It computes a
// fresh score without recording a signal.
func (h CompaniesHandler) Score(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid company id")
		return
	}

	asOf := h.Now()
	if s := r.URL.Query().Get("as_of"); s != "" {
		t, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_as_of", "as_of must be YYYY-MM-DD")
			return
		}
		asOf = t
	}

	if _, err := h.DB.GetCompany(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, "not_found", "company not found")
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	res, err := rank.NewEngine(h.DB, cfg.Scoring.Keywords).Score(r.Context(), id, asOf)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "score_failed", err.Error())
		return
	}
	writeJSON(w, res)
}

// Update serves PATCH /companies/{id} with a partial CompanyUpdate body.
func (h CompaniesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid company id")
		return
	}

	var u domain.CompanyUpdate
	if err := decodeStrict(r, &u); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if err := u.Validate(); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_update", err.Error())
		return
	}

	c, err := h.DB.UpdateCompany(r.Context(), id, u)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "company not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	events.Emit(h.Hub, RequestIDFrom(r.Context()), events.TypeCompanyUpdated, map[string]any{"id": c.ID})
	writeJSON(w, c)
}
