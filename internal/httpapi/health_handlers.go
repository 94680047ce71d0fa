package httpapi

import (
	"net/http"
	"time"

	"hr-alerter/internal/store"
)

type HealthHandler struct {
	DB  *store.DB
	Now func() time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.Pool.PingContext(r.Context()); err != nil {
		WriteError(w, r, http.StatusServiceUnavailable, "db_unavailable", err.Error())
		return
	}
	n, err := h.DB.JobCount(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"ok":       true,
		"time":     h.Now().Format(time.RFC3339),
		"postings": n,
	})
}
