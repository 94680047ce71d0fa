package httpapi

import (
	"crypto/subtle"
	"net/http"

	"hr-alerter/internal/store"
)

type AdminHandler struct {
	DB            *store.DB
	ShutdownToken string
	Shutdown      func()
}

func (h AdminHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if _, err := h.DB.Pool.ExecContext(r.Context(), `PRAGMA wal_checkpoint(FULL);`); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShutdownServer stops the server when X-Shutdown-Token matches.
func (h AdminHandler) ShutdownServer(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get("X-Shutdown-Token")
	if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.ShutdownToken)) != 1 {
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "bad shutdown token")
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("shutting down\n"))
	go h.Shutdown()
}
