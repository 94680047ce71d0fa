package httpapi

import (
	"net/http"
	"strings"
	"sync/atomic"

	"hr-alerter/internal/config"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
	Set    func(username, password string) error
}

type setSMTPPasswordReq struct {
	Password string `json:"password"`
}

func (h SecretsHandler) SetSMTPPassword(w http.ResponseWriter, r *http.Request) {
	var req setSMTPPasswordReq
	if err := decodeStrict(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_password", "password is empty")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if cfg.SMTP.Username == "" {
		WriteError(w, r, http.StatusBadRequest, "no_smtp_username", "set smtp.username before storing a password")
		return
	}
	if err := h.Set(cfg.SMTP.Username, req.Password); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_failed", "failed to store password: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
