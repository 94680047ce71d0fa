package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hr-alerter/internal/pipeline"
)

type PipelineHandler struct {
	Runner *pipeline.Runner
	// BaseCtx outlives the request that triggered a run.
	BaseCtx context.Context
}

func (h PipelineHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Runner.Status())
}

// Run serves POST /pipeline/run?kind=daily|weekly. The run continues in
// the background; progress is visible on /pipeline/status and /events.
func (h PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = pipeline.KindDaily
	}
	if kind != pipeline.KindDaily && kind != pipeline.KindWeekly {
		WriteError(w, r, http.StatusBadRequest, "invalid_kind", "kind must be daily or weekly")
		return
	}
	if h.Runner.Status().Running {
		WriteError(w, r, http.StatusConflict, "already_running", pipeline.ErrRunInProgress.Error())
		return
	}

	ctx := h.BaseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		var err error
		if kind == pipeline.KindWeekly {
			_, err = h.Runner.Weekly(ctx, "")
		} else {
			_, err = h.Runner.Daily(ctx, pipeline.DailyOptions{})
		}
		if errors.Is(err, pipeline.ErrRunInProgress) {
			log.Warn().Str("kind", kind).Msg("pipeline run skipped; another run holds the lock")
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "kind": kind})
}
