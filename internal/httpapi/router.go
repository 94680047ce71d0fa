package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hr-alerter/internal/events"
	"hr-alerter/internal/secrets"
)

// NewRouter wires every route. ctx bounds background pipeline runs.
func NewRouter(ctx context.Context, d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID, Recover, AccessLog, Cors)

	var pub events.Publisher = events.Discard{}
	if d.Hub != nil {
		pub = d.Hub
	}

	hh := HealthHandler{DB: d.DB, Now: d.now}
	r.Get("/health", hh.Health)

	sh := SignalsHandler{DB: d.DB}
	r.Get("/signals", sh.List)

	ch := CompaniesHandler{DB: d.DB, CfgVal: d.CfgVal, Hub: pub, Now: d.now}
	r.Route("/companies/{id}", func(r chi.Router) {
		r.Patch("/", ch.Update)
		r.Get("/score", ch.Score)
	})

	if d.Runner != nil {
		ph := PipelineHandler{Runner: d.Runner, BaseCtx: ctx}
		r.Get("/pipeline/status", ph.Status)
		r.Post("/pipeline/run", ph.Run)
	}

	if d.Hub != nil {
		eh := EventsHandler{Hub: d.Hub}
		r.Get("/events", eh.ServeSSE)
	}

	cfh := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
	r.Route("/config", func(r chi.Router) {
		r.Get("/", cfh.Get)
		r.Put("/", cfh.Put)
		r.Get("/path", cfh.Path)
		r.Get("/validate", cfh.Validate)
	})

	set := d.SetSMTPPassword
	if set == nil {
		set = secrets.SetSMTPPassword
	}
	sec := SecretsHandler{CfgVal: d.CfgVal, Set: set}

	ah := AdminHandler{DB: d.DB, ShutdownToken: d.ShutdownToken, Shutdown: d.Shutdown}
	r.Group(func(r chi.Router) {
		r.Use(LocalOnly)
		r.Post("/secrets/smtp", sec.SetSMTPPassword)
		r.Post("/db/checkpoint", ah.Checkpoint)
		if d.ShutdownToken != "" && d.Shutdown != nil {
			r.Post("/shutdown", ah.ShutdownServer)
		}
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
