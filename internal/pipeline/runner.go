package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hr-alerter/internal/config"
	"hr-alerter/internal/events"
	"hr-alerter/internal/rank"
	"hr-alerter/internal/report"
	"hr-alerter/internal/scrape"
	"hr-alerter/internal/store"
)

var ErrRunInProgress = errors.New("a pipeline run is already in progress")

const (
	KindDaily  = "daily"
	KindWeekly = "weekly"
)

// Status is the last-known state of the runner, served by the API.
type Status struct {
	Running     bool   `json:"running"`
	RunID       string `json:"run_id,omitempty"`
	Kind        string `json:"kind,omitempty"`
	LastRunAt   string `json:"last_run_at"`
	LastOkAt    string `json:"last_ok_at"`
	LastError   string `json:"last_error"`
	LastAdded   int    `json:"last_added"`
	LastScored  int    `json:"last_scored"`
	LastReport  int64  `json:"last_report_id,omitempty"`
	LastSubject string `json:"last_subject,omitempty"`
}

type DailyOptions struct {
	SkipScrape bool
}

type DailyResult struct {
	RunID   string        `json:"run_id"`
	AsOf    string        `json:"as_of"`
	Scrape  scrape.Result `json:"scrape"`
	Link    LinkStats     `json:"link"`
	Score   ScoreStats    `json:"score"`
	Summary Summary       `json:"summary"`
}

type WeeklyResult struct {
	RunID     string `json:"run_id"`
	ReportID  int64  `json:"report_id"`
	Subject   string `json:"subject"`
	Hot       int    `json:"hot"`
	Warm      int    `json:"warm"`
	Recipient string `json:"recipient,omitempty"`
	Sent      bool   `json:"sent"`
}

// Runner executes the daily (scrape, link, score, summary) and weekly
// (compose, persist, send) pipelines. Only one run proceeds at a time,
// across processes when LockPath is set.
type Runner struct {
	DB       *store.DB
	Config   func() config.Config
	Events   events.Publisher
	Sender   report.Sender
	LockPath string

	// Sources defaults to scrape.Sources.
	Sources func(config.Config) []scrape.Source
	// Now defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	running bool
	status  atomic.Value // Status
}

func (r *Runner) Status() Status {
	if v, ok := r.status.Load().(Status); ok {
		return v
	}
	return Status{}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// acquire claims the run slot and returns its release func.
func (r *Runner) acquire(kind string) (runID string, release func(err error, mut func(*Status)), err error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return "", nil, ErrRunInProgress
	}

	var fl *flock.Flock
	if r.LockPath != "" {
		fl = flock.New(r.LockPath)
		ok, lerr := fl.TryLock()
		if lerr != nil {
			r.mu.Unlock()
			return "", nil, fmt.Errorf("acquire run lock: %w", lerr)
		}
		if !ok {
			r.mu.Unlock()
			return "", nil, ErrRunInProgress
		}
	}
	r.running = true
	r.mu.Unlock()

	runID = uuid.NewString()
	st := r.Status()
	st.Running = true
	st.RunID = runID
	st.Kind = kind
	st.LastRunAt = r.now().Format(time.RFC3339)
	r.status.Store(st)

	events.Emit(r.Events, runID, events.TypePipelineStarted, map[string]any{"kind": kind})
	log.Info().Str("run_id", runID).Str("kind", kind).Msg("pipeline started")

	release = func(runErr error, mut func(*Status)) {
		st := r.Status()
		st.Running = false
		if mut != nil {
			mut(&st)
		}
		if runErr != nil {
			st.LastError = runErr.Error()
			log.Error().Err(runErr).Str("run_id", runID).Str("kind", kind).Msg("pipeline failed")
		} else {
			st.LastError = ""
			st.LastOkAt = r.now().Format(time.RFC3339)
			log.Info().Str("run_id", runID).Str("kind", kind).Msg("pipeline finished")
		}
		r.status.Store(st)

		done := map[string]any{"kind": kind, "ok": runErr == nil}
		if runErr != nil {
			done["error"] = runErr.Error()
		}
		events.Emit(r.Events, runID, events.TypePipelineFinished, done)

		if fl != nil {
			_ = fl.Unlock()
		}
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}
	return runID, release, nil
}

func (r *Runner) cfg() config.Config {
	if r.Config != nil {
		return r.Config()
	}
	return config.Default()
}

// Daily scrapes, links, scores and summarises as of today.
func (r *Runner) Daily(ctx context.Context, opts DailyOptions) (res DailyResult, err error) {
	runID, release, err := r.acquire(KindDaily)
	if err != nil {
		return res, err
	}
	defer func() {
		release(err, func(st *Status) {
			st.LastAdded = res.Scrape.Inserted
			st.LastScored = res.Score.Scored
		})
	}()

	cfg := r.cfg()
	asOf := r.now()
	res.RunID = runID
	res.AsOf = asOf.Format("2006-01-02")

	if !opts.SkipScrape {
		sources := scrape.Sources
		if r.Sources != nil {
			sources = r.Sources
		}
		res.Scrape, err = scrape.RunOnce(ctx, r.DB, cfg, sources(cfg))
		if err != nil {
			return res, fmt.Errorf("scrape: %w", err)
		}
		events.Emit(r.Events, runID, events.TypePostingsIngested, res.Scrape)
	}

	if res.Link, err = Link(ctx, r.DB); err != nil {
		return res, fmt.Errorf("link: %w", err)
	}

	batch := Batch{
		Candidates:  r.DB,
		Scorer:      rank.NewEngine(r.DB, cfg.Scoring.Keywords),
		Recorder:    rank.Recorder{Store: r.DB},
		Events:      r.Events,
		WindowDays:  cfg.Scoring.CandidateWindowDays,
		MinPostings: cfg.Scoring.CandidateMinPostings,
		RunID:       runID,
	}
	if res.Score, err = batch.Run(ctx, asOf); err != nil {
		return res, fmt.Errorf("score: %w", err)
	}

	if res.Summary, err = BuildSummary(ctx, r.DB, asOf, res.Scrape.Inserted); err != nil {
		return res, fmt.Errorf("summary: %w", err)
	}
	return res, nil
}

// Weekly composes the digest, stores it and, when a recipient and
// credentials are configured, emails it. A missing mailer setup is
// logged; the report stays stored and unsent.
func (r *Runner) Weekly(ctx context.Context, recipient string) (res WeeklyResult, err error) {
	runID, release, err := r.acquire(KindWeekly)
	if err != nil {
		return res, err
	}
	defer func() {
		release(err, func(st *Status) {
			st.LastReport = res.ReportID
			st.LastSubject = res.Subject
		})
	}()

	cfg := r.cfg()
	if recipient == "" {
		recipient = cfg.Report.Recipient
	}
	res.RunID = runID
	res.Recipient = recipient

	c := &report.Composer{Store: r.DB, Keywords: cfg.Scoring.Keywords, SubjectSuffix: cfg.Report.SubjectSuffix}
	digest, err := c.Compose(ctx, r.now())
	if err != nil {
		return res, err
	}
	res.Subject = digest.Subject
	res.Hot = len(digest.Hot)
	res.Warm = len(digest.Warm)

	if res.ReportID, err = r.DB.SaveReport(ctx, digest.Report(recipient)); err != nil {
		return res, err
	}
	events.Emit(r.Events, runID, events.TypeReportComposed, map[string]any{
		"report_id": res.ReportID, "hot": res.Hot, "warm": res.Warm,
	})

	switch {
	case recipient == "":
		log.Warn().Int64("report_id", res.ReportID).Msg("no recipient configured; report stored but not sent")
		return res, nil
	case r.Sender == nil:
		log.Warn().Int64("report_id", res.ReportID).Msg("no mailer configured; report stored but not sent")
		return res, nil
	}

	if err = r.Sender.Send(ctx, recipient, digest.Subject, digest.HTML); err != nil {
		if errors.Is(err, report.ErrMailerNotConfigured) {
			log.Warn().Int64("report_id", res.ReportID).Msg("SMTP credentials missing; set SMTP_EMAIL and SMTP_PASSWORD to send reports")
			return res, nil
		}
		return res, fmt.Errorf("send report: %w", err)
	}

	if err = r.DB.MarkReportSent(ctx, res.ReportID, r.now().UTC().Format(time.RFC3339)); err != nil {
		return res, err
	}
	res.Sent = true
	return res, nil
}
