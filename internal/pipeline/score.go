package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/events"
	"hr-alerter/internal/rank"
	"hr-alerter/internal/store"
)

// CandidateStore lists the companies worth scoring.
type CandidateStore interface {
	CandidateCompanies(ctx context.Context, since, until string, min int) ([]store.CompanyCount, error)
}

type ScoreStats struct {
	Candidates int `json:"candidates"`
	Scored     int `json:"scored"`
	Failed     int `json:"failed"`
	Hot        int `json:"hot"`
	Warm       int `json:"warm"`
	Cold       int `json:"cold"`
}

// Batch scores every candidate company as of one date and records a
// signal for each. Companies are scored one at a time; a company that
// fails is logged and skipped.
type Batch struct {
	Candidates  CandidateStore
	Scorer      rank.Scorer
	Recorder    rank.Recorder
	Events      events.Publisher
	WindowDays  int
	MinPostings int
	RunID       string
}

func (b Batch) Run(ctx context.Context, asOf time.Time) (ScoreStats, error) {
	var st ScoreStats

	window, min := b.WindowDays, b.MinPostings
	if window <= 0 {
		window = rank.Days30
	}
	if min <= 0 {
		min = 1
	}

	candidates, err := b.Candidates.CandidateCompanies(ctx, rank.Since(asOf, window), rank.Until(asOf), min)
	if err != nil {
		return st, fmt.Errorf("list candidate companies: %w", err)
	}
	st.Candidates = len(candidates)

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		res, err := b.scoreOne(ctx, c.CompanyID, asOf)
		if err != nil {
			st.Failed++
			log.Error().Err(err).Int64("company_id", c.CompanyID).Str("company", c.Name).Msg("scoring failed")
			continue
		}

		st.Scored++
		switch res.LeadTemperature {
		case domain.Hot:
			st.Hot++
		case domain.Warm:
			st.Warm++
		default:
			st.Cold++
		}

		events.Emit(b.Events, b.RunID, events.TypeSignalRecorded, map[string]any{
			"company_id":       res.CompanyID,
			"company":          c.Name,
			"final_score":      res.FinalScore,
			"lead_temperature": res.LeadTemperature,
		})
	}

	log.Info().
		Int("candidates", st.Candidates).
		Int("scored", st.Scored).
		Int("failed", st.Failed).
		Int("hot", st.Hot).
		Int("warm", st.Warm).
		Int("cold", st.Cold).
		Msg("scoring done")
	return st, nil
}

func (b Batch) scoreOne(ctx context.Context, companyID int64, asOf time.Time) (res rank.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	res, err = b.Scorer.Score(ctx, companyID, asOf)
	if err != nil {
		return res, err
	}
	if _, err := b.Recorder.Record(ctx, res, asOf, domain.SignalTypeHiringVelocity); err != nil {
		return res, fmt.Errorf("record signal: %w", err)
	}
	return res, nil
}
