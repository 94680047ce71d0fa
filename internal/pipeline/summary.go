package pipeline

import (
	"context"
	"time"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/rank"
	"hr-alerter/internal/store"
)

type SummaryStore interface {
	JobCount(ctx context.Context) (int, error)
	TopCompanies(ctx context.Context, limit int) ([]store.CompanyCount, error)
	LatestLeadSignals(ctx context.Context, since string) ([]domain.Signal, error)
}

// Summary is the post-run overview printed by the CLI.
type Summary struct {
	TotalPostings int                  `json:"total_postings"`
	NewPostings   int                  `json:"new_postings"`
	TopCompanies  []store.CompanyCount `json:"top_companies"`
	Leads         []domain.Signal      `json:"leads"`
}

const SummaryTopN = 15

func BuildSummary(ctx context.Context, db SummaryStore, asOf time.Time, newPostings int) (Summary, error) {
	s := Summary{NewPostings: newPostings}

	var err error
	if s.TotalPostings, err = db.JobCount(ctx); err != nil {
		return s, err
	}
	if s.TopCompanies, err = db.TopCompanies(ctx, SummaryTopN); err != nil {
		return s, err
	}
	if s.Leads, err = db.LatestLeadSignals(ctx, rank.Since(asOf, rank.Days7)); err != nil {
		return s, err
	}
	return s, nil
}
