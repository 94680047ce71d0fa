package types

import (
	"context"

	"hr-alerter/internal/domain"
)

// Fetcher is one job board. Scrape returns postings in ingestion shape;
// keywords are search terms and maxPages bounds paging where the board pages.
type Fetcher interface {
	Name() string
	Scrape(ctx context.Context, keywords []string, maxPages int) ([]domain.JobPosting, error)
}

type ScrapeResult struct {
	Source   string
	Postings []domain.JobPosting
	Err      error
}
