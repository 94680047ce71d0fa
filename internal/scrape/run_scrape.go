package scrape

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hr-alerter/internal/config"
	"hr-alerter/internal/domain"
	"hr-alerter/internal/scrape/types"
)

// Ingester stores postings, returning how many were new.
type Ingester interface {
	InsertPostings(ctx context.Context, postings []domain.JobPosting) (int, error)
}

type Result struct {
	Found    int               `json:"found"`
	Skipped  int               `json:"skipped"`
	Inserted int               `json:"inserted"`
	BySource map[string]int    `json:"by_source"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// RunOnce scrapes every source concurrently and ingests what they
// return. A failing source is logged and recorded in Result.Errors
// without cancelling the others; only a storage error fails the run.
func RunOnce(ctx context.Context, db Ingester, cfg config.Config, sources []Source) (Result, error) {
	res := Result{BySource: map[string]int{}}

	var g errgroup.Group
	results := make(chan types.ScrapeResult, len(sources))

	for _, src := range sources {
		src := src

		g.Go(func() error {
			timeout := src.Timeout
			if timeout <= 0 {
				timeout = 5 * time.Minute
			}
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			log.Info().Str("source", src.Fetcher.Name()).Msg("scraping")
			postings, err := src.Fetcher.Scrape(fctx, src.Keywords, src.MaxPages)
			if err != nil {
				log.Error().Err(err).Str("source", src.Fetcher.Name()).Int("partial", len(postings)).Msg("scrape failed")
			}
			results <- types.ScrapeResult{Source: src.Fetcher.Name(), Postings: postings, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	var all []domain.JobPosting
	for r := range results {
		res.BySource[r.Source] = len(r.Postings)
		res.Found += len(r.Postings)
		if r.Err != nil {
			if res.Errors == nil {
				res.Errors = map[string]string{}
			}
			res.Errors[r.Source] = r.Err.Error()
		}
		all = append(all, r.Postings...)
	}

	// stable order regardless of which source finished first
	sort.SliceStable(all, func(i, j int) bool { return all[i].Source < all[j].Source })

	prepared, skipped := Prepare(cfg, all)
	res.Skipped = skipped

	inserted, err := db.InsertPostings(ctx, prepared)
	if err != nil {
		return res, err
	}
	res.Inserted = inserted

	log.Info().
		Int("found", res.Found).
		Int("skipped", res.Skipped).
		Int("inserted", res.Inserted).
		Msg("scrape finished")
	return res, nil
}
