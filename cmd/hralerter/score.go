package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/events"
	"hr-alerter/internal/pipeline"
	"hr-alerter/internal/rank"
)

func linkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Create companies from posting names and link unlinked postings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			st, err := pipeline.Link(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d raw names, %d new companies, %d postings linked, %d unmatched\n",
				st.RawNames, st.CompaniesCreated, st.PostingsLinked, st.Unmatched)
			return nil
		},
	}
}

func scoreCmd(a *app) *cobra.Command {
	var (
		asOfStr     string
		window      int
		minPostings int
		noLink      bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every candidate company and record a signal for each",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf, err := parseAsOf(asOfStr)
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			if !noLink {
				if _, err := pipeline.Link(cmd.Context(), db); err != nil {
					return err
				}
			}

			cfg := a.cfg()
			if window <= 0 {
				window = cfg.Scoring.CandidateWindowDays
			}
			if minPostings <= 0 {
				minPostings = cfg.Scoring.CandidateMinPostings
			}

			b := pipeline.Batch{
				Candidates:  db,
				Scorer:      newEngine(a, db),
				Recorder:    rank.Recorder{Store: db},
				Events:      events.Discard{},
				WindowDays:  window,
				MinPostings: minPostings,
			}
			st, err := b.Run(cmd.Context(), asOf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scored %d of %d companies (%d failed)\n", st.Scored, st.Candidates, st.Failed)
			fmt.Fprintf(out, "Hot: %d | Warm: %d | Cold: %d\n", st.Hot, st.Warm, st.Cold)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfStr, "as-of", "", "score as of YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&window, "window", 0, "candidate window in days (default from config)")
	cmd.Flags().IntVar(&minPostings, "min-postings", 0, "minimum postings in the window (default from config)")
	cmd.Flags().BoolVar(&noLink, "no-link", false, "skip the linking pass")
	return cmd
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, s, time.Local)
	if err != nil {
		return t, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func newEngine(a *app, db rank.Store) *rank.Engine {
	return rank.NewEngine(db, a.cfg().Scoring.Keywords)
}
