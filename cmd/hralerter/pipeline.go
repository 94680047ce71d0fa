package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"hr-alerter/internal/events"
	"hr-alerter/internal/pipeline"
)

func pipelineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run a full pipeline",
	}

	var skipScrape bool
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Scrape, link, score and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.runner(events.Discard{})
			if err != nil {
				return err
			}
			res, err := r.Daily(cmd.Context(), pipeline.DailyOptions{SkipScrape: skipScrape})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (%s): %d found, %d new, %d companies scored\n",
				res.RunID, res.AsOf, res.Scrape.Found, res.Scrape.Inserted, res.Score.Scored)
			printSummary(out, res.Summary)
			return nil
		},
	}
	daily.Flags().BoolVar(&skipScrape, "skip-scrape", false, "link and score stored postings only")

	var recipient string
	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Compose, store and send the weekly digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.runner(events.Discard{})
			if err != nil {
				return err
			}
			res, err := r.Weekly(cmd.Context(), recipient)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %s: report %d, %d hot, %d warm, sent=%t\n",
				res.RunID, res.ReportID, res.Hot, res.Warm, res.Sent)
			return nil
		},
	}
	weekly.Flags().StringVar(&recipient, "recipient", "", "recipient address (default from config)")

	cmd.AddCommand(daily, weekly)
	return cmd
}

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print posting totals, top companies and this week's leads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			s, err := pipeline.BuildSummary(cmd.Context(), db, time.Now(), 0)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func printSummary(w io.Writer, s pipeline.Summary) {
	fmt.Fprintf(w, "Total postings: %d (%d new)\n", s.TotalPostings, s.NewPostings)
	if len(s.TopCompanies) > 0 {
		fmt.Fprintln(w, "Top companies:")
		for i, c := range s.TopCompanies {
			fmt.Fprintf(w, "  %2d. %s (%d)\n", i+1, c.Name, c.Postings)
		}
	}
	if len(s.Leads) > 0 {
		fmt.Fprintln(w, "Leads this week:")
		for _, l := range s.Leads {
			fmt.Fprintf(w, "  %-5s %3d  %s\n", l.LeadTemperature, l.FinalScore, l.CompanyName)
		}
	}
}
