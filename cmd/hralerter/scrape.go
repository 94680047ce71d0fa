package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hr-alerter/internal/config"
	"hr-alerter/internal/scrape"
)

func scrapeCmd(a *app) *cobra.Command {
	var (
		source  string
		pages   int
		keyword []string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape job boards for HR postings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := scrapeConfig(a.cfg(), source, pages, keyword)
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}

			res, err := scrape.RunOnce(cmd.Context(), db, cfg, scrape.Sources(cfg))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for src, n := range res.BySource {
				fmt.Fprintf(out, "  %s: %d HR jobs found\n", src, n)
			}
			for src, msg := range res.Errors {
				fmt.Fprintf(out, "  %s error: %s\n", src, msg)
			}
			if res.Found == 0 {
				fmt.Fprintln(out, "No jobs returned by scrapers.")
				return nil
			}
			fmt.Fprintf(out, "Done. %d jobs found, %d skipped, %d new jobs inserted.\n", res.Found, res.Skipped, res.Inserted)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "all", "job board: nofluff, pracuj or all")
	cmd.Flags().IntVar(&pages, "pages", 0, "result pages per keyword (default from config)")
	cmd.Flags().StringSliceVar(&keyword, "keyword", nil, "search keyword, repeatable (default from config)")
	return cmd
}

// scrapeConfig narrows cfg to the boards and search terms asked for on
// the command line.
func scrapeConfig(cfg config.Config, source string, pages int, keywords []string) (config.Config, error) {
	switch strings.ToLower(source) {
	case "all", "":
	case "nofluff":
		cfg.Sources.Pracuj.Enabled = false
		cfg.Sources.NoFluff.Enabled = true
	case "pracuj":
		cfg.Sources.NoFluff.Enabled = false
		cfg.Sources.Pracuj.Enabled = true
	default:
		return cfg, fmt.Errorf("unknown source %q (want nofluff, pracuj or all)", source)
	}

	if pages > 0 {
		cfg.Sources.Pracuj.MaxPages = pages
	}
	if len(keywords) > 0 {
		cfg.Sources.Pracuj.Keywords = keywords
		cfg.Filters.HRTitleKeywords = append(append([]string(nil), cfg.Filters.HRTitleKeywords...), keywords...)
	}
	return cfg, nil
}
