package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hr-alerter/internal/events"
	"hr-alerter/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	var (
		recipient string
		dryRun    bool
		outFile   string
		asOfStr   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compose the weekly digest, store it and email it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if dryRun {
				asOf, err := parseAsOf(asOfStr)
				if err != nil {
					return err
				}
				db, err := a.store()
				if err != nil {
					return err
				}
				cfg := a.cfg()
				c := &report.Composer{Store: db, Keywords: cfg.Scoring.Keywords, SubjectSuffix: cfg.Report.SubjectSuffix}
				d, err := c.Compose(cmd.Context(), asOf)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n%s: %d hot, %d warm\n", d.Subject, d.WeekRange, len(d.Hot), len(d.Warm))
				if outFile != "" {
					if err := os.WriteFile(outFile, []byte(d.HTML), 0o644); err != nil {
						return err
					}
					fmt.Fprintf(out, "HTML written to %s\n", outFile)
				}
				return nil
			}

			r, err := a.runner(events.Discard{})
			if err != nil {
				return err
			}
			res, err := r.Weekly(cmd.Context(), recipient)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Report %d: %d hot, %d warm signals.\n", res.ReportID, res.Hot, res.Warm)
			if res.Sent {
				fmt.Fprintf(out, "Report sent to %s.\n", res.Recipient)
			} else {
				fmt.Fprintln(out, "Report stored but not sent. Check the recipient and SMTP credentials.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient address (default report.recipient / RECIPIENT_EMAIL)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compose only; do not store or send")
	cmd.Flags().StringVar(&outFile, "out", "", "with --dry-run, write the HTML body here")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "with --dry-run, compose as of YYYY-MM-DD")
	return cmd
}
