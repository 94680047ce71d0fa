// Command hralerter scrapes Polish job boards for HR hiring, scores the
// companies behind the postings and mails a weekly lead digest.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "hralerter",
		Short:         "Polish HR job market lead alerter",
		Long:          `hralerter monitors NoFluffJobs and Pracuj.pl for HR hiring, scores each company on hiring velocity, seniority, ICP fit, content and recency, and emails the hot and warm leads once a week.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.db, "db", "", "SQLite database path (env HR_ALERTER_DB)")
	f.StringVar(&a.flags.config, "config", "", "config file (default <data-dir>/config.yml)")
	f.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (env HR_ALERTER_DATA_DIR, default ~/.hr-alerter)")
	f.StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file to load if present")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.flags.logFormat, "log-format", "", "log format: pretty or json")

	cmd.AddCommand(
		scrapeCmd(a),
		linkCmd(a),
		scoreCmd(a),
		reportCmd(a),
		pipelineCmd(a),
		summaryCmd(a),
		companyCmd(a),
		serveCmd(a),
		secretsCmd(a),
		configCmd(a),
	)
	return cmd
}
