package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/scrape/util"
)

func companyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Inspect and enrich companies",
	}

	var (
		linkedin  string
		headcount int
		industry  string
		icp       bool
		customer  bool
	)
	set := &cobra.Command{
		Use:   "set NAME",
		Short: "Create or update a company; only the flags given are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u domain.CompanyUpdate
			fl := cmd.Flags()
			if fl.Changed("linkedin") {
				u.LinkedInURL = &linkedin
			}
			if fl.Changed("headcount") {
				u.HeadcountPoland = &headcount
			}
			if fl.Changed("industry") {
				u.Industry = &industry
			}
			if fl.Changed("icp") {
				u.IsICPMatch = &icp
			}
			if fl.Changed("customer") {
				u.IsExistingCustomer = &customer
			}
			if err := u.Validate(); err != nil {
				return err
			}

			db, err := a.store()
			if err != nil {
				return err
			}
			c, err := db.UpsertCompany(cmd.Context(), util.NormalizeCompanyName(args[0]), u)
			if err != nil {
				return err
			}
			return printJSON(cmd, c)
		},
	}
	set.Flags().StringVar(&linkedin, "linkedin", "", "LinkedIn company page URL")
	set.Flags().IntVar(&headcount, "headcount", 0, "employees in Poland")
	set.Flags().StringVar(&industry, "industry", "", "industry")
	set.Flags().BoolVar(&icp, "icp", false, "matches the ideal customer profile")
	set.Flags().BoolVar(&customer, "customer", false, "already a customer (excluded from reports)")

	var asOfStr string
	score := &cobra.Command{
		Use:   "score NAME",
		Short: "Score one company without recording a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := parseAsOf(asOfStr)
			if err != nil {
				return err
			}
			db, err := a.store()
			if err != nil {
				return err
			}
			id, err := db.CompanyIDByName(cmd.Context(), util.NormalizeCompanyName(args[0]))
			if err != nil {
				return fmt.Errorf("company %q: %w", args[0], err)
			}
			res, err := newEngine(a, db).Score(cmd.Context(), id, asOf)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	score.Flags().StringVar(&asOfStr, "as-of", "", "score as of YYYY-MM-DD (default today)")

	cmd.AddCommand(set, score)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
