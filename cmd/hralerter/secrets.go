package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hr-alerter/internal/secrets"
)

func secretsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage the SMTP password in the OS keychain",
	}

	var password string
	set := &cobra.Command{
		Use:   "set-smtp",
		Short: "Store the SMTP password for smtp.username (reads stdin without --password)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := a.cfg().SMTP.Username
			if user == "" {
				return errors.New("smtp.username is not set (config or SMTP_EMAIL)")
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if err := secrets.SetSMTPPassword(user, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored SMTP password for %s\n", user)
			return nil
		},
	}
	set.Flags().StringVar(&password, "password", "", "password (prefer stdin)")

	del := &cobra.Command{
		Use:   "delete-smtp",
		Short: "Remove the stored SMTP password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := a.cfg().SMTP.Username
			if err := secrets.DeleteSMTPPassword(user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed SMTP password for %s\n", user)
			return nil
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file in use",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), a.cfgPath)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as JSON",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printJSON(cmd, a.cfg())
			},
		},
	)
	return cmd
}
