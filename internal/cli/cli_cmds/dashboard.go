package cli_cmds

import (
	"time"

	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewDashboard creates a command that prints the dashboard summary as JSON
func NewDashboard(params *cli.CmdParams) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Print the dashboard summary for the current month",
		Long:    `Print balances, this month's totals, spending by category, budget progress, upcoming bills and alerts as JSON.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			var day time.Time
			if today != "" {
				if day, err = parseDay("today", today); err != nil {
					return err
				}
			}

			summary, err := svc.Dashboard.GetDashboardSummary(cmd.Context(), params.ActingUser(), day)
			if err != nil {
				return err
			}
			return cli.PrintJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "Compute the summary as of this date, YYYY-MM-DD")

	return cmd
}

// NewSummary creates a command that prints income and expense totals per month as JSON
func NewSummary(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print monthly income and expense totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			months, err := svc.Dashboard.GetMonthlySummary(cmd.Context(), params.ActingUser())
			if err != nil {
				return err
			}
			return cli.PrintJSON(cmd.OutOrStdout(), months)
		},
	}
}
