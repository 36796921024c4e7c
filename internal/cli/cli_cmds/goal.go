package cli_cmds

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewGoal creates the budget goal command group
func NewGoal(params *cli.CmdParams) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals", "budget"},
		Short:   "Manage monthly budget goals",
		Long:    `Set spending goals for a month, either for one expense category or overall when no category is given.`,
	}

	goalCmd.AddCommand(newGoalSet(params))
	goalCmd.AddCommand(newGoalList(params))
	goalCmd.AddCommand(newGoalDelete(params))

	return goalCmd
}

// monthOrCurrent fills zero month and year from the current date.
func monthOrCurrent(month, year int) (int, int) {
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

func newGoalSet(params *cli.CmdParams) *cobra.Command {
	var month, year int
	var categoryID, amount, description string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or change the goal for a month",
		Long:  `Create the goal for the month and category, or change its amount when one already exists.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			value, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user := params.ActingUser()
			m, y := monthOrCurrent(month, year)

			goals, err := svc.BudgetGoals.ListBudgetGoals(ctx, user, m, y)
			if err != nil {
				return err
			}

			var goal *models.BudgetGoal
			for _, g := range goals {
				if (g.CategoryID == nil && categoryID == "") || (g.CategoryID != nil && *g.CategoryID == categoryID) {
					goal = g
					break
				}
			}

			if goal == nil {
				goal, err = svc.BudgetGoals.CreateBudgetGoal(ctx, user, usecases.CreateBudgetGoalInput{
					Month:       m,
					Year:        y,
					CategoryID:  categoryID,
					Amount:      value,
					Description: description,
				})
			} else {
				input := usecases.UpdateBudgetGoalInput{Amount: &value}
				if cmd.Flags().Changed("description") {
					input.Description = &description
				}
				goal, err = svc.BudgetGoals.UpdateBudgetGoal(ctx, user, goal.ID, input)
			}
			if err != nil {
				return err
			}

			scope := "overall"
			if goal.CategoryID != nil {
				scope = "category " + *goal.CategoryID
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("Goal for %02d/%d (%s) set to %s", goal.Month, goal.Year, scope, money(goal.Amount))))
			return nil
		},
	}

	cmd.Flags().IntVarP(&month, "month", "m", 0, "Month 1-12 (default is the current month)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default is the current year)")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Expense category id, empty for the overall goal")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Goal amount")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newGoalList(params *cli.CmdParams) *cobra.Command {
	var month, year int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budget goals",
		Long:  `List budget goals, newest month first. Without flags every goal is listed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			goals, err := svc.BudgetGoals.ListBudgetGoals(cmd.Context(), params.ActingUser(), month, year)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.PrintJSON(cmd.OutOrStdout(), goals)
			}

			table := cli.NewTable(cmd.OutOrStdout(), "ID", "MONTH", "CATEGORY", "AMOUNT", "DESCRIPTION")
			for _, g := range goals {
				category := "overall"
				if g.CategoryID != nil {
					category = *g.CategoryID
				}
				table.Row(g.ID, fmt.Sprintf("%d-%02d", g.Year, g.Month), category, money(g.Amount), g.Description)
			}
			return table.Flush()
		},
	}

	cmd.Flags().IntVarP(&month, "month", "m", 0, "Only this month")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Only this year")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func newGoalDelete(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a budget goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			if err := svc.BudgetGoals.DeleteBudgetGoal(cmd.Context(), params.ActingUser(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Deleted goal "+args[0]))
			return nil
		},
	}
}
