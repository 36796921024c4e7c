package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewCategory creates the category command group
func NewCategory(params *cli.CmdParams) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage income and expense categories",
	}

	categoryCmd.AddCommand(newCategoryAdd(params))
	categoryCmd.AddCommand(newCategoryList(params))
	categoryCmd.AddCommand(newCategoryDelete(params))
	categoryCmd.AddCommand(newCategorySeed(params))

	return categoryCmd
}

func newCategoryAdd(params *cli.CmdParams) *cobra.Command {
	var categoryType, budget, color, description string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			monthly, err := parseAmount("monthly_budget", budget)
			if err != nil {
				return err
			}

			category, err := svc.Categories.CreateCategory(cmd.Context(), params.ActingUser(), usecases.CreateCategoryInput{
				Name:          args[0],
				Description:   description,
				Type:          models.CategoryType(categoryType),
				Color:         color,
				MonthlyBudget: monthly,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("Created %s category %s (%s)", category.Type, category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryType, "type", "t", string(models.CategoryTypeExpense), "Category type (income or expense)")
	cmd.Flags().StringVarP(&budget, "budget", "b", "0", "Monthly budget, expense categories only")
	cmd.Flags().StringVar(&color, "color", "", "Display color as #RRGGBB")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")

	return cmd
}

func newCategoryList(params *cli.CmdParams) *cobra.Command {
	var categoryType string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			categories, err := svc.Categories.ListCategories(cmd.Context(), params.ActingUser(), models.CategoryType(categoryType))
			if err != nil {
				return err
			}
			if asJSON {
				return cli.PrintJSON(cmd.OutOrStdout(), categories)
			}

			table := cli.NewTable(cmd.OutOrStdout(), "ID", "NAME", "TYPE", "BUDGET", "SHARED")
			for _, c := range categories {
				table.Row(c.ID, c.Name, string(c.Type), money(c.MonthlyBudget), yesNo(c.IsShared()))
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringVarP(&categoryType, "type", "t", "", "Only list income or expense categories")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func newCategoryDelete(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an unused category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			if err := svc.Categories.DeleteCategory(cmd.Context(), params.ActingUser(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Deleted category "+args[0]))
			return nil
		},
	}
}

func newCategorySeed(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default categories",
		Long:  `Create the default income and expense categories for the acting user. Categories that already exist by name and type are skipped.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			created, err := svc.Categories.SeedDefaults(cmd.Context(), params.ActingUser())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(fmt.Sprintf("Seeded %d categories", len(created))))
			return nil
		},
	}
}
