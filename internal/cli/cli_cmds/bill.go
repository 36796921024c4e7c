package cli_cmds

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewBill creates the recurring bill command group
func NewBill(params *cli.CmdParams) *cobra.Command {
	billCmd := &cobra.Command{
		Use:     "bill",
		Aliases: []string{"bills"},
		Short:   "Manage recurring monthly bills",
	}

	billCmd.AddCommand(newBillAdd(params))
	billCmd.AddCommand(newBillList(params))
	billCmd.AddCommand(newBillDelete(params))
	billCmd.AddCommand(newBillUpcoming(params))

	return billCmd
}

func newBillAdd(params *cli.CmdParams) *cobra.Command {
	var amount, categoryID, notes string
	var dueDay int

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a bill due every month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			value, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}

			bill, err := svc.Bills.CreateRecurringBill(cmd.Context(), params.ActingUser(), usecases.CreateRecurringBillInput{
				Name:       args[0],
				Amount:     value,
				DueDay:     dueDay,
				CategoryID: categoryID,
				Notes:      notes,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("Added bill %s of %s due on day %d (%s)", bill.Name, money(bill.Amount), bill.DueDay, bill.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount due")
	cmd.Flags().IntVar(&dueDay, "due-day", 0, "Day of the month the bill is due, 1-31")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Expense category id")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Notes")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("due-day")

	return cmd
}

func newBillList(params *cli.CmdParams) *cobra.Command {
	var activeOnly, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recurring bills by due day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			bills, err := svc.Bills.ListRecurringBills(cmd.Context(), params.ActingUser(), activeOnly)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.PrintJSON(cmd.OutOrStdout(), bills)
			}

			table := cli.NewTable(cmd.OutOrStdout(), "ID", "NAME", "AMOUNT", "DUE DAY", "ACTIVE")
			for _, b := range bills {
				table.Row(b.ID, b.Name, money(b.Amount), fmt.Sprint(b.DueDay), yesNo(b.IsActive))
			}
			return table.Flush()
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active bills")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func newBillDelete(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a recurring bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			if err := svc.Bills.DeleteRecurringBill(cmd.Context(), params.ActingUser(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Deleted bill "+args[0]))
			return nil
		},
	}
}

func newBillUpcoming(params *cli.CmdParams) *cobra.Command {
	var today string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show bills due in the next 30 days",
		Args:  cobra.NoArgs,
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

			bills, err := svc.Bills.Upcoming(cmd.Context(), params.ActingUser(), day)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.PrintJSON(cmd.OutOrStdout(), bills)
			}

			table := cli.NewTable(cmd.OutOrStdout(), "DUE", "NAME", "AMOUNT", "CATEGORY")
			for _, b := range bills {
				category := ""
				if b.CategoryName != nil {
					category = *b.CategoryName
				}
				table.Row(b.DueDate, b.Name, money(b.Amount), category)
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "Project from this date as YYYY-MM-DD (default is today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
