package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewTx creates the transaction command group
func NewTx(params *cli.CmdParams) *cobra.Command {
	txCmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction", "transactions"},
		Short:   "Record and browse transactions",
		Long:    `Record income and expenses against a wallet. Every change updates the wallet balance in the same database transaction.`,
	}

	txCmd.AddCommand(newTxAdd(params))
	txCmd.AddCommand(newTxUpdate(params))
	txCmd.AddCommand(newTxDelete(params))
	txCmd.AddCommand(newTxList(params))

	return txCmd
}

func newTxAdd(params *cli.CmdParams) *cobra.Command {
	var walletID, categoryID, txType, amount, date, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}

			input := usecases.CreateTransactionInput{
				WalletID:    walletID,
				CategoryID:  categoryID,
				Type:        models.TransactionType(txType),
				Description: description,
			}
			if input.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if date != "" {
				if input.Date, err = parseDay("date", date); err != nil {
					return err
				}
			}

			tx, err := svc.Transactions.CreateTransaction(cmd.Context(), params.ActingUser(), input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("Recorded %s of %s on %s (%s)", tx.Type, money(tx.Amount), tx.Date.Format(models.DateLayout), tx.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&walletID, "wallet", "w", "", "Wallet id")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Category id")
	cmd.Flags().StringVarP(&txType, "type", "t", string(models.TransactionTypeExpense), "Transaction type (income or expense)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount, greater than zero")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default is today)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	_ = cmd.MarkFlagRequired("wallet")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTxUpdate(params *cli.CmdParams) *cobra.Command {
	var walletID, categoryID, txType, amount, date, description string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Edit a transaction",
		Long:  `Edit a transaction. Only the flags given are changed; the old effect on the wallet is reverted and the new one applied atomically.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}

			var input usecases.UpdateTransactionInput
			flags := cmd.Flags()
			if flags.Changed("wallet") {
				input.WalletID = &walletID
			}
			if flags.Changed("category") {
				input.CategoryID = &categoryID
			}
			if flags.Changed("type") {
				t := models.TransactionType(txType)
				input.Type = &t
			}
			if flags.Changed("amount") {
				a, err := parseAmount("amount", amount)
				if err != nil {
					return err
				}
				input.Amount = &a
			}
			if flags.Changed("date") {
				d, err := parseDay("date", date)
				if err != nil {
					return err
				}
				input.Date = &d
			}
			if flags.Changed("description") {
				input.Description = &description
			}

			tx, err := svc.Transactions.UpdateTransaction(cmd.Context(), params.ActingUser(), args[0], input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("Updated %s to %s %s on %s", tx.ID, tx.Type, money(tx.Amount), tx.Date.Format(models.DateLayout))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&walletID, "wallet", "w", "", "New wallet id")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "New category id, empty to clear")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "New type (income or expense)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "New amount")
	cmd.Flags().StringVar(&date, "date", "", "New date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")

	return cmd
}

func newTxDelete(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a transaction and revert its effect",
		Long:  `Delete a transaction and revert its effect on the wallet balance. Deleting either leg of a transfer removes both legs.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			if err := svc.Transactions.DeleteTransaction(cmd.Context(), params.ActingUser(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Deleted transaction "+args[0]))
			return nil
		},
	}
}

func newTxList(params *cli.CmdParams) *cobra.Command {
	var query usecases.TransactionQuery
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			txs, err := svc.Transactions.ListTransactions(cmd.Context(), params.ActingUser(), query)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.PrintJSON(cmd.OutOrStdout(), txs)
			}

			table := cli.NewTable(cmd.OutOrStdout(), "ID", "DATE", "TYPE", "AMOUNT", "WALLET", "CATEGORY", "DESCRIPTION")
			for _, tx := range txs {
				category := ""
				if tx.CategoryID != nil {
					category = *tx.CategoryID
				}
				table.Row(tx.ID, tx.Date.Format(models.DateLayout), string(tx.Type), money(tx.SignedAmount()), tx.WalletID, category, tx.Description)
			}
			return table.Flush()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&query.WalletID, "wallet", "w", "", "Only transactions of this wallet")
	flags.StringVarP(&query.CategoryID, "category", "c", "", "Only transactions of this category")
	flags.StringVarP(&query.Type, "type", "t", "", "Only income, expense or transfer")
	flags.StringVar(&query.StartDate, "start", "", "Earliest date as YYYY-MM-DD")
	flags.StringVar(&query.EndDate, "end", "", "Latest date as YYYY-MM-DD")
	flags.StringVar(&query.Description, "search", "", "Only descriptions containing this text")
	flags.IntVar(&query.Limit, "limit", 50, "Maximum rows, 0 for all")
	flags.IntVar(&query.Offset, "offset", 0, "Rows to skip")
	flags.BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
