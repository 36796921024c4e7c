package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewTransfer creates a command that moves money between two wallets
func NewTransfer(params *cli.CmdParams) *cobra.Command {
	var from, to, amount, description string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two of your wallets",
		Long:  `Move money between two wallets of the same currency. Both balances and the paired transactions are written atomically.`,
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

			result, err := svc.Transactions.TransferFunds(cmd.Context(), params.ActingUser(), usecases.TransferInput{
				FromWalletID: from,
				ToWalletID:   to,
				Amount:       value,
				Description:  description,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return cli.PrintJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.SuccessStyle.Render(fmt.Sprintf("Transferred %s", money(value))))
			fmt.Fprintf(out, "  from balance: %s\n", money(result.FromBalance))
			fmt.Fprintf(out, "  to balance:   %s\n", money(result.ToBalance))
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Source wallet id")
	cmd.Flags().StringVarP(&to, "to", "t", "", "Destination wallet id")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount to move")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Note added to both transactions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
