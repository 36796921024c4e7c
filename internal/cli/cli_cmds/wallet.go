package cli_cmds

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewWallet creates the wallet command group
func NewWallet(params *cli.CmdParams) *cobra.Command {
	walletCmd := &cobra.Command{
		Use:     "wallet",
		Aliases: []string{"wallets", "w"},
		Short:   "Manage wallets",
		Long:    `Create, list, edit and delete the wallets that hold your balances.`,
	}

	walletCmd.AddCommand(newWalletAdd(params))
	walletCmd.AddCommand(newWalletList(params))
	walletCmd.AddCommand(newWalletUpdate(params))
	walletCmd.AddCommand(newWalletDelete(params))
	walletCmd.AddCommand(newWalletVerify(params))

	return walletCmd
}

func newWalletAdd(params *cli.CmdParams) *cobra.Command {
	var balance, currency, walletType, description string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			opening, err := parseAmount("opening_balance", balance)
			if err != nil {
				return err
			}

			wallet, err := svc.Wallets.CreateWallet(cmd.Context(), params.ActingUser(), usecases.CreateWalletInput{
				Name:           args[0],
				Description:    description,
				Currency:       strings.ToUpper(currency),
				Type:           models.WalletType(walletType),
				OpeningBalance: opening,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(
				fmt.Sprintf("Created wallet %s (%s) with balance %s %s", wallet.Name, wallet.ID, money(wallet.Balance), wallet.Currency)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&balance, "balance", "b", "0", "Opening balance")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default is ledger.currency)")
	cmd.Flags().StringVarP(&walletType, "type", "t", string(models.WalletTypeCash), "Wallet type (cash, bank, credit_card, investment, crypto, other)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")

	return cmd
}

func newWalletList(params *cli.CmdParams) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			wallets, err := svc.Wallets.ListWallets(cmd.Context(), params.ActingUser())
			if err != nil {
				return err
			}
			if asJSON {
				return cli.PrintJSON(cmd.OutOrStdout(), wallets)
			}

			table := cli.NewTable(cmd.OutOrStdout(), "ID", "NAME", "TYPE", "BALANCE", "CURRENCY", "ACTIVE")
			for _, w := range wallets {
				table.Row(w.ID, w.Name, string(w.Type), money(w.Balance), w.Currency, yesNo(w.IsActive))
			}
			return table.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func newWalletUpdate(params *cli.CmdParams) *cobra.Command {
	var name, description, walletType string
	var active bool

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Edit a wallet",
		Long:  `Edit the name, description, type or active flag of a wallet. The balance only changes through transactions.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}

			var input usecases.UpdateWalletInput
			flags := cmd.Flags()
			if flags.Changed("name") {
				input.Name = &name
			}
			if flags.Changed("description") {
				input.Description = &description
			}
			if flags.Changed("type") {
				t := models.WalletType(walletType)
				input.Type = &t
			}
			if flags.Changed("active") {
				input.IsActive = &active
			}

			wallet, err := svc.Wallets.UpdateWallet(cmd.Context(), params.ActingUser(), args[0], input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Updated wallet "+wallet.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&walletType, "type", "t", "", "New wallet type")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the wallet is active")

	return cmd
}

func newWalletDelete(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a wallet and its transactions",
		Long:  `Delete a wallet together with its transactions. Transfers to or from other wallets are reverted on the other side.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			if err := svc.Wallets.DeleteWallet(cmd.Context(), params.ActingUser(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Deleted wallet "+args[0]))
			return nil
		},
	}
}

func newWalletVerify(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [id]",
		Short: "Check cached balances against the transaction history",
		Long:  `Recompute each wallet balance from its opening balance and transactions and compare it with the stored balance. Without an id every wallet is checked.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ledger(params)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user := params.ActingUser()

			ids := args
			if len(ids) == 0 {
				wallets, err := svc.Wallets.ListWallets(ctx, user)
				if err != nil {
					return err
				}
				for _, w := range wallets {
					ids = append(ids, w.ID)
				}
			}

			table := cli.NewTable(cmd.OutOrStdout(), "WALLET", "CACHED", "EXPECTED", "STATUS")
			drifted := 0
			for _, id := range ids {
				check, err := svc.Wallets.VerifyBalance(ctx, user, id)
				if err != nil {
					return err
				}
				status := cli.SuccessStyle.Render("ok")
				if !check.Consistent {
					status = cli.ErrorStyle.Render("drift")
					drifted++
				}
				table.Row(check.WalletID, money(check.Cached), money(check.Expected), status)
			}
			if err := table.Flush(); err != nil {
				return err
			}

			if drifted > 0 {
				return fmt.Errorf("%d wallet balance(s) do not match their transactions", drifted)
			}
			return nil
		},
	}
}
