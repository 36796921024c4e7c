package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/spendr-go/internal/cli"

	"github.com/spf13/cobra"
)

// NewHelp creates a help command that walks the command palette
func NewHelp(params *cli.CmdParams) *cobra.Command {
	var showAll bool

	helpCmd := &cobra.Command{
		Use:         "detailed_help",
		Aliases:     []string{"h"},
		Short:       "Display detailed help for spendr",
		Long:        `Display the command hierarchy of spendr with a short description of every command.`,
		Annotations: standalone(),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.TitleStyle.Render("spendr - personal finance ledger"))
			fmt.Fprintln(out, "\nCommands:")

			for _, c := range params.Palette {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
				if !showAll {
					continue
				}
				for _, sub := range c.Commands() {
					fmt.Fprintf(out, "    %-10s %s\n", sub.Name(), cli.SubtleStyle.Render(sub.Short))
				}
			}

			fmt.Fprintln(out, "\nUse 'spendr [command] --help' for more information about a command.")
			if !showAll {
				fmt.Fprintln(out, "Use 'spendr detailed_help --all' to include subcommands.")
			}
		},
	}

	helpCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show subcommands as well")

	return helpCmd
}
