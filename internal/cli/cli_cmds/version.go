package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"

	"github.com/spf13/cobra"
)

// NewVersion creates a version command
func NewVersion(params *cli.CmdParams) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:         "version",
		Short:       "Print the version of spendr",
		Long:        `Print the version information for spendr including build details.`,
		Annotations: standalone(),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.TitleStyle.Render("spendr"))
			fmt.Fprintln(out, "======")
			fmt.Fprintf(out, "%s\n", internal.VersionInfo())
		},
	}

	return versionCmd
}
