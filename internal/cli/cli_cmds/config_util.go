package cli_cmds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewConfig creates a command to inspect and edit the configuration
func NewConfig(params *cli.CmdParams) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage spendr configuration",
		Long:        `View and modify the configuration settings. Values resolve from the config file, then SPENDR_ environment variables, then defaults.`,
		Annotations: standalone(),
	}

	configCmd.AddCommand(newConfigGet(params))
	configCmd.AddCommand(newConfigSet(params))
	configCmd.AddCommand(newConfigList(params))

	return configCmd
}

func readConfig(params *cli.CmdParams) (*viper.Viper, error) {
	v := internal.NewViper(params.ConfigFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

func newConfigGet(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readConfig(params)
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			for _, s := range internal.Settings(v) {
				if s.Key == key {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", s.Key, s.Value)
					return nil
				}
			}
			return fmt.Errorf("config key %q not found", key)
		},
	}
}

func newConfigSet(params *cli.CmdParams) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Long:  `Set a configuration value and persist it to the config file. Without --config the file is ./config.json.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readConfig(params)
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			if !v.IsSet(key) {
				return fmt.Errorf("config key %q not found", key)
			}
			v.Set(key, args[1])

			target := v.ConfigFileUsed()
			if target == "" {
				target = "config.json"
			}
			if err := v.WriteConfigAs(target); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(fmt.Sprintf("%s updated in %s", key, target)))
			return nil
		},
	}
}

func newConfigList(params *cli.CmdParams) *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readConfig(params)
			if err != nil {
				return err
			}
			settings := internal.Settings(v)
			out := cmd.OutOrStdout()

			switch strings.ToLower(format) {
			case "json":
				values := make(map[string]string, len(settings))
				for _, s := range settings {
					values[s.Key] = s.Value
				}
				return cli.PrintJSON(out, values)
			case "text", "":
				fmt.Fprintln(out, cli.TitleStyle.Render("Current Configuration"))
				if used := v.ConfigFileUsed(); used != "" {
					fmt.Fprintln(out, cli.SubtleStyle.Render("file: "+used))
				}
				for _, s := range settings {
					fmt.Fprintf(out, "%s = %s\n", s.Key, s.Value)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	listCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text or json)")

	return listCmd
}
