package main

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/spendr-go/adapters/repositories/sqlite"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli/cli_cmds"
	"github.com/ZanzyTHEbar/spendr-go/internal/nats_common"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	// Setup the Root Command; the ledger opens lazily on the first command that needs it
	rootParams := &cli.CmdParams{
		Palette:   nil,
		Bootstrap: bootstrap,
		Use:       "spendr",
		Alias:     "sp",
		Short:     "Personal finance ledger",
		Long:      "spendr - track wallets, income and expenses, transfers, budgets and recurring bills",
	}
	defer rootParams.Close()

	// Generate command palette
	palette := cli_cmds.GeneratePalette(rootParams)
	rootParams.Palette = palette

	// Create root command
	rootCmd := cli.NewRootCMD(rootParams)

	return rootCmd.Root.Execute()
}

// bootstrap loads the configuration, opens the database and wires the services.
func bootstrap(params *cli.CmdParams) error {
	cfg, logger, err := internal.Init(params.ConfigFile)
	if err != nil {
		return err
	}
	params.Config = cfg
	params.Logger = logger
	params.Closers = append(params.Closers, logger.Close)

	db, err := sqlite.Open(cfg.Database.Path, sqlite.Options{BusyTimeoutMS: cfg.Database.BusyTimeoutMS})
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	params.Closers = append(params.Closers, db.Close)
	logger.Debug(internal.ComponentStorage, "Opened ledger at %s", cfg.Database.Path)

	var publisher nats_common.Publisher = nats_common.NoopPublisher{}
	if cfg.NATS.Enabled {
		natsPublisher, err := nats_common.NewNATSPublisher(nats_common.NATSConfig{
			ServerURL:     cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			ClientID:      internal.DefaultAppName,
			Username:      cfg.NATS.Username,
			Password:      cfg.NATS.Password,
			Token:         cfg.NATS.Token,
		})
		if err != nil {
			// ledger writes never depend on the event stream
			logger.Warn(internal.ComponentNATS, "Publishing disabled: %v", err)
		} else {
			publisher = natsPublisher
			params.Closers = append(params.Closers, natsPublisher.Close)
		}
	}

	params.Services = usecases.NewServices(db.UnitOfWork(),
		usecases.WithPublisher(publisher),
		usecases.WithCurrency(cfg.Ledger.Currency),
	)
	return nil
}
