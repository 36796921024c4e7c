package cli

import (
	"errors"

	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/spf13/cobra"
)

// CmdParams holds all dependencies needed by command handlers
type CmdParams struct {
	Config   *internal.Config
	Logger   *internal.Logger
	Services *usecases.Services

	// Bootstrap loads the configuration and opens the ledger before the first command that needs it
	Bootstrap func(params *CmdParams) error
	Closers   []func() error

	ConfigFile string
	User       string

	Palette []*cobra.Command
	Use     string
	Alias   string
	Short   string
	Long    string
}

// ActingUser returns the --user flag, falling back to the configured ledger user.
func (p *CmdParams) ActingUser() string {
	if p.User != "" {
		return p.User
	}
	if p.Config != nil && p.Config.Ledger.User != "" {
		return p.Config.Ledger.User
	}
	return "local"
}

// Close releases what Bootstrap opened, newest first.
func (p *CmdParams) Close() error {
	var errs []error
	for i := len(p.Closers) - 1; i >= 0; i-- {
		if err := p.Closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	p.Closers = nil
	return errors.Join(errs...)
}
