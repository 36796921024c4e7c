package cli_cmds

import (
	"errors"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var errLedgerClosed = errors.New("ledger is not open")

func GeneratePalette(params *cli.CmdParams) []*cobra.Command {

	// Global commands
	helpCmd := NewHelp(params)
	versionCmd := NewVersion(params)
	configCmd := NewConfig(params)

	// Ledger commands
	return []*cobra.Command{
		NewWallet(params),
		NewCategory(params),
		NewTx(params),
		NewTransfer(params),
		NewGoal(params),
		NewBill(params),
		NewDashboard(params),
		NewSummary(params),
		configCmd,
		helpCmd,
		versionCmd,
	}
}

func standalone() map[string]string {
	return map[string]string{cli.AnnotationStandalone: "true"}
}

func ledger(params *cli.CmdParams) (*usecases.Services, error) {
	if params.Services == nil {
		return nil, errLedgerClosed
	}
	return params.Services, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, models.NewValidationError(field, "must be a number")
	}
	return amount, nil
}

func parseDay(field, value string) (time.Time, error) {
	d, err := models.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, models.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
