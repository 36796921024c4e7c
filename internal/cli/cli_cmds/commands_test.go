package cli_cmds_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/adapters/repositories/sqlite"
	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli"
	"github.com/ZanzyTHEbar/spendr-go/internal/cli/cli_cmds"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	internal.SetGlobalLogger(internal.NopLogger())
	os.Exit(m.Run())
}

type harness struct {
	params *cli.CmdParams
	svc    *usecases.Services
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger.db"), sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := usecases.NewServices(db.UnitOfWork(),
		usecases.WithClock(func() time.Time { return testNow }),
		usecases.WithCurrency("PHP"),
	)

	params := &cli.CmdParams{
		Services: svc,
		Config:   &internal.Config{Ledger: internal.LedgerConfig{User: "alice", Currency: "PHP"}},
		Use:      "spendr",
		Short:    "Personal finance ledger",
	}
	return &harness{params: params, svc: svc}
}

// run builds a fresh command tree so flag values never leak between invocations.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	h.params.Palette = cli_cmds.GeneratePalette(h.params)
	root := cli.NewRoot(h.params)
	return cli.ExecuteCommand(root, args...)
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := h.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func (h *harness) walletByName(t *testing.T, user, name string) *models.Wallet {
	t.Helper()

	wallets, err := h.svc.Wallets.ListWallets(context.Background(), user)
	require.NoError(t, err)
	for _, w := range wallets {
		if w.Name == name {
			return w
		}
	}
	t.Fatalf("wallet %q not found", name)
	return nil
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestWalletCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "wallet", "add", "Cash", "--balance", "1000.50")
	assert.Contains(t, out, "Created wallet Cash")
	assert.Contains(t, out, "1000.50 PHP")

	out = h.mustRun(t, "wallet", "list", "--json")
	var wallets []models.Wallet
	require.NoError(t, json.Unmarshal([]byte(out), &wallets))
	require.Len(t, wallets, 1)
	assertMoney(t, "1000.50", wallets[0].Balance)
	assert.Equal(t, "alice", wallets[0].UserID)

	cash := h.walletByName(t, "alice", "Cash")
	h.mustRun(t, "wallet", "update", cash.ID, "--name", "Pocket", "--active=false")
	updated := h.walletByName(t, "alice", "Pocket")
	assert.False(t, updated.IsActive)

	out = h.mustRun(t, "wallet", "list")
	assert.Contains(t, out, "Pocket")
	assert.Contains(t, out, "1000.50")

	out = h.mustRun(t, "wallet", "verify")
	assert.Contains(t, out, "ok")

	// --user switches the acting user
	out = h.mustRun(t, "wallet", "list", "--json", "--user", "bob")
	require.NoError(t, json.Unmarshal([]byte(out), &wallets))
	assert.Empty(t, wallets)

	h.mustRun(t, "wallet", "delete", cash.ID)
	_, err := h.run(t, "wallet", "delete", cash.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestWalletAddRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "wallet", "add", "Cash", "--balance", "lots")
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("opening_balance"))
	assert.Contains(t, cli.FormatError(err), "opening_balance: must be a number")

	_, err = h.run(t, "wallet", "add", "Cash", "--currency", "xyz")
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("currency"))
}

func TestTransactionCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "wallet", "add", "Cash", "--balance", "1000")
	h.mustRun(t, "category", "add", "Food", "--budget", "300")
	cash := h.walletByName(t, "alice", "Cash")

	categories, err := h.svc.Categories.ListCategories(context.Background(), "alice", models.CategoryTypeExpense)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	food := categories[0]

	out := h.mustRun(t, "tx", "add", "--wallet", cash.ID, "--category", food.ID, "--amount", "120.25",
		"--date", "2026-10-02", "--description", "groceries")
	assert.Contains(t, out, "Recorded expense of 120.25 on 2026-10-02")
	assertMoney(t, "879.75", h.walletByName(t, "alice", "Cash").Balance)

	out = h.mustRun(t, "tx", "list", "--json", "--start", "2026-10-01", "--type", "expense")
	var txs []models.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "groceries", txs[0].Description)

	h.mustRun(t, "tx", "update", txs[0].ID, "--amount", "100")
	assertMoney(t, "900", h.walletByName(t, "alice", "Cash").Balance)

	out = h.mustRun(t, "tx", "list")
	assert.Contains(t, out, "-100.00")

	// future dates are refused and the balance is untouched
	_, err = h.run(t, "tx", "add", "--wallet", cash.ID, "--amount", "5", "--date", "2026-10-17")
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("date"))
	assertMoney(t, "900", h.walletByName(t, "alice", "Cash").Balance)

	h.mustRun(t, "tx", "delete", txs[0].ID)
	assertMoney(t, "1000", h.walletByName(t, "alice", "Cash").Balance)
}

func TestTransferCommand(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "wallet", "add", "Cash", "--balance", "1000")
	h.mustRun(t, "wallet", "add", "Bank", "--balance", "500")
	cash := h.walletByName(t, "alice", "Cash")
	bank := h.walletByName(t, "alice", "Bank")

	out := h.mustRun(t, "transfer", "--from", cash.ID, "--to", bank.ID, "--amount", "250", "--json")
	var result usecases.TransferResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assertMoney(t, "750", result.FromBalance)
	assertMoney(t, "750", result.ToBalance)

	_, err := h.run(t, "transfer", "--from", cash.ID, "--to", bank.ID, "--amount", "5000")
	assert.True(t, errors.Is(err, models.ErrInsufficientFunds))

	_, err = h.run(t, "transfer", "--from", cash.ID, "--to", cash.ID, "--amount", "1")
	assert.Error(t, err)

	assertMoney(t, "750", h.walletByName(t, "alice", "Cash").Balance)
	assertMoney(t, "750", h.walletByName(t, "alice", "Bank").Balance)
}

func TestGoalSetUpdatesExistingGoal(t *testing.T) {
	h := newHarness(t)

	h.mustRun(t, "goal", "set", "--month", "10", "--year", "2026", "--amount", "1000")
	out := h.mustRun(t, "goal", "set", "--month", "10", "--year", "2026", "--amount", "1200")
	assert.Contains(t, out, "overall")
	assert.Contains(t, out, "1200.00")

	goals, err := h.svc.BudgetGoals.ListBudgetGoals(context.Background(), "alice", 10, 2026)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assertMoney(t, "1200", goals[0].Amount)

	h.mustRun(t, "goal", "delete", goals[0].ID)
	out = h.mustRun(t, "goal", "list", "--json")
	assert.JSONEq(t, "[]", out)
}

func TestBillAndDashboardCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "wallet", "add", "Cash", "--balance", "1000")
	h.mustRun(t, "bill", "add", "Rent", "--amount", "400", "--due-day", "20")
	h.mustRun(t, "bill", "add", "Gym", "--amount", "30", "--due-day", "5")

	out := h.mustRun(t, "bill", "upcoming", "--today", "2026-10-16", "--json")
	var bills []usecases.UpcomingBill
	require.NoError(t, json.Unmarshal([]byte(out), &bills))
	require.Len(t, bills, 2)
	assert.Equal(t, "Rent", bills[0].Name)
	assert.Equal(t, "2026-10-20", bills[0].DueDate)
	assert.Equal(t, "2026-11-05", bills[1].DueDate)

	out = h.mustRun(t, "dashboard", "--today", "2026-10-16")
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "October 2026", summary["current_month_str"])
	assert.Equal(t, float64(10), summary["current_month_num"])
	assert.Len(t, summary["upcoming_bills"], 2)

	out = h.mustRun(t, "summary")
	assert.JSONEq(t, "[]", out)
}

func TestLedgerCommandsNeedBootstrap(t *testing.T) {
	params := &cli.CmdParams{
		Use: "spendr",
		Bootstrap: func(params *cli.CmdParams) error {
			return errors.New("no database")
		},
	}
	params.Palette = cli_cmds.GeneratePalette(params)

	_, err := cli.ExecuteCommand(cli.NewRoot(params), "wallet", "list")
	assert.EqualError(t, err, "no database")

	out, err := cli.ExecuteCommand(cli.NewRoot(params), "version")
	require.NoError(t, err)
	assert.Contains(t, out, internal.Version)

	out, err = cli.ExecuteCommand(cli.NewRoot(params), "detailed_help", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "wallet")
	assert.Contains(t, out, "upcoming")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ledger": {"currency": "USD"}, "nats": {"token": "s3cret"}}`), 0o600))

	params := &cli.CmdParams{
		Use: "spendr",
		Bootstrap: func(params *cli.CmdParams) error {
			return errors.New("config commands must not open the ledger")
		},
	}
	params.Palette = cli_cmds.GeneratePalette(params)

	out, err := cli.ExecuteCommand(cli.NewRoot(params), "config", "get", "ledger.currency", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ledger.currency = USD")

	out, err = cli.ExecuteCommand(cli.NewRoot(params), "config", "list", "--format", "json", "--config", path)
	require.NoError(t, err)
	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, "********", values["nats.token"])
	assert.Equal(t, "local", values["ledger.user"])

	_, err = cli.ExecuteCommand(cli.NewRoot(params), "config", "set", "ledger.user", "bob", "--config", path)
	require.NoError(t, err)
	out, err = cli.ExecuteCommand(cli.NewRoot(params), "config", "get", "ledger.user", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ledger.user = bob")

	_, err = cli.ExecuteCommand(cli.NewRoot(params), "config", "get", "nope", "--config", path)
	assert.Error(t, err)
}
