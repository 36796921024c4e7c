package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/ZanzyTHEbar/spendr-go/interfaces"
	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/ZanzyTHEbar/spendr-go/internal/nats_common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const eventSource = "spendr.usecases"

// Clock returns the current time. Date rules are evaluated against its calendar day.
type Clock func() time.Time

type options struct {
	clock     Clock
	publisher nats_common.Publisher
	currency  string
}

// Option configures the services.
type Option func(*options)

// WithClock overrides the wall clock.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithPublisher sets where committed ledger changes are announced.
func WithPublisher(publisher nats_common.Publisher) Option {
	return func(o *options) {
		o.publisher = publisher
	}
}

// WithCurrency sets the default wallet currency and the symbol used in alerts.
func WithCurrency(code string) Option {
	return func(o *options) {
		if code != "" {
			o.currency = strings.ToUpper(code)
		}
	}
}

// Services bundles every use case over one unit of work.
type Services struct {
	Transactions *TransactionService
	Wallets      *WalletService
	Categories   *CategoryService
	BudgetGoals  *BudgetGoalService
	Bills        *RecurringBillService
	Dashboard    *DashboardService
}

// NewServices wires the use cases to uow.
func NewServices(uow repositories.UnitOfWork, opts ...Option) *Services {
	o := &options{
		clock:     time.Now,
		publisher: nats_common.NoopPublisher{},
		currency:  models.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(o)
	}

	base := service{uow: uow, opts: o}
	return &Services{
		Transactions: &TransactionService{service: base},
		Wallets:      &WalletService{service: base},
		Categories:   &CategoryService{service: base},
		BudgetGoals:  &BudgetGoalService{service: base},
		Bills:        &RecurringBillService{service: base},
		Dashboard:    newDashboardService(base),
	}
}

// service holds what every use case shares.
type service struct {
	uow  repositories.UnitOfWork
	opts *options
}

func (s service) today() time.Time {
	return models.DateOnly(s.opts.clock())
}

func (s service) logger(usecase string) zerolog.Logger {
	return internal.GetLogger().For(internal.ComponentLedger).With().Str("usecase", usecase).Logger()
}

// fail passes domain errors through and wraps everything else as an internal failure of op.
func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if models.IsDomainError(err) || errors.Is(err, models.ErrInternal) {
		return err
	}
	return models.Internal(op, err)
}

// publish announces committed changes. Failures are logged only: the change is already durable.
func (s service) publish(ctx context.Context, events ...*interfaces.Event) {
	logger := internal.GetLogger().For(internal.ComponentNATS)
	for _, event := range events {
		if err := s.opts.publisher.Publish(ctx, event); err != nil {
			logger.Warn().Err(err).Str("event", string(event.Type)).Msg("Failed to publish ledger event")
		}
	}
}

// balanceEvents reads back the balances of the touched wallets after commit.
func (s service) balanceEvents(ctx context.Context, userID string, walletIDs ...string) []*interfaces.Event {
	seen := make(map[string]bool, len(walletIDs))
	events := make([]*interfaces.Event, 0, len(walletIDs))
	for _, id := range walletIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		wallet, err := s.uow.GetWalletRepository().FindByID(ctx, userID, id)
		if err != nil {
			// the wallet may have been deleted by the same operation
			continue
		}
		events = append(events, interfaces.NewEvent(interfaces.EventTypeWalletBalance, eventSource, userID).
			WithData("wallet_id", wallet.ID).
			WithData("balance", wallet.Balance.StringFixed(2)).
			WithData("currency", wallet.Currency))
	}
	return events
}

func transactionEvent(eventType interfaces.EventType, tx *models.Transaction) *interfaces.Event {
	event := interfaces.NewEvent(eventType, eventSource, tx.UserID).
		WithData("transaction_id", tx.ID).
		WithData("wallet_id", tx.WalletID).
		WithData("type", string(tx.Type)).
		WithData("amount", tx.Amount.StringFixed(2)).
		WithData("date", tx.Date.Format(models.DateLayout))
	if tx.CategoryID != nil {
		event.WithData("category_id", *tx.CategoryID)
	}
	if tx.RelatedTransactionID != nil {
		event.WithData("related_transaction_id", *tx.RelatedTransactionID)
	}
	return event
}

// optionalID turns an empty identifier into nil.
func optionalID(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

// duplicateAsValidation turns a storage uniqueness failure into a field error.
func duplicateAsValidation(err error, field, message string) error {
	if errors.Is(err, models.ErrDuplicate) {
		return models.NewValidationError(field, message)
	}
	return err
}

func formatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
