package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/ZanzyTHEbar/spendr-go/interfaces"
	"github.com/shopspring/decimal"
)

// TransactionService encapsulates business logic related to transactions.
// It is the only writer of wallet balances besides wallet creation and deletion.
type TransactionService struct {
	service
}

// CreateTransactionInput defines the input for creating a transaction.
type CreateTransactionInput struct {
	WalletID    string
	CategoryID  string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Date        time.Time // zero means today
	Description string
}

// UpdateTransactionInput holds the fields to change; nil leaves a field as is.
// An empty CategoryID clears the category.
type UpdateTransactionInput struct {
	WalletID    *string
	CategoryID  *string
	Amount      *decimal.Decimal
	Type        *models.TransactionType
	Date        *time.Time
	Description *string
}

// TransferInput moves Amount from one of the user's wallets to another.
type TransferInput struct {
	FromWalletID string
	ToWalletID   string
	Amount       decimal.Decimal
	Description  string
}

// TransferResult carries both balances as read back inside the transfer's unit of work.
type TransferResult struct {
	FromBalance decimal.Decimal     `json:"from_balance"`
	ToBalance   decimal.Decimal     `json:"to_balance"`
	Outgoing    *models.Transaction `json:"outgoing"`
	Incoming    *models.Transaction `json:"incoming"`
}

// TransactionQuery filters a transaction listing. Dates are YYYY-MM-DD and inclusive.
type TransactionQuery struct {
	WalletID    string
	CategoryID  string
	Type        string
	StartDate   string
	EndDate     string
	Description string
	Limit       int
	Offset      int
}

// CreateTransaction records an income or expense and applies it to the wallet balance.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*models.Transaction, error) {
	logger := s.logger("CreateTransaction")
	today := s.today()

	date := input.Date
	if date.IsZero() {
		date = today
	}
	tx := models.NewTransaction(userID, strings.TrimSpace(input.WalletID), optionalID(input.CategoryID),
		input.Amount, models.TransactionType(strings.ToLower(string(input.Type))), date, strings.TrimSpace(input.Description))

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		ve := &models.ValidationError{}
		ve.Merge(tx.Validate(today))
		if err := s.checkReferences(ctx, tx, ve); err != nil {
			return err
		}
		if err := ve.OrNil(); err != nil {
			return err
		}

		if err := s.uow.GetTransactionRepository().Create(ctx, tx); err != nil {
			return err
		}
		return s.uow.GetWalletRepository().UpdateBalance(ctx, userID, tx.WalletID, tx.SignedAmount())
	})
	if err != nil {
		logger.Debug().Err(err).Msg("Transaction rejected")
		return nil, fail("CreateTransaction", err)
	}

	logger.Info().Str("transaction", tx.ID).Str("wallet", tx.WalletID).Str("amount", tx.Amount.StringFixed(2)).Msg("Transaction created")

	events := []*interfaces.Event{transactionEvent(interfaces.EventTypeTransactionCreated, tx)}
	s.publish(ctx, append(events, s.balanceEvents(ctx, userID, tx.WalletID)...)...)

	return tx, nil
}

// UpdateTransaction reverts the old effect on the old wallet and applies the new effect on the new wallet.
// Transfer legs only accept description and date changes; a new date is mirrored to the paired leg.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id string, input UpdateTransactionInput) (*models.Transaction, error) {
	logger := s.logger("UpdateTransaction")
	today := s.today()

	var updated *models.Transaction
	var touched []string

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetTransactionRepository()

		existing, err := repo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}

		if existing.IsTransferLeg() {
			updated, err = s.updateTransferLeg(ctx, existing, input, today)
			return err
		}

		next := *existing
		if input.WalletID != nil {
			next.WalletID = strings.TrimSpace(*input.WalletID)
		}
		if input.CategoryID != nil {
			next.CategoryID = optionalID(*input.CategoryID)
		}
		if input.Amount != nil {
			next.Amount = *input.Amount
		}
		if input.Type != nil {
			next.Type = models.TransactionType(strings.ToLower(string(*input.Type)))
		}
		if input.Date != nil {
			next.Date = models.DateOnly(*input.Date)
		}
		if input.Description != nil {
			next.Description = strings.TrimSpace(*input.Description)
		}

		ve := &models.ValidationError{}
		ve.Merge(next.Validate(today))
		if err := s.checkReferences(ctx, &next, ve); err != nil {
			return err
		}
		if err := ve.OrNil(); err != nil {
			return err
		}

		wallets := s.uow.GetWalletRepository()
		if err := wallets.UpdateBalance(ctx, userID, existing.WalletID, existing.SignedAmount().Neg()); err != nil {
			return err
		}
		if err := wallets.UpdateBalance(ctx, userID, next.WalletID, next.SignedAmount()); err != nil {
			return err
		}
		if err := repo.Update(ctx, &next); err != nil {
			return err
		}

		updated = &next
		touched = []string{existing.WalletID, next.WalletID}
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Str("transaction", id).Msg("Update rejected")
		return nil, fail("UpdateTransaction", err)
	}

	logger.Info().Str("transaction", id).Msg("Transaction updated")

	events := []*interfaces.Event{transactionEvent(interfaces.EventTypeTransactionUpdated, updated)}
	s.publish(ctx, append(events, s.balanceEvents(ctx, userID, touched...)...)...)

	return updated, nil
}

func (s *TransactionService) updateTransferLeg(ctx context.Context, leg *models.Transaction, input UpdateTransactionInput, today time.Time) (*models.Transaction, error) {
	const frozen = "cannot be changed on a transfer transaction"

	ve := &models.ValidationError{}
	if input.WalletID != nil && strings.TrimSpace(*input.WalletID) != leg.WalletID {
		ve.Add("wallet", frozen)
	}
	if input.CategoryID != nil && optionalID(*input.CategoryID) != nil {
		ve.Add("category", frozen)
	}
	if input.Amount != nil && !input.Amount.Equal(leg.Amount) {
		ve.Add("amount", frozen)
	}
	if input.Type != nil && models.TransactionType(strings.ToLower(string(*input.Type))) != leg.Type {
		ve.Add("type", frozen)
	}

	next := *leg
	if input.Date != nil {
		next.Date = models.DateOnly(*input.Date)
	}
	if input.Description != nil {
		next.Description = strings.TrimSpace(*input.Description)
	}

	ve.Merge(next.Validate(today))
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	repo := s.uow.GetTransactionRepository()
	if err := repo.Update(ctx, &next); err != nil {
		return nil, err
	}

	if !next.Date.Equal(leg.Date) {
		pair, err := repo.FindByID(ctx, leg.UserID, *leg.RelatedTransactionID)
		switch {
		case errors.Is(err, models.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			pair.Date = next.Date
			if err := repo.Update(ctx, pair); err != nil {
				return nil, err
			}
		}
	}

	return &next, nil
}

// DeleteTransaction reverts the transaction's effect and removes it.
// Deleting a transfer leg removes both legs.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id string) error {
	logger := s.logger("DeleteTransaction")

	var doomed []*models.Transaction

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetTransactionRepository()

		tx, err := repo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}
		doomed = []*models.Transaction{tx}

		if tx.IsTransferLeg() {
			pair, err := repo.FindByID(ctx, userID, *tx.RelatedTransactionID)
			switch {
			case errors.Is(err, models.ErrNotFound):
			case err != nil:
				return err
			default:
				doomed = append(doomed, pair)
			}
		}

		wallets := s.uow.GetWalletRepository()
		for _, d := range doomed {
			if err := wallets.UpdateBalance(ctx, userID, d.WalletID, d.SignedAmount().Neg()); err != nil {
				return err
			}
			if err := repo.Delete(ctx, userID, d.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Str("transaction", id).Msg("Delete rejected")
		return fail("DeleteTransaction", err)
	}

	logger.Info().Str("transaction", id).Int("removed", len(doomed)).Msg("Transaction deleted")

	events := make([]*interfaces.Event, 0, len(doomed)*2)
	walletIDs := make([]string, 0, len(doomed))
	for _, d := range doomed {
		events = append(events, transactionEvent(interfaces.EventTypeTransactionDeleted, d))
		walletIDs = append(walletIDs, d.WalletID)
	}
	s.publish(ctx, append(events, s.balanceEvents(ctx, userID, walletIDs...)...)...)

	return nil
}

// TransferFunds moves money between two of the user's wallets and records a linked pair of legs.
func (s *TransactionService) TransferFunds(ctx context.Context, userID string, input TransferInput) (*TransferResult, error) {
	logger := s.logger("TransferFunds")
	today := s.today()

	fromID := strings.TrimSpace(input.FromWalletID)
	toID := strings.TrimSpace(input.ToWalletID)
	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = models.DefaultTransferDescription
	}

	ve := &models.ValidationError{}
	if fromID == "" {
		ve.Add("from_wallet", "this field is required")
	}
	if toID == "" {
		ve.Add("to_wallet", "this field is required")
	}
	if !input.Amount.IsPositive() {
		ve.Add("amount", "must be greater than 0")
	} else if !models.HasCents(input.Amount) {
		ve.Add("amount", "must have at most 2 decimal places")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, fmt.Errorf("cannot transfer funds to the same wallet: %w", models.ErrInvalidTarget)
	}

	result := &TransferResult{}

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		wallets := s.uow.GetWalletRepository()
		repo := s.uow.GetTransactionRepository()

		from, err := s.transferWallet(ctx, userID, fromID)
		if err != nil {
			return err
		}
		to, err := s.transferWallet(ctx, userID, toID)
		if err != nil {
			return err
		}
		if from.Currency != to.Currency {
			return models.NewValidationError("to_wallet", "cannot transfer between wallets with different currencies")
		}

		out := models.NewTransaction(userID, from.ID, nil, input.Amount, models.TransactionTypeExpense, today,
			fmt.Sprintf("Transfer to %s: %s", to.Name, description))
		in := models.NewTransaction(userID, to.ID, nil, input.Amount, models.TransactionTypeIncome, today,
			fmt.Sprintf("Transfer from %s: %s", from.Name, description))
		out.RelatedTransactionID = &in.ID
		in.RelatedTransactionID = &out.ID

		ve := &models.ValidationError{}
		ve.Merge(models.ValidateTransferPair(out, in))
		ve.Merge(out.Validate(today))
		ve.Merge(in.Validate(today))
		if err := ve.OrNil(); err != nil {
			return err
		}

		if err := wallets.Withdraw(ctx, userID, from.ID, input.Amount); err != nil {
			return err
		}
		if err := wallets.UpdateBalance(ctx, userID, to.ID, input.Amount); err != nil {
			return err
		}

		// the outgoing leg goes in unlinked so the incoming leg has a row to reference
		out.RelatedTransactionID = nil
		if err := repo.Create(ctx, out); err != nil {
			return err
		}
		if err := repo.Create(ctx, in); err != nil {
			return err
		}
		if err := repo.Link(ctx, userID, out.ID, &in.ID); err != nil {
			return err
		}
		out.RelatedTransactionID = &in.ID

		fromAfter, err := wallets.FindByID(ctx, userID, from.ID)
		if err != nil {
			return err
		}
		toAfter, err := wallets.FindByID(ctx, userID, to.ID)
		if err != nil {
			return err
		}

		result.FromBalance = fromAfter.Balance
		result.ToBalance = toAfter.Balance
		result.Outgoing = out
		result.Incoming = in
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Str("from", fromID).Str("to", toID).Msg("Transfer rejected")
		return nil, fail("TransferFunds", err)
	}

	logger.Info().
		Str("from", fromID).
		Str("to", toID).
		Str("amount", input.Amount.StringFixed(2)).
		Msg("Transfer completed")

	events := []*interfaces.Event{
		interfaces.NewEvent(interfaces.EventTypeTransferCompleted, eventSource, userID).
			WithData("from_wallet_id", fromID).
			WithData("to_wallet_id", toID).
			WithData("amount", input.Amount.StringFixed(2)).
			WithData("outgoing_transaction_id", result.Outgoing.ID).
			WithData("incoming_transaction_id", result.Incoming.ID),
	}
	s.publish(ctx, append(events, s.balanceEvents(ctx, userID, fromID, toID)...)...)

	return result, nil
}

// transferWallet resolves a transfer endpoint; a wallet the caller cannot see is an invalid target.
func (s *TransactionService) transferWallet(ctx context.Context, userID, id string) (*models.Wallet, error) {
	wallet, err := s.uow.GetWalletRepository().FindByID(ctx, userID, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidTarget, err)
	}
	return wallet, err
}

// GetTransaction returns one of the user's transactions.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	tx, err := s.uow.GetTransactionRepository().FindByID(ctx, userID, id)
	if err != nil {
		return nil, fail("GetTransaction", err)
	}
	return tx, nil
}

// ListTransactions returns the user's transactions, newest first.
// A malformed date or type filter matches nothing.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, query TransactionQuery) ([]*models.Transaction, error) {
	logger := s.logger("ListTransactions")

	filter := repositories.TransactionFilter{
		UserID:      userID,
		WalletID:    strings.TrimSpace(query.WalletID),
		CategoryID:  strings.TrimSpace(query.CategoryID),
		Description: strings.TrimSpace(query.Description),
		Limit:       query.Limit,
		Offset:      query.Offset,
	}

	if query.Type != "" {
		txType := models.TransactionType(strings.ToLower(strings.TrimSpace(query.Type)))
		if !txType.IsValid() {
			logger.Debug().Str("type", query.Type).Msg("Unknown type filter")
			return []*models.Transaction{}, nil
		}
		filter.Type = txType
	}

	if query.StartDate != "" {
		start, err := models.ParseDate(strings.TrimSpace(query.StartDate))
		if err != nil {
			logger.Debug().Str("start_date", query.StartDate).Msg("Invalid start date filter")
			return []*models.Transaction{}, nil
		}
		filter.DateFrom = start
	}

	if query.EndDate != "" {
		end, err := models.ParseDate(strings.TrimSpace(query.EndDate))
		if err != nil {
			logger.Debug().Str("end_date", query.EndDate).Msg("Invalid end date filter")
			return []*models.Transaction{}, nil
		}
		filter.DateTo = end
	}

	txs, err := s.uow.GetTransactionRepository().FindAll(ctx, filter)
	if err != nil {
		return nil, fail("ListTransactions", err)
	}
	return txs, nil
}

// checkReferences resolves the wallet and category of tx for its owner.
// Missing or foreign references are NotFound; a category of the wrong type is recorded in ve.
func (s *TransactionService) checkReferences(ctx context.Context, tx *models.Transaction, ve *models.ValidationError) error {
	if tx.WalletID != "" {
		if _, err := s.uow.GetWalletRepository().FindByID(ctx, tx.UserID, tx.WalletID); err != nil {
			return err
		}
	}

	if tx.CategoryID == nil {
		return nil
	}
	category, err := s.uow.GetCategoryRepository().FindByID(ctx, tx.UserID, *tx.CategoryID)
	if err != nil {
		return err
	}
	if (tx.Type == models.TransactionTypeIncome || tx.Type == models.TransactionTypeExpense) &&
		!tx.IsTransferLeg() && !category.MatchesTransactionType(tx.Type) {
		ve.Add("category", fmt.Sprintf("category type '%s' does not match transaction type '%s'", category.Type, tx.Type))
	}
	return nil
}
