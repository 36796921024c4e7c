package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/ZanzyTHEbar/spendr-go/interfaces"
	"github.com/shopspring/decimal"
)

// WalletService manages the user's wallets.
type WalletService struct {
	service
}

// CreateWalletInput defines the input for creating a wallet.
type CreateWalletInput struct {
	Name           string
	Description    string
	Currency       string // empty means the configured currency
	Type           models.WalletType
	OpeningBalance decimal.Decimal
}

// UpdateWalletInput holds the descriptive fields to change. The balance is never set directly.
type UpdateWalletInput struct {
	Name        *string
	Description *string
	Type        *models.WalletType
	IsActive    *bool
}

// BalanceCheck compares a wallet's cached balance with the one derived from its ledger.
type BalanceCheck struct {
	WalletID   string          `json:"wallet_id"`
	Cached     decimal.Decimal `json:"cached"`
	Expected   decimal.Decimal `json:"expected"`
	Consistent bool            `json:"consistent"`
}

const duplicateWalletName = "a wallet with this name already exists"

// CreateWallet creates a wallet whose balance starts at its opening balance.
func (s *WalletService) CreateWallet(ctx context.Context, userID string, input CreateWalletInput) (*models.Wallet, error) {
	logger := s.logger("CreateWallet")

	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = s.opts.currency
	}
	wallet := models.NewWallet(userID, input.Name, strings.TrimSpace(input.Description), currency,
		models.WalletType(strings.ToLower(string(input.Type))), input.OpeningBalance)

	if err := wallet.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.uow.GetWalletRepository().Create(ctx, wallet)
	})
	if err != nil {
		return nil, fail("CreateWallet", duplicateAsValidation(err, "name", duplicateWalletName))
	}

	logger.Info().Str("wallet", wallet.ID).Str("name", wallet.Name).Msg("Wallet created")
	s.publish(ctx, s.balanceEvents(ctx, userID, wallet.ID)...)

	return wallet, nil
}

// GetWallet returns one of the user's wallets.
func (s *WalletService) GetWallet(ctx context.Context, userID, id string) (*models.Wallet, error) {
	wallet, err := s.uow.GetWalletRepository().FindByID(ctx, userID, id)
	if err != nil {
		return nil, fail("GetWallet", err)
	}
	return wallet, nil
}

// ListWallets returns every wallet of the user, active or not, ordered by name.
func (s *WalletService) ListWallets(ctx context.Context, userID string) ([]*models.Wallet, error) {
	wallets, err := s.uow.GetWalletRepository().FindAll(ctx, repositories.WalletFilter{UserID: userID})
	if err != nil {
		return nil, fail("ListWallets", err)
	}
	return wallets, nil
}

// UpdateWallet changes the descriptive fields of a wallet.
func (s *WalletService) UpdateWallet(ctx context.Context, userID, id string, input UpdateWalletInput) (*models.Wallet, error) {
	var wallet *models.Wallet

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetWalletRepository()

		var err error
		wallet, err = repo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			wallet.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			wallet.Description = strings.TrimSpace(*input.Description)
		}
		if input.Type != nil {
			wallet.Type = models.WalletType(strings.ToLower(string(*input.Type)))
		}
		if input.IsActive != nil {
			wallet.IsActive = *input.IsActive
		}

		if err := wallet.Validate(); err != nil {
			return err
		}
		return repo.Update(ctx, wallet)
	})
	if err != nil {
		return nil, fail("UpdateWallet", duplicateAsValidation(err, "name", duplicateWalletName))
	}

	logger := s.logger("UpdateWallet")
	logger.Info().Str("wallet", id).Msg("Wallet updated")
	return wallet, nil
}

// DeleteWallet removes a wallet with its transactions.
// Transfer legs paired with this wallet's legs live in other wallets; they are reverted and removed first.
func (s *WalletService) DeleteWallet(ctx context.Context, userID, id string) error {
	logger := s.logger("DeleteWallet")

	var touched []string
	var removed []*models.Transaction

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		wallets := s.uow.GetWalletRepository()
		txRepo := s.uow.GetTransactionRepository()

		if _, err := wallets.FindByID(ctx, userID, id); err != nil {
			return err
		}

		legs, err := txRepo.FindAll(ctx, repositories.TransactionFilter{UserID: userID, WalletID: id, LinkedOnly: true})
		if err != nil {
			return err
		}

		for _, leg := range legs {
			pair, err := txRepo.FindByID(ctx, userID, *leg.RelatedTransactionID)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if pair.WalletID == id {
				continue
			}

			if err := wallets.UpdateBalance(ctx, userID, pair.WalletID, pair.SignedAmount().Neg()); err != nil {
				return err
			}
			if err := txRepo.Delete(ctx, userID, pair.ID); err != nil {
				return err
			}
			touched = append(touched, pair.WalletID)
			removed = append(removed, pair)
		}

		return wallets.Delete(ctx, userID, id)
	})
	if err != nil {
		return fail("DeleteWallet", err)
	}

	logger.Info().Str("wallet", id).Int("paired_legs_removed", len(removed)).Msg("Wallet deleted")

	events := make([]*interfaces.Event, 0, len(removed))
	for _, tx := range removed {
		events = append(events, transactionEvent(interfaces.EventTypeTransactionDeleted, tx))
	}
	s.publish(ctx, append(events, s.balanceEvents(ctx, userID, touched...)...)...)

	return nil
}

// VerifyBalance recomputes the wallet balance from its opening balance and ledger.
func (s *WalletService) VerifyBalance(ctx context.Context, userID, id string) (*BalanceCheck, error) {
	check := &BalanceCheck{WalletID: id}

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		wallet, err := s.uow.GetWalletRepository().FindByID(ctx, userID, id)
		if err != nil {
			return err
		}
		sum, err := s.uow.GetTransactionRepository().LedgerSum(ctx, userID, id)
		if err != nil {
			return err
		}

		check.Cached = wallet.Balance
		check.Expected = wallet.OpeningBalance.Add(sum)
		check.Consistent = check.Cached.Equal(check.Expected)
		return nil
	})
	if err != nil {
		return nil, fail("VerifyBalance", err)
	}

	if !check.Consistent {
		logger := s.logger("VerifyBalance")
		logger.Warn().
			Str("wallet", id).
			Str("cached", check.Cached.StringFixed(2)).
			Str("expected", check.Expected.StringFixed(2)).
			Msg("Wallet balance drifted from its ledger")
	}
	return check, nil
}
