package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/shopspring/decimal"
)

// RecurringBillService manages monthly bills and projects their next due dates.
type RecurringBillService struct {
	service
}

// CreateRecurringBillInput defines the input for creating a bill.
type CreateRecurringBillInput struct {
	Name       string
	Amount     decimal.Decimal
	DueDay     int
	CategoryID string
	Notes      string
}

// UpdateRecurringBillInput holds the fields to change. An empty CategoryID clears the category.
type UpdateRecurringBillInput struct {
	Name       *string
	Amount     *decimal.Decimal
	DueDay     *int
	CategoryID *string
	IsActive   *bool
	Notes      *string
}

const duplicateBillName = "a recurring bill with this name already exists"

// CreateRecurringBill creates an active bill.
func (s *RecurringBillService) CreateRecurringBill(ctx context.Context, userID string, input CreateRecurringBillInput) (*models.RecurringBill, error) {
	bill := models.NewRecurringBill(userID, input.Name, input.Amount, input.DueDay,
		optionalID(input.CategoryID), strings.TrimSpace(input.Notes))

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkBill(ctx, bill); err != nil {
			return err
		}
		return s.uow.GetRecurringBillRepository().Create(ctx, bill)
	})
	if err != nil {
		return nil, fail("CreateRecurringBill", duplicateAsValidation(err, "name", duplicateBillName))
	}

	logger := s.logger("CreateRecurringBill")
	logger.Info().Str("bill", bill.ID).Str("name", bill.Name).Msg("Recurring bill created")
	return bill, nil
}

// GetRecurringBill returns one of the user's bills.
func (s *RecurringBillService) GetRecurringBill(ctx context.Context, userID, id string) (*models.RecurringBill, error) {
	bill, err := s.uow.GetRecurringBillRepository().FindByID(ctx, userID, id)
	if err != nil {
		return nil, fail("GetRecurringBill", err)
	}
	return bill, nil
}

// ListRecurringBills returns the user's bills ordered by due day, then name.
func (s *RecurringBillService) ListRecurringBills(ctx context.Context, userID string, activeOnly bool) ([]*models.RecurringBill, error) {
	bills, err := s.uow.GetRecurringBillRepository().FindAll(ctx, repositories.RecurringBillFilter{
		UserID:     userID,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, fail("ListRecurringBills", err)
	}
	return bills, nil
}

// UpdateRecurringBill changes a bill.
func (s *RecurringBillService) UpdateRecurringBill(ctx context.Context, userID, id string, input UpdateRecurringBillInput) (*models.RecurringBill, error) {
	var bill *models.RecurringBill

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetRecurringBillRepository()

		var err error
		bill, err = repo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			bill.Name = strings.TrimSpace(*input.Name)
		}
		if input.Amount != nil {
			bill.Amount = *input.Amount
		}
		if input.DueDay != nil {
			bill.DueDay = *input.DueDay
		}
		if input.CategoryID != nil {
			bill.CategoryID = optionalID(*input.CategoryID)
		}
		if input.IsActive != nil {
			bill.IsActive = *input.IsActive
		}
		if input.Notes != nil {
			bill.Notes = strings.TrimSpace(*input.Notes)
		}

		if err := s.checkBill(ctx, bill); err != nil {
			return err
		}
		return repo.Update(ctx, bill)
	})
	if err != nil {
		return nil, fail("UpdateRecurringBill", duplicateAsValidation(err, "name", duplicateBillName))
	}

	logger := s.logger("UpdateRecurringBill")
	logger.Info().Str("bill", id).Msg("Recurring bill updated")
	return bill, nil
}

// DeleteRecurringBill removes one of the user's bills.
func (s *RecurringBillService) DeleteRecurringBill(ctx context.Context, userID, id string) error {
	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.uow.GetRecurringBillRepository().Delete(ctx, userID, id)
	})
	if err != nil {
		return fail("DeleteRecurringBill", err)
	}

	logger := s.logger("DeleteRecurringBill")
	logger.Info().Str("bill", id).Msg("Recurring bill deleted")
	return nil
}

// Upcoming projects the user's active bills due within the next 30 days.
// A zero today means the service clock's current day.
func (s *RecurringBillService) Upcoming(ctx context.Context, userID string, today time.Time) ([]UpcomingBill, error) {
	if today.IsZero() {
		today = s.today()
	}

	var upcoming []UpcomingBill
	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		upcoming, err = upcomingBills(ctx, s.uow, userID, today)
		return err
	})
	if err != nil {
		return nil, fail("Upcoming", err)
	}
	return upcoming, nil
}

func (s *RecurringBillService) checkBill(ctx context.Context, bill *models.RecurringBill) error {
	ve := &models.ValidationError{}
	ve.Merge(bill.Validate())

	if bill.CategoryID != nil {
		if err := checkExpenseCategory(ctx, s.uow, bill.UserID, *bill.CategoryID, ve); err != nil {
			return err
		}
	}
	return ve.OrNil()
}

// upcomingBills loads the active bills with their category names and runs the projection.
func upcomingBills(ctx context.Context, uow repositories.UnitOfWork, userID string, today time.Time) ([]UpcomingBill, error) {
	bills, err := uow.GetRecurringBillRepository().FindAll(ctx, repositories.RecurringBillFilter{
		UserID:     userID,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	for _, bill := range bills {
		if bill.CategoryID == nil {
			continue
		}
		if _, ok := names[*bill.CategoryID]; ok {
			continue
		}
		category, err := uow.GetCategoryRepository().FindByID(ctx, userID, *bill.CategoryID)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		names[category.ID] = category.Name
	}

	return ProjectUpcomingBills(bills, names, today), nil
}
