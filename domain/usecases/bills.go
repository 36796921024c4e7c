package usecases

import (
	"sort"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/shopspring/decimal"
)

const (
	upcomingWindowDays = 30
	maxUpcomingBills   = 5
)

// UpcomingBill is one projected occurrence of a recurring bill.
type UpcomingBill struct {
	BillID       string          `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      string          `json:"due_date"`
	CategoryID   *string         `json:"category_id,omitempty"`
	CategoryName *string         `json:"category_name"`

	due time.Time
}

// ProjectUpcomingBills lists the next occurrences of the active bills due within 30 days of today.
// Each bill is tried on its due day in the current and in the next month; days a month lacks are skipped.
// categoryNames maps category ids to display names.
func ProjectUpcomingBills(bills []*models.RecurringBill, categoryNames map[string]string, today time.Time) []UpcomingBill {
	today = models.DateOnly(today)
	horizon := today.AddDate(0, 0, upcomingWindowDays)

	thisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := thisMonth.AddDate(0, 1, 0)

	type occurrence struct {
		billID string
		date   time.Time
	}
	seen := make(map[occurrence]bool)
	upcoming := []UpcomingBill{}

	for _, bill := range bills {
		if !bill.IsActive {
			continue
		}

		for _, month := range []time.Time{thisMonth, nextMonth} {
			due, ok := bill.DueDateIn(month.Year(), month.Month())
			if !ok || due.Before(today) || due.After(horizon) {
				continue
			}

			key := occurrence{billID: bill.ID, date: due}
			if seen[key] {
				continue
			}
			seen[key] = true

			entry := UpcomingBill{
				BillID:     bill.ID,
				Name:       bill.Name,
				Amount:     bill.Amount,
				DueDate:    due.Format(models.DateLayout),
				CategoryID: bill.CategoryID,
				due:        due,
			}
			if bill.CategoryID != nil {
				if name, ok := categoryNames[*bill.CategoryID]; ok {
					entry.CategoryName = &name
				}
			}
			upcoming = append(upcoming, entry)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if !a.due.Equal(b.due) {
			return a.due.Before(b.due)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.BillID < b.BillID
	})

	if len(upcoming) > maxUpcomingBills {
		upcoming = upcoming[:maxUpcomingBills]
	}
	return upcoming
}
