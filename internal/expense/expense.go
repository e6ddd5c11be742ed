package expense

import (
	"encoding/json"
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

// Expense is a single spending record. UserID is the owner; it is set at creation
// and never changes afterwards.
type Expense struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MarshalJSON renders the amount with exactly two decimals.
func (e Expense) MarshalJSON() ([]byte, error) {
	type plain Expense
	return json.Marshal(struct {
		plain
		Amount string `json:"amount"`
	}{plain(e), money(e.Amount)})
}

func money(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}

// Fields is the validated, normalized content of a create or update request.
type Fields struct {
	Amount   decimal.Decimal
	Date     time.Time
	Note     string
	Category string
}

func NewExpense(ownerID int64, f Fields, now time.Time) *Expense {
	return &Expense{
		UserID:    ownerID,
		Amount:    f.Amount,
		Date:      f.Date,
		Note:      f.Note,
		Category:  f.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Replace overwrites every mutable field. The owner is left untouched.
func (e *Expense) Replace(f Fields, now time.Time) {
	e.Amount = f.Amount
	e.Date = f.Date
	e.Note = f.Note
	e.Category = f.Category
	e.UpdatedAt = now
}

func (e *Expense) IsOwnedBy(userID int64) bool {
	return e.UserID == userID
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Note:        e.Note,
		Category:    e.Category,
		ExpenseDate: e.Date.UTC(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:        e.ID,
		UserID:    e.UserID,
		Amount:    e.Amount,
		Date:      e.ExpenseDate.UTC(),
		Note:      e.Note,
		Category:  e.Category,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
