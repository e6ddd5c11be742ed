package expense

import (
	"context"
	"errors"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

// Finder loads a single record regardless of owner so the guard can tell
// "missing" apart from "someone else's".
type Finder interface {
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
}

// Guard enforces that only the owner of a record may read or mutate it.
type Guard struct {
	finder Finder
}

func NewGuard(finder Finder) *Guard {
	return &Guard{finder: finder}
}

// Authorize returns the record when actorID owns it. It never writes.
func (g *Guard) Authorize(ctx context.Context, actorID, expenseID int64) (*Expense, error) {
	if expenseID <= 0 {
		return nil, internal.NewValidationFieldError("id", "expense id must be a positive integer", internal.ErrCodeInvalidID)
	}

	row, err := g.finder.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, internal.ErrExpenseNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, internal.NewInternalError("failed to load expense", err)
	}
	if row == nil {
		return nil, internal.ErrExpenseNotFound
	}

	e := FromDataModel(row)
	if !e.IsOwnedBy(actorID) {
		return nil, internal.ErrForbiddenExpense
	}
	return e, nil
}
