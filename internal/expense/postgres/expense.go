package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI using GORM. It runs unchanged
// on postgres and sqlite.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	var e expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListByUser returns the owner's records, newest first. The note search runs in
// Go after the query so that case folding matches the summary for any script.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64, filter expense.ListFilter) ([]*expenseDatamodel.Expense, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.StartDate != nil {
		q = q.Where("expense_date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		q = q.Where("expense_date <= ?", filter.EndDate.UTC())
	}

	expenses := make([]*expenseDatamodel.Expense, 0)
	if err := q.Order("expense_date DESC").Order("id DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	if filter.Search == "" {
		return expenses, nil
	}

	matched := expenses[:0]
	for _, e := range expenses {
		if expense.MatchesSearch(e.Note, filter.Search) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Update rewrites the mutable columns of a row. The owner column is part of the
// match and is never written.
func (r *ExpenseRepository) Update(ctx context.Context, e *expenseDatamodel.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{ID: e.ID}).
		Where("user_id = ?", e.UserID).
		Select("amount", "note", "category", "expense_date", "updated_at").
		Updates(map[string]interface{}{
			"amount":       e.Amount,
			"note":         e.Note,
			"category":     e.Category,
			"expense_date": e.ExpenseDate.UTC(),
			"updated_at":   e.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&expenseDatamodel.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}
