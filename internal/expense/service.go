package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

// RepositoryAPI is the record store. List always restricts to the owner; Update and
// Delete match on both id and owner and report internal.ErrExpenseNotFound when no
// row matched.
type RepositoryAPI interface {
	Create(ctx context.Context, e *expenseDatamodel.Expense) error
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]*expenseDatamodel.Expense, error)
	Update(ctx context.Context, e *expenseDatamodel.Expense) error
	Delete(ctx context.Context, userID, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	guard  *Guard
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for default dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo RepositoryAPI, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:   repo,
		guard:  NewGuard(repo),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListExpenses(ctx context.Context, ownerID int64, filter ListFilter) ([]*Expense, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", ownerID)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetExpense(ctx context.Context, ownerID, id int64) (*Expense, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}

	e, err := s.guard.Authorize(ctx, ownerID, id)
	if err != nil {
		s.logDenied("get", ownerID, id, err)
		return nil, err
	}
	return e, nil
}

func (s *Service) CreateExpense(ctx context.Context, ownerID int64, dto ExpenseDTO) (*Expense, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fields, appErr := dto.Normalize(ownerID, now)
	if appErr != nil {
		s.logger.Warn("expense validation failed", "user_id", ownerID, "fields", appErr.Fields())
		return nil, appErr
	}

	row := ToDataModel(NewExpense(ownerID, fields, now))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", ownerID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense created",
		"expense_id", row.ID,
		"user_id", ownerID,
		"amount", row.Amount.String(),
		"category", row.Category)

	return FromDataModel(row), nil
}

// UpdateExpense replaces every mutable field of an owned record.
func (s *Service) UpdateExpense(ctx context.Context, ownerID, id int64, dto ExpenseDTO) (*Expense, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}

	existing, err := s.guard.Authorize(ctx, ownerID, id)
	if err != nil {
		s.logDenied("update", ownerID, id, err)
		return nil, err
	}

	now := s.now().UTC()
	fields, appErr := dto.Normalize(ownerID, now)
	if appErr != nil {
		s.logger.Warn("expense validation failed", "user_id", ownerID, "expense_id", id, "fields", appErr.Fields())
		return nil, appErr
	}

	existing.Replace(fields, now)
	row := ToDataModel(existing)
	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, internal.ErrExpenseNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		s.logger.Error("failed to update expense", "error", err, "expense_id", id, "user_id", ownerID)
		return nil, internal.NewInternalError("failed to update expense", err)
	}

	s.logger.Info("expense updated", "expense_id", id, "user_id", ownerID)
	return existing, nil
}

func (s *Service) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	if err := validateOwner(ownerID); err != nil {
		return err
	}

	if _, err := s.guard.Authorize(ctx, ownerID, id); err != nil {
		s.logDenied("delete", ownerID, id, err)
		return err
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, internal.ErrExpenseNotFound) {
			return internal.ErrExpenseNotFound
		}
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id, "user_id", ownerID)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id, "user_id", ownerID)
	return nil
}

// GetSummary aggregates the owner's records. The filter narrows the total and the
// category breakdown only.
func (s *Service) GetSummary(ctx context.Context, ownerID int64, filter ListFilter) (*Summary, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, ownerID, ListFilter{})
	if err != nil {
		s.logger.Error("failed to load expenses for summary", "error", err, "user_id", ownerID)
		return nil, internal.NewInternalError("failed to build summary", err)
	}
	all := FromDataModelSlice(rows)

	selected := all
	if !filter.IsEmpty() {
		selected = make([]*Expense, 0, len(all))
		for _, e := range all {
			if filter.Matches(e) {
				selected = append(selected, e)
			}
		}
	}

	return Summarize(selected, all), nil
}

func (s *Service) logDenied(op string, ownerID, id int64, err error) {
	switch {
	case internal.IsType(err, internal.ErrorTypeForbidden):
		s.logger.Warn("expense access denied", "op", op, "expense_id", id, "user_id", ownerID)
	case internal.IsType(err, internal.ErrorTypeInternal):
		s.logger.Error("expense lookup failed", "op", op, "expense_id", id, "user_id", ownerID, "error", err)
	}
}

func validateOwner(ownerID int64) error {
	if ownerID <= 0 {
		return internal.NewValidationFieldError("user_id", "user id must be a positive integer", internal.ErrCodeInvalidOwner)
	}
	return nil
}
