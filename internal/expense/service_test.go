package expense_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

// mockExpenseRepository keeps rows in memory and copies them in and out so that
// tests can observe whether a stored row changed.
type mockExpenseRepository struct {
	rows        map[int64]expenseDatamodel.Expense
	nextID      int64
	createError error
	getError    error
	listError   error
	updateCalls int
	deleteCalls int
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		rows:   make(map[int64]expenseDatamodel.Expense),
		nextID: 1,
	}
}

func (m *mockExpenseRepository) Create(_ context.Context, e *expenseDatamodel.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	e.ID = m.nextID
	m.nextID++
	m.rows[e.ID] = *e
	return nil
}

func (m *mockExpenseRepository) GetByID(_ context.Context, id int64) (*expenseDatamodel.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, internal.ErrExpenseNotFound
	}
	return &row, nil
}

func (m *mockExpenseRepository) ListByUser(_ context.Context, userID int64, filter expense.ListFilter) ([]*expenseDatamodel.Expense, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	result := make([]*expenseDatamodel.Expense, 0)
	for _, row := range m.rows {
		row := row
		if row.UserID != userID || !filter.Matches(expense.FromDataModel(&row)) {
			continue
		}
		result = append(result, &row)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ExpenseDate.Equal(result[j].ExpenseDate) {
			return result[i].ExpenseDate.After(result[j].ExpenseDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *mockExpenseRepository) Update(_ context.Context, e *expenseDatamodel.Expense) error {
	m.updateCalls++
	row, ok := m.rows[e.ID]
	if !ok || row.UserID != e.UserID {
		return internal.ErrExpenseNotFound
	}
	m.rows[e.ID] = *e
	return nil
}

func (m *mockExpenseRepository) Delete(_ context.Context, userID, id int64) error {
	m.deleteCalls++
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return internal.ErrExpenseNotFound
	}
	delete(m.rows, id)
	return nil
}

func validDTO(amount, category, date string) expense.ExpenseDTO {
	return expense.ExpenseDTO{
		Amount:   amountPtr(amount),
		Note:     "note for " + category,
		Category: category,
		Date:     date,
	}
}

var _ = Describe("Expense Service", func() {
	const (
		alice int64 = 1
		bob   int64 = 2
	)

	var (
		ctx     context.Context
		repo    *mockExpenseRepository
		service *expense.Service
		now     time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockExpenseRepository()
		now = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(repo, logger, expense.WithClock(func() time.Time { return now }))
	})

	Describe("CreateExpense", func() {
		It("should create an expense owned by the caller", func() {
			e, err := service.CreateExpense(ctx, alice, validDTO("42.10", "Food", "2024-05-20"))

			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).To(BeNumerically(">", 0))
			Expect(e.UserID).To(Equal(alice))
			Expect(e.Amount.Equal(decimal.RequireFromString("42.1"))).To(BeTrue())
			Expect(e.CreatedAt).To(BeTemporally("==", now))
			Expect(repo.rows).To(HaveLen(1))
		})

		It("should default the date to now", func() {
			e, err := service.CreateExpense(ctx, alice, validDTO("1", "Other", ""))

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Date).To(BeTemporally("==", now))
		})

		It("should reject amount 0 with a validation error on amount", func() {
			_, err := service.CreateExpense(ctx, alice, validDTO("0", "Food", ""))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Fields()).To(Equal([]string{"amount"}))
			Expect(repo.rows).To(BeEmpty())
		})

		It("should reject an unknown category with a validation error on category", func() {
			_, err := service.CreateExpense(ctx, alice, validDTO("10", "Groceries", ""))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Fields()).To(Equal([]string{"category"}))
		})

		It("should reject a non-positive owner id", func() {
			_, err := service.CreateExpense(ctx, 0, validDTO("10", "Food", ""))

			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should hide store failures behind an internal error", func() {
			repo.createError = errors.New("connection reset")

			_, err := service.CreateExpense(ctx, alice, validDTO("10", "Food", ""))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
			Expect(appErr.Message).NotTo(ContainSubstring("connection reset"))
		})
	})

	Describe("ListExpenses", func() {
		It("should never return another owner's records", func() {
			_, err := service.CreateExpense(ctx, alice, validDTO("10", "Food", "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateExpense(ctx, alice, validDTO("20", "Travel", "2024-01-02"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateExpense(ctx, bob, validDTO("30", "Bills", "2024-01-03"))
			Expect(err).NotTo(HaveOccurred())

			aliceList, err := service.ListExpenses(ctx, alice, expense.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(aliceList).To(HaveLen(2))
			for _, e := range aliceList {
				Expect(e.UserID).To(Equal(alice))
			}
			Expect(aliceList[0].Category).To(Equal("Travel"))

			bobList, err := service.ListExpenses(ctx, bob, expense.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(bobList).To(HaveLen(1))
			Expect(bobList[0].UserID).To(Equal(bob))
		})
	})

	Describe("GetExpense", func() {
		It("should return NotFound for a missing id and Forbidden for a foreign record", func() {
			created, err := service.CreateExpense(ctx, alice, validDTO("10", "Food", ""))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.GetExpense(ctx, alice, 999)
			Expect(internal.IsType(err, internal.ErrorTypeNotFound)).To(BeTrue())

			_, err = service.GetExpense(ctx, bob, created.ID)
			Expect(internal.IsType(err, internal.ErrorTypeForbidden)).To(BeTrue())

			got, err := service.GetExpense(ctx, alice, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(created.ID))
		})
	})

	Describe("UpdateExpense", func() {
		var created *expense.Expense

		BeforeEach(func() {
			var err error
			created, err = service.CreateExpense(ctx, alice, validDTO("10", "Food", "2024-01-01"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should replace every field for the owner", func() {
			now = now.Add(time.Hour)

			updated, err := service.UpdateExpense(ctx, alice, created.ID, validDTO("99.99", "Travel", "2024-02-02"))

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Category).To(Equal("Travel"))
			Expect(updated.Amount.Equal(decimal.RequireFromString("99.99"))).To(BeTrue())
			Expect(updated.UserID).To(Equal(alice))
			Expect(updated.UpdatedAt).To(BeTemporally("==", now))
			Expect(repo.rows[created.ID].Category).To(Equal("Travel"))
		})

		It("should return Forbidden and leave the record unchanged for another user", func() {
			before := repo.rows[created.ID]

			_, err := service.UpdateExpense(ctx, bob, created.ID, validDTO("1", "Bills", "2024-03-03"))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
			Expect(appErr.Code).To(Equal(internal.ErrCodeForbiddenExpense))
			Expect(repo.rows[created.ID]).To(Equal(before))
			Expect(repo.updateCalls).To(BeZero())
		})

		It("should return NotFound for a missing record", func() {
			_, err := service.UpdateExpense(ctx, alice, 404, validDTO("1", "Bills", ""))

			Expect(internal.IsType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("should refuse to move the record to another owner", func() {
			dto := validDTO("1", "Bills", "")
			dto.UserID = &[]int64{bob}[0]

			_, err := service.UpdateExpense(ctx, alice, created.ID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Fields()).To(Equal([]string{"user_id"}))
			Expect(repo.rows[created.ID].UserID).To(Equal(alice))
		})

		It("should re-validate the full shape", func() {
			_, err := service.UpdateExpense(ctx, alice, created.ID, expense.ExpenseDTO{Note: ""})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Fields()).To(ContainElements("amount", "note"))
			Expect(repo.updateCalls).To(BeZero())
		})
	})

	Describe("DeleteExpense", func() {
		It("should return NotFound for a nonexistent id", func() {
			err := service.DeleteExpense(ctx, alice, 12345)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(appErr.Code).To(Equal(internal.ErrCodeExpenseNotFound))
		})

		It("should return Forbidden for another user's record and keep it", func() {
			created, err := service.CreateExpense(ctx, alice, validDTO("10", "Food", ""))
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteExpense(ctx, bob, created.ID)

			Expect(internal.IsType(err, internal.ErrorTypeForbidden)).To(BeTrue())
			Expect(repo.rows).To(HaveKey(created.ID))
			Expect(repo.deleteCalls).To(BeZero())
		})

		It("should delete the owner's record", func() {
			created, err := service.CreateExpense(ctx, alice, validDTO("10", "Food", ""))
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteExpense(ctx, alice, created.ID)).To(Succeed())
			Expect(repo.rows).NotTo(HaveKey(created.ID))
		})

		It("should surface lookup failures as internal errors", func() {
			repo.getError = errors.New("timeout")

			err := service.DeleteExpense(ctx, alice, 1)

			Expect(internal.IsType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("GetSummary", func() {
		BeforeEach(func() {
			for _, dto := range []expense.ExpenseDTO{
				validDTO("50", "Food", "2024-01-05"),
				validDTO("30", "Food", "2024-01-10"),
				validDTO("20", "Travel", "2024-02-01"),
			} {
				_, err := service.CreateExpense(ctx, alice, dto)
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.CreateExpense(ctx, bob, validDTO("1000", "Rent", "2024-02-01"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should summarize only the caller's records", func() {
			s, err := service.GetSummary(ctx, alice, expense.ListFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(s.Total.Equal(decimal.NewFromInt(100))).To(BeTrue())
			Expect(s.ByCategory).To(HaveLen(2))
			Expect(s.ByCategory[0].Category).To(Equal("Food"))
			Expect(s.ByMonth).To(HaveLen(2))
			Expect(s.ByMonth[0].Month).To(Equal(2))
			Expect(s.TransactionCount).To(Equal(3))
		})

		It("should return a zero summary for a user without records", func() {
			s, err := service.GetSummary(ctx, 77, expense.ListFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(s.Total.IsZero()).To(BeTrue())
			Expect(s.ByCategory).To(BeEmpty())
			Expect(s.ByMonth).To(BeEmpty())
		})

		It("should apply filters to the total but not to the month breakdown", func() {
			s, err := service.GetSummary(ctx, alice, expense.ListFilter{Category: "Travel"})

			Expect(err).NotTo(HaveOccurred())
			Expect(s.Total.Equal(decimal.NewFromInt(20))).To(BeTrue())
			Expect(s.ByCategory).To(HaveLen(1))
			Expect(s.ByMonth).To(HaveLen(2))
		})

		It("should reject a malformed owner id", func() {
			_, err := service.GetSummary(ctx, -1, expense.ListFilter{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Fields()).To(Equal([]string{"user_id"}))
		})

		It("should surface store failures as internal errors", func() {
			repo.listError = errors.New("boom")

			_, err := service.GetSummary(ctx, alice, expense.ListFilter{})

			Expect(internal.IsType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})
})
