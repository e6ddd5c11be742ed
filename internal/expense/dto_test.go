package expense_test

import (
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var _ = Describe("ExpenseDTO", func() {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	Describe("Normalize", func() {
		It("should apply defaults for date and category", func() {
			dto := expense.ExpenseDTO{Amount: amountPtr("12.50"), Note: "  lunch  "}

			fields, appErr := dto.Normalize(1, now)

			Expect(appErr).To(BeNil())
			Expect(fields.Amount.Equal(decimal.RequireFromString("12.5"))).To(BeTrue())
			Expect(fields.Note).To(Equal("lunch"))
			Expect(fields.Category).To(Equal("Other"))
			Expect(fields.Date).To(BeTemporally("==", now))
		})

		It("should accept plain dates and RFC 3339 timestamps", func() {
			dto := expense.ExpenseDTO{Amount: amountPtr("1"), Note: "x", Date: "2024-01-05"}
			fields, appErr := dto.Normalize(1, now)
			Expect(appErr).To(BeNil())
			Expect(fields.Date).To(BeTemporally("==", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)))

			dto.Date = "2024-01-05T10:30:00+07:00"
			fields, appErr = dto.Normalize(1, now)
			Expect(appErr).To(BeNil())
			Expect(fields.Date).To(BeTemporally("==", time.Date(2024, time.January, 5, 3, 30, 0, 0, time.UTC)))
			Expect(fields.Date.Location()).To(Equal(time.UTC))
		})

		DescribeTable("should reject invalid fields",
			func(dto expense.ExpenseDTO, field string) {
				_, appErr := dto.Normalize(1, now)
				Expect(appErr).NotTo(BeNil())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
				Expect(appErr.Fields()).To(ContainElement(field))
			},
			Entry("zero amount", expense.ExpenseDTO{Amount: amountPtr("0"), Note: "x"}, "amount"),
			Entry("negative amount", expense.ExpenseDTO{Amount: amountPtr("-5"), Note: "x"}, "amount"),
			Entry("missing amount", expense.ExpenseDTO{Note: "x"}, "amount"),
			Entry("three decimal places", expense.ExpenseDTO{Amount: amountPtr("1.005"), Note: "x"}, "amount"),
			Entry("amount too large", expense.ExpenseDTO{Amount: amountPtr("10000000000"), Note: "x"}, "amount"),
			Entry("blank note", expense.ExpenseDTO{Amount: amountPtr("1"), Note: "   "}, "note"),
			Entry("long note", expense.ExpenseDTO{Amount: amountPtr("1"), Note: strings.Repeat("a", 201)}, "note"),
			Entry("unknown category", expense.ExpenseDTO{Amount: amountPtr("1"), Note: "x", Category: "Groceries"}, "category"),
			Entry("bad date", expense.ExpenseDTO{Amount: amountPtr("1"), Note: "x", Date: "yesterday"}, "date"),
		)

		It("should accept a 200 character note", func() {
			dto := expense.ExpenseDTO{Amount: amountPtr("1"), Note: strings.Repeat("é", 200)}
			_, appErr := dto.Normalize(1, now)
			Expect(appErr).To(BeNil())
		})

		It("should report every offending field", func() {
			dto := expense.ExpenseDTO{Amount: amountPtr("0"), Note: "", Category: "Groceries"}

			_, appErr := dto.Normalize(1, now)

			Expect(appErr.Fields()).To(ConsistOf("amount", "note", "category"))
		})

		It("should reject a change of owner", func() {
			other := int64(2)
			dto := expense.ExpenseDTO{Amount: amountPtr("1"), Note: "x", UserID: &other}

			_, appErr := dto.Normalize(1, now)

			Expect(appErr).NotTo(BeNil())
			Expect(appErr.Fields()).To(Equal([]string{"user_id"}))
		})

		It("should allow the caller's own id in the body", func() {
			self := int64(1)
			dto := expense.ExpenseDTO{Amount: amountPtr("1"), Note: "x", UserID: &self}

			_, appErr := dto.Normalize(1, now)

			Expect(appErr).To(BeNil())
		})
	})
})

var _ = Describe("ParseListFilter", func() {
	It("should return an empty filter for no parameters", func() {
		f, appErr := expense.ParseListFilter(url.Values{})
		Expect(appErr).To(BeNil())
		Expect(f.IsEmpty()).To(BeTrue())
	})

	It("should treat All as no category filter", func() {
		f, appErr := expense.ParseListFilter(url.Values{"category": {"All"}})
		Expect(appErr).To(BeNil())
		Expect(f.Category).To(BeEmpty())
	})

	It("should extend a plain end date to the end of that day", func() {
		f, appErr := expense.ParseListFilter(url.Values{
			"start_date": {"2024-01-01"},
			"end_date":   {"2024-01-31"},
			"search":     {" Coffee "},
		})

		Expect(appErr).To(BeNil())
		Expect(*f.StartDate).To(BeTemporally("==", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
		Expect(f.EndDate.Day()).To(Equal(31))
		Expect(f.EndDate.Hour()).To(Equal(23))
		Expect(f.Search).To(Equal("Coffee"))
	})

	It("should reject unknown categories and unparseable dates", func() {
		_, appErr := expense.ParseListFilter(url.Values{
			"category":   {"Groceries"},
			"start_date": {"nope"},
		})

		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Fields()).To(ConsistOf("category", "start_date"))
	})

	It("should reject an inverted range", func() {
		_, appErr := expense.ParseListFilter(url.Values{
			"start_date": {"2024-02-01"},
			"end_date":   {"2024-01-01"},
		})

		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Fields()).To(Equal([]string{"start_date"}))
	})

	It("should match records the same way the store does", func() {
		f, _ := expense.ParseListFilter(url.Values{
			"category": {"Food"},
			"end_date": {"2024-01-10"},
			"search":   {"LUNCH"},
		})

		in := newRecord("1", "Food", "2024-01-10")
		in.Note = "Team lunch"
		Expect(f.Matches(in)).To(BeTrue())

		late := newRecord("1", "Food", "2024-01-11")
		late.Note = "lunch"
		Expect(f.Matches(late)).To(BeFalse())

		wrongCategory := newRecord("1", "Travel", "2024-01-01")
		wrongCategory.Note = "lunch"
		Expect(f.Matches(wrongCategory)).To(BeFalse())
	})
})
