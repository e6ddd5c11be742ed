package expense_test

import (
	"time"

	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func newRecord(amount, category, date string) *expense.Expense {
	d, _, err := expense.ParseDate(date)
	Expect(err).NotTo(HaveOccurred())
	return &expense.Expense{
		UserID:   1,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     d,
		Note:     "note",
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var _ = Describe("Summarize", func() {
	It("should aggregate the reference scenario", func() {
		records := []*expense.Expense{
			newRecord("50", "Food", "2024-01-05"),
			newRecord("30", "Food", "2024-01-10"),
			newRecord("20", "Travel", "2024-02-01"),
		}

		s := expense.Summarize(records, records)

		Expect(s.Total.Equal(dec("100"))).To(BeTrue())

		Expect(s.ByCategory).To(HaveLen(2))
		Expect(s.ByCategory[0].Category).To(Equal("Food"))
		Expect(s.ByCategory[0].Total.Equal(dec("80"))).To(BeTrue())
		Expect(s.ByCategory[0].Count).To(Equal(2))
		Expect(s.ByCategory[0].Percentage.Equal(dec("80"))).To(BeTrue())
		Expect(s.ByCategory[1].Category).To(Equal("Travel"))
		Expect(s.ByCategory[1].Total.Equal(dec("20"))).To(BeTrue())
		Expect(s.ByCategory[1].Count).To(Equal(1))

		Expect(s.ByMonth).To(HaveLen(2))
		Expect(s.ByMonth[0].Year).To(Equal(2024))
		Expect(s.ByMonth[0].Month).To(Equal(2))
		Expect(s.ByMonth[0].Total.Equal(dec("20"))).To(BeTrue())
		Expect(s.ByMonth[0].Count).To(Equal(1))
		Expect(s.ByMonth[1].Month).To(Equal(1))
		Expect(s.ByMonth[1].Total.Equal(dec("80"))).To(BeTrue())
		Expect(s.ByMonth[1].Count).To(Equal(2))

		Expect(s.TransactionCount).To(Equal(3))
		Expect(s.AverageTransaction.Equal(dec("33.33"))).To(BeTrue())
		Expect(s.MonthlyAverage.Equal(dec("50"))).To(BeTrue())
		Expect(s.TopCategory).To(Equal("Food"))
	})

	It("should return a zero summary for no records", func() {
		s := expense.Summarize(nil, nil)

		Expect(s.Total.IsZero()).To(BeTrue())
		Expect(s.ByCategory).To(BeEmpty())
		Expect(s.ByMonth).To(BeEmpty())
		Expect(s.TransactionCount).To(BeZero())
		Expect(s.AverageTransaction.IsZero()).To(BeTrue())
		Expect(s.MonthlyAverage.IsZero()).To(BeTrue())
		Expect(s.TopCategory).To(BeEmpty())
	})

	It("should partition the selection by category", func() {
		records := []*expense.Expense{
			newRecord("10.10", "Bills", "2024-03-01"),
			newRecord("5.25", "Rent", "2024-03-02"),
			newRecord("7.00", "Bills", "2024-04-01"),
			newRecord("0.01", "Other", "2024-05-01"),
			newRecord("99.99", "Education", "2023-12-31"),
		}

		s := expense.Summarize(records, records)

		sum := decimal.Zero
		count := 0
		for _, c := range s.ByCategory {
			sum = sum.Add(c.Total)
			count += c.Count
		}
		Expect(sum.Equal(s.Total)).To(BeTrue())
		Expect(count).To(Equal(len(records)))
	})

	It("should break category ties by name", func() {
		records := []*expense.Expense{
			newRecord("10", "Travel", "2024-01-01"),
			newRecord("10", "Bills", "2024-01-02"),
			newRecord("10", "Food", "2024-01-03"),
		}

		s := expense.Summarize(records, records)

		Expect(s.ByCategory[0].Category).To(Equal("Bills"))
		Expect(s.ByCategory[1].Category).To(Equal("Food"))
		Expect(s.ByCategory[2].Category).To(Equal("Travel"))
	})

	It("should keep the 12 most recent months", func() {
		var records []*expense.Expense
		start := time.Date(2022, time.June, 15, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 18; i++ {
			records = append(records, &expense.Expense{
				Amount:   dec("1"),
				Category: "Other",
				Date:     start.AddDate(0, i, 0),
			})
		}

		s := expense.Summarize(records, records)

		Expect(s.ByMonth).To(HaveLen(expense.MonthLimit))
		Expect(s.ByMonth[0].Year).To(Equal(2023))
		Expect(s.ByMonth[0].Month).To(Equal(11))
		Expect(s.ByMonth[11].Year).To(Equal(2022))
		Expect(s.ByMonth[11].Month).To(Equal(12))
		for i := 1; i < len(s.ByMonth); i++ {
			prev, cur := s.ByMonth[i-1], s.ByMonth[i]
			Expect(prev.Year*12 + prev.Month).To(BeNumerically(">", cur.Year*12+cur.Month))
		}
	})

	It("should bucket months by UTC calendar", func() {
		jakarta := time.FixedZone("WIB", 7*60*60)
		records := []*expense.Expense{
			{Amount: dec("1"), Category: "Food", Date: time.Date(2024, time.March, 1, 3, 0, 0, 0, jakarta)},
		}

		s := expense.Summarize(records, records)

		Expect(s.ByMonth).To(HaveLen(1))
		Expect(s.ByMonth[0].Month).To(Equal(2))
	})

	It("should compute months over all records and categories over the selection", func() {
		all := []*expense.Expense{
			newRecord("50", "Food", "2024-01-05"),
			newRecord("20", "Travel", "2024-02-01"),
		}
		selected := all[:1]

		s := expense.Summarize(selected, all)

		Expect(s.Total.Equal(dec("50"))).To(BeTrue())
		Expect(s.ByCategory).To(HaveLen(1))
		Expect(s.ByMonth).To(HaveLen(2))
	})
})
