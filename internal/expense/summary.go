package expense

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// MonthLimit is the number of most recent months kept in a summary.
const MonthLimit = 12

var hundred = decimal.NewFromInt(100)

type CategoryTotal struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type MonthTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type Summary struct {
	Total              decimal.Decimal `json:"total"`
	ByCategory         []CategoryTotal `json:"by_category"`
	ByMonth            []MonthTotal    `json:"by_month"`
	TransactionCount   int             `json:"transaction_count"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
	MonthlyAverage     decimal.Decimal `json:"monthly_average"`
	TopCategory        string          `json:"top_category"`
}

func (c CategoryTotal) MarshalJSON() ([]byte, error) {
	type plain CategoryTotal
	return json.Marshal(struct {
		plain
		Total      string `json:"total"`
		Percentage string `json:"percentage"`
	}{plain(c), money(c.Total), money(c.Percentage)})
}

func (m MonthTotal) MarshalJSON() ([]byte, error) {
	type plain MonthTotal
	return json.Marshal(struct {
		plain
		Total string `json:"total"`
	}{plain(m), money(m.Total)})
}

// MarshalJSON renders every money figure with exactly two decimals.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		Total              string `json:"total"`
		AverageTransaction string `json:"average_transaction"`
		MonthlyAverage     string `json:"monthly_average"`
	}{plain(s), money(s.Total), money(s.AverageTransaction), money(s.MonthlyAverage)})
}

// Summarize builds the summary view. Total and the category breakdown cover
// selected; the month breakdown always covers all of the owner's records.
func Summarize(selected, all []*Expense) *Summary {
	total := SumAmounts(selected)
	byCategory := GroupByCategory(selected, total)
	byMonth := GroupByMonth(all, MonthLimit)

	count := 0
	for _, c := range byCategory {
		count += c.Count
	}

	s := &Summary{
		Total:              total,
		ByCategory:         byCategory,
		ByMonth:            byMonth,
		TransactionCount:   count,
		AverageTransaction: decimal.Zero,
		MonthlyAverage:     decimal.Zero,
	}
	if count > 0 {
		s.AverageTransaction = total.Div(decimal.NewFromInt(int64(count))).Round(2)
	}
	if len(byMonth) > 0 {
		monthSum := decimal.Zero
		for _, m := range byMonth {
			monthSum = monthSum.Add(m.Total)
		}
		s.MonthlyAverage = monthSum.Div(decimal.NewFromInt(int64(len(byMonth)))).Round(2)
	}
	if len(byCategory) > 0 {
		s.TopCategory = byCategory[0].Category
	}
	return s
}

func SumAmounts(expenses []*Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// GroupByCategory orders groups by total descending, then by category name.
func GroupByCategory(expenses []*Expense, total decimal.Decimal) []CategoryTotal {
	index := make(map[string]int)
	groups := make([]CategoryTotal, 0)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(e.Amount)
		groups[i].Count++
	}

	for i := range groups {
		groups[i].Percentage = decimal.Zero
		if !total.IsZero() {
			groups[i].Percentage = groups[i].Total.Div(total).Mul(hundred).Round(2)
		}
	}

	sort.Slice(groups, func(a, b int) bool {
		if cmp := groups[a].Total.Cmp(groups[b].Total); cmp != 0 {
			return cmp > 0
		}
		return groups[a].Category < groups[b].Category
	})
	return groups
}

// GroupByMonth buckets by the UTC calendar month of the expense date, most recent
// first, keeping at most limit groups.
func GroupByMonth(expenses []*Expense, limit int) []MonthTotal {
	type key struct{ year, month int }
	index := make(map[key]int)
	groups := make([]MonthTotal, 0)
	for _, e := range expenses {
		d := e.Date.UTC()
		k := key{d.Year(), int(d.Month())}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, MonthTotal{Year: k.year, Month: k.month, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(e.Amount)
		groups[i].Count++
	}

	sort.Slice(groups, func(a, b int) bool {
		if groups[a].Year != groups[b].Year {
			return groups[a].Year > groups[b].Year
		}
		return groups[a].Month > groups[b].Month
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}
