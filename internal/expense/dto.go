package expense

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const (
	NoteMaxLength = 200
	AmountScale   = 2
)

var (
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.RequireFromString("9999999999.99")
)

// ExpenseDTO is the request payload for both create and update. Update is a
// full-field replacement, so the same shape and rules apply.
type ExpenseDTO struct {
	Amount   *decimal.Decimal `json:"amount"`
	Date     string           `json:"date,omitempty"`
	Note     string           `json:"note"`
	Category string           `json:"category,omitempty"`
	// UserID is accepted only so that an attempt to reassign the owner can be rejected.
	UserID *int64 `json:"user_id,omitempty"`

	invalidAmount bool
}

// UnmarshalJSON keeps a non-numeric amount as a field failure so that it is
// reported next to the other offending fields instead of failing the body.
func (dto *ExpenseDTO) UnmarshalJSON(data []byte) error {
	type plain ExpenseDTO
	aux := struct {
		*plain
		Amount json.RawMessage `json:"amount"`
	}{plain: (*plain)(dto)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	dto.Amount = nil
	dto.invalidAmount = false
	raw := bytes.TrimSpace(aux.Amount)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(raw); err != nil {
		dto.invalidAmount = true
		return nil
	}
	dto.Amount = &amount
	return nil
}

// Normalize validates the payload and returns the fields to persist. Empty date
// defaults to now, empty category to Other. Every offending field is reported.
func (dto ExpenseDTO) Normalize(ownerID int64, now time.Time) (Fields, *internal.AppError) {
	v := validation.NewValidator()

	var amount decimal.Decimal
	if dto.invalidAmount {
		v.Fail("amount", "amount must be a number", internal.ErrCodeInvalidAmount)
	} else if dto.Amount == nil {
		v.Fail("amount", "amount is required", internal.ErrCodeInvalidAmount)
	} else {
		amount = *dto.Amount
		v.Field("amount", amount).
			MinDecimal(MinAmount, internal.ErrCodeInvalidAmount).
			MaxDecimal(MaxAmount, internal.ErrCodeInvalidAmount).
			MaxScale(AmountScale, internal.ErrCodeInvalidAmount)
	}

	note := strings.TrimSpace(dto.Note)
	v.Field("note", note).
		Required().
		MinLength(1, internal.ErrCodeInvalidNote).
		MaxLength(NoteMaxLength, internal.ErrCodeInvalidNote)

	cat := strings.TrimSpace(dto.Category)
	if cat == "" {
		cat = category.Default
	}
	v.Field("category", cat).OneOf(category.Names(), internal.ErrCodeInvalidCategory)

	date := now.UTC()
	if strings.TrimSpace(dto.Date) != "" {
		parsed, _, err := ParseDate(dto.Date)
		if err != nil {
			v.Fail("date", "date must be a valid date (YYYY-MM-DD or RFC 3339)", internal.ErrCodeInvalidDate)
		} else {
			date = parsed
		}
	}

	if dto.UserID != nil && *dto.UserID != ownerID {
		v.Fail("user_id", "the owner of an expense cannot be changed", internal.ErrCodeInvalidOwner)
	}

	if appErr := v.Validate(); appErr != nil {
		return Fields{}, appErr
	}

	return Fields{
		Amount:   amount,
		Date:     date,
		Note:     note,
		Category: cat,
	}, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

const dayLayout = "2006-01-02"

// ParseDate accepts RFC 3339 timestamps or plain calendar dates. The boolean reports
// whether the input was a plain date. Values are returned in UTC.
func ParseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), false, nil
		}
		lastErr = err
	}
	return time.Time{}, false, lastErr
}

// ListFilter narrows a list or summary request. Zero values disable a filter;
// all set filters are ANDed.
type ListFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

func (f ListFilter) IsEmpty() bool {
	return f.Category == "" && f.StartDate == nil && f.EndDate == nil && f.Search == ""
}

// ParseListFilter reads category, start_date, end_date and search from the query.
// Both date bounds are inclusive; a plain end date covers that whole day.
func ParseListFilter(q url.Values) (ListFilter, *internal.AppError) {
	var f ListFilter
	v := validation.NewValidator()

	if c := strings.TrimSpace(q.Get("category")); c != "" && c != category.All {
		f.Category = c
		v.Field("category", c).OneOf(category.Names(), internal.ErrCodeInvalidCategory)
	}

	if s := q.Get("start_date"); strings.TrimSpace(s) != "" {
		t, _, err := ParseDate(s)
		if err != nil {
			v.Fail("start_date", "start_date must be a valid date", internal.ErrCodeInvalidDate)
		} else {
			f.StartDate = &t
		}
	}

	if s := q.Get("end_date"); strings.TrimSpace(s) != "" {
		t, dayOnly, err := ParseDate(s)
		if err != nil {
			v.Fail("end_date", "end_date must be a valid date", internal.ErrCodeInvalidDate)
		} else {
			if dayOnly {
				t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			f.EndDate = &t
		}
	}

	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		v.Fail("start_date", "start_date must not be after end_date", internal.ErrCodeInvalidDate)
	}

	f.Search = strings.TrimSpace(q.Get("search"))
	v.Field("search", f.Search).MaxLength(NoteMaxLength, internal.ErrCodeValidationFailed)

	if appErr := v.Validate(); appErr != nil {
		return ListFilter{}, appErr
	}
	return f, nil
}

// Matches applies the filter to a record in memory, with the same semantics as the store.
func (f ListFilter) Matches(e *Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	if f.Search != "" && !MatchesSearch(e.Note, f.Search) {
		return false
	}
	return true
}

// MatchesSearch reports whether note contains search, ignoring case across the
// full Unicode range.
func MatchesSearch(note, search string) bool {
	return strings.Contains(strings.ToLower(note), strings.ToLower(search))
}

type ListExpensesResponse struct {
	Count    int        `json:"count"`
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseResponse struct {
	Message string `json:"message"`
}
