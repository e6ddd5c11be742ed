package expense

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListExpenses(ctx context.Context, ownerID int64, filter ListFilter) ([]*Expense, error)
	GetExpense(ctx context.Context, ownerID, id int64) (*Expense, error)
	CreateExpense(ctx context.Context, ownerID int64, dto ExpenseDTO) (*Expense, error)
	UpdateExpense(ctx context.Context, ownerID, id int64, dto ExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, ownerID, id int64) error
	GetSummary(ctx context.Context, ownerID int64, filter ListFilter) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	filter, appErr := ParseListFilter(r.URL.Query())
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	expenses, err := h.Service.ListExpenses(r.Context(), ownerID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListExpensesResponse{
		Count:    len(expenses),
		Expenses: expenses,
	})
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	e, err := h.Service.GetExpense(r.Context(), ownerID, expenseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var dto ExpenseDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	e, err := h.Service.CreateExpense(r.Context(), ownerID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	var dto ExpenseDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	e, err := h.Service.UpdateExpense(r.Context(), ownerID, expenseID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), ownerID, expenseID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeleteExpenseResponse{Message: "Expense deleted successfully"})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	filter, appErr := ParseListFilter(r.URL.Query())
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	summary, err := h.Service.GetSummary(r.Context(), ownerID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// owner reads the authenticated owner id. The auth middleware normally rejects
// anonymous requests before they get here.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, ok := internal.UserIDFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return 0, false
	}
	return ownerID, true
}

func (h *Handler) expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.WriteAppError(w, internal.NewValidationFieldError("id", "expense id must be a positive integer", internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}
