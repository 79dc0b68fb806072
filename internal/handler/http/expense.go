package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/clock"
	"github.com/go-chi/chi/v5"
)

type ExpenseHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type expenseHandlerImpl struct {
	expenseService expense.ExpenseService
	clock          clock.Clock
}

func NewExpenseHandler(expenseService expense.ExpenseService, clk clock.Clock) ExpenseHandler {
	return &expenseHandlerImpl{
		expenseService: expenseService,
		clock:          clk,
	}
}

// Create implements ExpenseHandler.
func (h *expenseHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req expense.CreateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = actorID
	}

	result, err := h.expenseService.CreateExpense(r.Context(), actorID, req, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Expense created successfully", result)
}

// Update implements ExpenseHandler.
func (h *expenseHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req expense.UpdateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.expenseService.UpdateExpense(r.Context(), actorID, req, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense updated successfully", result)
}

// Delete implements ExpenseHandler.
func (h *expenseHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(r.Context(), actorID, chi.URLParam(r, "id"), h.clock.Now()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense deleted successfully", nil)
}

// Review implements ExpenseHandler. The action comes from the path.
func (h *expenseHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	action := expense.ReviewAction(chi.URLParam(r, "action"))
	result, err := h.expenseService.ReviewExpense(r.Context(), actorID, chi.URLParam(r, "id"), action, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense reviewed successfully", result)
}

// List implements ExpenseHandler.
func (h *expenseHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	filter := expense.ListExpenseFilter{UserID: queryString(r, "user_id")}

	if status := r.URL.Query().Get("status"); status != "" {
		s := expense.Status(status)
		filter.Status = &s
	}

	var valid bool
	if filter.From, valid = queryDate(w, r, "from"); !valid {
		return
	}
	if filter.To, valid = queryDate(w, r, "to"); !valid {
		return
	}

	expenses, err := h.expenseService.ListExpenses(r.Context(), actorID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, expenses, &response.Meta{TotalItems: len(expenses)})
}
