package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-guard/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/clock"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	ForceRegister(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	LockStatus(w http.ResponseWriter, r *http.Request)
	Unlock(w http.ResponseWriter, r *http.Request)
	Lock(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
	lockService  shift.RegistrationLockService
	clock        clock.Clock
}

func NewShiftHandler(shiftService shift.ShiftService, lockService shift.RegistrationLockService, clk clock.Clock) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
		lockService:  lockService,
		clock:        clk,
	}
}

// Request implements ShiftHandler.
func (h *shiftHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req shift.RequestShiftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = actorID
	}

	result, err := h.shiftService.RequestShift(r.Context(), actorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift requested successfully", result)
}

// ForceRegister implements ShiftHandler.
func (h *shiftHandlerImpl) ForceRegister(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req shift.ForceRegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.shiftService.ForceRegister(r.Context(), actorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shifts registered successfully", result)
}

// Transition implements ShiftHandler. The action comes from the path.
func (h *shiftHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	action := shift.TransitionAction(chi.URLParam(r, "action"))
	result, err := h.shiftService.TransitionShift(r.Context(), chi.URLParam(r, "id"), action, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated successfully", result)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.shiftService.GetShift(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	filter := shift.ListShiftFilter{UserID: queryString(r, "user_id")}

	if status := r.URL.Query().Get("status"); status != "" {
		s := shift.Status(status)
		filter.Status = &s
	}

	var valid bool
	if filter.From, valid = queryDate(w, r, "from"); !valid {
		return
	}
	if filter.To, valid = queryDate(w, r, "to"); !valid {
		return
	}

	shifts, err := h.shiftService.ListShifts(r.Context(), actorID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, shifts, &response.Meta{TotalItems: len(shifts)})
}

// Delete implements ShiftHandler.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.shiftService.DeleteShift(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

// LockStatus implements ShiftHandler. Query: user_id (defaults to the
// actor), year and month (default to the current month).
func (h *shiftHandlerImpl) LockStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	now := h.clock.Now()
	req := shift.LockRequest{
		UserID: actorID,
		Year:   now.Year(),
		Month:  int(now.Month()),
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		req.UserID = userID
	}

	var valid bool
	if req.Year, valid = queryInt(w, r, "year", req.Year); !valid {
		return
	}
	if req.Month, valid = queryInt(w, r, "month", req.Month); !valid {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.lockService.Status(r.Context(), actorID, req.UserID, req.Year, time.Month(req.Month), now)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// Unlock implements ShiftHandler.
func (h *shiftHandlerImpl) Unlock(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req shift.LockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	lock, err := h.lockService.SetUnlock(r.Context(), req.UserID, req.Year, time.Month(req.Month), actorID, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Registration unlocked", lock)
}

// Lock implements ShiftHandler.
func (h *shiftHandlerImpl) Lock(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req shift.LockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	lock, err := h.lockService.SetLock(r.Context(), req.UserID, req.Year, time.Month(req.Month), actorID, h.clock.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Registration locked", lock)
}
