package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/setting"
	"github.com/cmlabs-hris/workforce-guard/internal/handler/http/response"
)

type SettingHandler interface {
	GetRegistrationDeadline(w http.ResponseWriter, r *http.Request)
	UpdateRegistrationDeadline(w http.ResponseWriter, r *http.Request)
}

type settingHandlerImpl struct {
	settingService setting.SettingService
}

func NewSettingHandler(settingService setting.SettingService) SettingHandler {
	return &settingHandlerImpl{
		settingService: settingService,
	}
}

type registrationDeadline struct {
	Day int `json:"day"`
}

// GetRegistrationDeadline implements SettingHandler.
func (h *settingHandlerImpl) GetRegistrationDeadline(w http.ResponseWriter, r *http.Request) {
	response.Success(w, registrationDeadline{Day: h.settingService.RegistrationDeadlineDay(r.Context())})
}

// UpdateRegistrationDeadline implements SettingHandler.
func (h *settingHandlerImpl) UpdateRegistrationDeadline(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req registrationDeadline
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.settingService.UpdateRegistrationDeadlineDay(r.Context(), actorID, req.Day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Registration deadline updated", result)
}
