package update_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
)

const (
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgValidation         = "некорректная конфигурация расписания"
	msgNotFound           = "расписание не найдено"
	msgNotActive          = "расписание уже заменено новой версией"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "расписание специалиста изменено параллельно, повторите запрос"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/schedules/{scheduleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := handlers.PathID(r, "scheduleId")
	if err != nil {
		h.logger.Warn("PATCH /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(scheduleID, userID)
	if err != nil {
		h.logger.Warn("PATCH /schedules/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	schedule, err := h.service.UpdateSchedule(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedules.ErrValidation):
			h.logger.Warn("PATCH /schedules/{id} - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgValidation)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PATCH /schedules/{id} - Access denied: schedule_id=%d, user_id=%d", scheduleID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrScheduleNotActive):
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, schedules.ErrScheduleConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /schedules/{id} - Failed to update schedule: schedule_id=%d, error=%v", scheduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /schedules/{id} - Schedule updated: old_id=%d, new_id=%d", scheduleID, schedule.ID)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
