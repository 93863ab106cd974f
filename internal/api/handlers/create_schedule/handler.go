package create_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidFormat         = "некорректный формат даты или времени"
	msgValidation            = "некорректная конфигурация расписания"
	msgForbidden             = "доступ запрещен"
	msgConflict              = "расписание специалиста изменено параллельно, повторите запрос"
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

// Handle POST /api/v1/professionals/{professionalId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathID(r, "professionalId")
	if err != nil {
		h.logger.Warn("POST /professionals/{id}/schedule - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /professionals/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(professionalID, userID)
	if err != nil {
		h.logger.Warn("POST /professionals/{id}/schedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFormat)
		return
	}

	schedule, err := h.service.CreateSchedule(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrValidation):
			h.logger.Warn("POST /professionals/{id}/schedule - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgValidation)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("POST /professionals/{id}/schedule - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrScheduleConflict):
			h.logger.Warn("POST /professionals/{id}/schedule - Concurrent change: professional_id=%d", professionalID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /professionals/{id}/schedule - Failed to create schedule: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /professionals/{id}/schedule - Schedule created: schedule_id=%d, professional_id=%d",
		schedule.ID, professionalID)
	handlers.RespondJSON(w, http.StatusCreated, schedule)
}
