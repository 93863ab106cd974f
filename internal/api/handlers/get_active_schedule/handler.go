package get_active_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgNotFound              = "у специалиста нет активного расписания"
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

// Handle GET /api/v1/professionals/{professionalId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathID(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/schedule - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	schedule, err := h.service.GetActiveSchedule(r.Context(), professionalID)
	if err != nil {
		if errors.Is(err, schedules.ErrScheduleNotFound) {
			h.logger.Warn("GET /professionals/{id}/schedule - Schedule not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /professionals/{id}/schedule - Failed to get schedule: professional_id=%d, error=%v",
			professionalID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, schedule)
}
