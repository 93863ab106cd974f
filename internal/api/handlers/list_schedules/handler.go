package list_schedules

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
)

const msgInvalidProfessionalID = "некорректный ID специалиста"

// ScheduleListResponse история версий расписания
type ScheduleListResponse struct {
	Schedules []*models.ScheduleResponse `json:"schedules"`
}

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

// Handle GET /api/v1/professionals/{professionalId}/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathID(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/schedules - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	list, err := h.service.ListSchedules(r.Context(), professionalID)
	if err != nil {
		h.logger.Error("GET /professionals/{id}/schedules - Failed to list schedules: professional_id=%d, error=%v",
			professionalID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /professionals/{id}/schedules - Schedules retrieved: professional_id=%d, count=%d",
		professionalID, len(list))
	handlers.RespondJSON(w, http.StatusOK, ScheduleListResponse{Schedules: list})
}
