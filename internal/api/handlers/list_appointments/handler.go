package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

const (
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidPatientID      = "некорректный ID пациента"
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidStartDate      = "некорректный формат startDate, ожидается YYYY-MM-DD"
	msgInvalidEndDate        = "некорректный формат endDate, ожидается YYYY-MM-DD"
	msgInvalidFilter         = "некорректный фильтр"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
// Query params: patientId, professionalId, startDate, endDate, status, includeCancelled (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.ListRequest{ActorID: userID}
	var err error

	if req.PatientID, err = handlers.QueryInt64(r, "patientId"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}
	if req.ProfessionalID, err = handlers.QueryInt64(r, "professionalId"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}
	if req.StartDate, err = handlers.QueryDate(r, "startDate"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidStartDate)
		return
	}
	if req.EndDate, err = handlers.QueryDate(r, "endDate"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidEndDate)
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}
	req.IncludeCancelled = r.URL.Query().Get("includeCancelled") == "true"

	result, err := h.service.ListAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrValidation):
			h.logger.Warn("GET /appointments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /appointments - Failed to list appointments: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved: user_id=%d, count=%d", userID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
