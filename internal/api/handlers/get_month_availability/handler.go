package get_month_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getMonthAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_month_availability"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidSpecialtyID    = "некорректный ID специальности"
	msgInvalidYear           = "некорректный год"
	msgInvalidMonth          = "некорректный месяц, ожидается число от 1 до 12"
	msgInvalidInput          = "некорректные параметры запроса"
	msgSpecialtyNotFound     = "специальность не найдена"
)

type Handler struct {
	useCase GetMonthAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/availability?year=&month=
// и GET /api/v1/specialties/{specialtyId}/availability?year=&month=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &getMonthAvailability.Request{}

	// Маршрут определяет, по кому строится обзор
	if _, ok := mux.Vars(r)["specialtyId"]; ok {
		id, err := handlers.PathID(r, "specialtyId")
		if err != nil {
			h.logger.Warn("GET /specialties/{id}/availability - Invalid specialty ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSpecialtyID)
			return
		}
		req.SpecialtyID = id
	} else {
		id, err := handlers.PathID(r, "professionalId")
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/availability - Invalid professional ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)
			return
		}
		req.ProfessionalID = id
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.logger.Warn("GET %s - Invalid year: %v", r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidYear)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		h.logger.Warn("GET %s - Invalid month: %q", r.URL.Path, r.URL.Query().Get("month"))
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	req.Year, req.Month = year, month

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getMonthAvailability.ErrInvalidInput):
			h.logger.Warn("GET %s - Invalid input: %v", r.URL.Path, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getMonthAvailability.ErrSpecialtyNotFound):
			h.logger.Warn("GET %s - Specialty not found: specialty_id=%d", r.URL.Path, req.SpecialtyID)
			handlers.RespondNotFound(w, msgSpecialtyNotFound)

		default:
			h.logger.Error("GET %s - Failed to get availability: error=%v", r.URL.Path, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET %s - Availability retrieved successfully: days=%d", r.URL.Path, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
