package get_day_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getDaySlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_slots"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput          = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetDaySlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetDaySlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathID(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if date == nil {
		h.logger.Warn("GET /professionals/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDaySlots.Request{
		ProfessionalID: professionalID,
		Date:           *date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getDaySlots.ErrInvalidInput):
			h.logger.Warn("GET /professionals/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /professionals/{id}/slots - Failed to get slots: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/slots - Slots retrieved successfully: professional_id=%d, slots_count=%d",
		professionalID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
