package list_blocks

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks"
	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidStatus         = "некорректный статус блокировки"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service BlockService
	logger  Logger
}

func NewHandler(service BlockService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/blocks?status=pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathID(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/blocks - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.ListBlocksRequest{
		ProfessionalID: professionalID,
		ActorID:        userID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.ListBlocks(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrValidation):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("GET /professionals/{id}/blocks - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /professionals/{id}/blocks - Failed to list blocks: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
