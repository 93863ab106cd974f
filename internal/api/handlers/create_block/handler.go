package create_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidFormat         = "некорректный формат даты или времени"
	msgValidation            = "некорректные параметры блокировки"
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

// Handle POST /api/v1/professionals/{professionalId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.PathID(r, "professionalId")
	if err != nil {
		h.logger.Warn("POST /professionals/{id}/blocks - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /professionals/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(professionalID, userID)
	if err != nil {
		h.logger.Warn("POST /professionals/{id}/blocks - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFormat)
		return
	}

	block, err := h.service.CreateBlock(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrValidation):
			h.logger.Warn("POST /professionals/{id}/blocks - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgValidation)

		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("POST /professionals/{id}/blocks - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /professionals/{id}/blocks - Failed to create block: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /professionals/{id}/blocks - Block created: block_id=%d, status=%s", block.ID, block.Status)
	handlers.RespondJSON(w, http.StatusCreated, block)
}
