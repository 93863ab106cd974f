package reject_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks"
)

const (
	msgInvalidBlockID     = "некорректный ID блокировки"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "необходимо указать причину отклонения"
	msgNotFound           = "блокировка не найдена"
	msgForbidden          = "отклонить блокировку может только администратор"
	msgNotPending         = "блокировка уже рассмотрена"
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

// Handle POST /api/v1/blocks/{blockId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	blockID, err := handlers.PathID(r, "blockId")
	if err != nil {
		h.logger.Warn("POST /blocks/{id}/reject - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RejectBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocks/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	block, err := h.service.RejectBlock(r.Context(), blockID, userID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, blocks.ErrValidation):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, blocks.ErrBlockNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("POST /blocks/{id}/reject - Access denied: block_id=%d, user_id=%d", blockID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidTransition):
			handlers.RespondConflict(w, msgNotPending)

		default:
			h.logger.Error("POST /blocks/{id}/reject - Failed to reject block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blocks/{id}/reject - Block rejected: block_id=%d, approver_id=%d", blockID, userID)
	handlers.RespondJSON(w, http.StatusOK, block)
}
