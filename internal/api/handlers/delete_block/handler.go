package delete_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks"
)

const (
	msgInvalidBlockID = "некорректный ID блокировки"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "блокировка не найдена"
	msgForbidden      = "доступ запрещен"
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

// Handle DELETE /api/v1/blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	blockID, err := handlers.PathID(r, "blockId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), blockID, userID); err != nil {
		switch {
		case errors.Is(err, blocks.ErrBlockNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, blocks.ErrAccessDenied):
			h.logger.Warn("DELETE /blocks/{id} - Access denied: block_id=%d, user_id=%d", blockID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /blocks/{id} - Failed to delete block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blocks/{id} - Block deleted: block_id=%d, user_id=%d", blockID, userID)
	w.WriteHeader(http.StatusNoContent)
}
