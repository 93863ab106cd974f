package reject_block

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks/models"
)

type BlockService interface {
	RejectBlock(ctx context.Context, blockID, approverID int64, reason string) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
