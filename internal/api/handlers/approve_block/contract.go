package approve_block

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks/models"
)

type BlockService interface {
	ApproveBlock(ctx context.Context, blockID, approverID int64) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
