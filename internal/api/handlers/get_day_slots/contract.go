package get_day_slots

import (
	"context"

	getDaySlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_slots"
)

type GetDaySlotsUseCase interface {
	Execute(ctx context.Context, req *getDaySlots.Request) (*getDaySlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
