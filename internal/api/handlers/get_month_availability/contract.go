package get_month_availability

import (
	"context"

	getMonthAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_month_availability"
)

type GetMonthAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getMonthAvailability.Request) (*getMonthAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
