package schedule

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func formatOptionalDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateFormat)
}
