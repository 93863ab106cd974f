package get_day_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Options параметры расчета слотов из конфигурации
type Options struct {
	Policy                  domain.BlockPolicy
	MinBookingNoticeMinutes int
	Location                *time.Location
}

// Request модель запроса слотов на день
type Request struct {
	ProfessionalID int64     // ID специалиста
	Date           time.Time // Дата (без времени)
}

// Slot слот дня
type Slot struct {
	Time      types.TimeString // Время начала
	EndTime   types.TimeString // Время окончания
	Available bool             // Можно ли записаться
}

// Response модель ответа со слотами дня
type Response struct {
	Date           time.Time
	ProfessionalID int64
	Slots          []Slot // Все слоты дня в порядке времени, занятые и прошедшие с Available=false
}
