package get_month_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Options параметры расчета из конфигурации
type Options struct {
	Policy                  domain.BlockPolicy
	MinBookingNoticeMinutes int
	Location                *time.Location
}

// Request запрос доступности на месяц. Указывается ровно один из ProfessionalID и SpecialtyID
type Request struct {
	ProfessionalID int64
	SpecialtyID    int64
	Year           int
	Month          int
}

// TimeAvailability свободное время и специалисты, у которых оно свободно
type TimeAvailability struct {
	Time            types.TimeString
	ProfessionalIDs []int64
}

// DayAvailability сводка по одному дню
type DayAvailability struct {
	Date                   time.Time
	Available              bool
	SlotCount              int // свободные слоты всех специалистов
	ProfessionalsAvailable int // специалисты хотя бы с одним свободным слотом
	Times                  []TimeAvailability
}

// Response доступность по дням месяца
type Response struct {
	ProfessionalID int64
	SpecialtyID    int64
	Year           int
	Month          int
	Days           []DayAvailability
}
