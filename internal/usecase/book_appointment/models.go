package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Исходы бронирования для метрик
const (
	OutcomeBooked          = "booked"
	OutcomeSlotUnavailable = "slot_unavailable"
	OutcomeLockTimeout     = "lock_timeout"
	OutcomeRejected        = "rejected"
	OutcomeError           = "error"
)

// Options параметры бронирования из конфигурации
type Options struct {
	LockTimeout             time.Duration
	MaxRetries              int
	MinBookingNoticeMinutes int
	Policy                  domain.BlockPolicy
	Location                *time.Location
}

// Request модель запроса на запись к специалисту
type Request struct {
	PatientID      int64
	ProfessionalID int64
	SpecialtyID    int64
	Date           time.Time        // Дата приема (без времени)
	StartTime      types.TimeString // Время начала слота, например "10:40"
	Type           string
	Observation    *string
}

// Response модель ответа с созданным приемом
type Response struct {
	ID             int64
	PatientID      int64
	ProfessionalID int64
	SpecialtyID    int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        *types.TimeString
	Type           string
	Status         string
	Observation    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func fromDomain(a *domain.Appointment) *Response {
	return &Response{
		ID:             a.ID,
		PatientID:      a.PatientID,
		ProfessionalID: a.ProfessionalID,
		SpecialtyID:    a.SpecialtyID,
		Date:           a.Date,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Type:           string(a.Type),
		Status:         string(a.Status),
		Observation:    a.Observation,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
