package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BookAppointmentRequest HTTP request model. Пациент берется из X-User-ID
type BookAppointmentRequest struct {
	ProfessionalID int64   `json:"professionalId" validate:"required,gt=0"`
	SpecialtyID    int64   `json:"specialtyId" validate:"required,gt=0"`
	Date           string  `json:"date" validate:"required"`      // "2025-03-10"
	StartTime      string  `json:"startTime" validate:"required"` // "08:40"
	Type           string  `json:"type" validate:"required,oneof=first_visit follow_up return"`
	Observation    *string `json:"observation,omitempty" validate:"omitempty,max=1000"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64   `json:"id"`
	PatientID      int64   `json:"patientId"`
	ProfessionalID int64   `json:"professionalId"`
	SpecialtyID    int64   `json:"specialtyId"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        *string `json:"endTime,omitempty"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	Observation    *string `json:"observation,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(patientID int64) (*bookAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &bookAppointment.Request{
		PatientID:      patientID,
		ProfessionalID: r.ProfessionalID,
		SpecialtyID:    r.SpecialtyID,
		Date:           date,
		StartTime:      startTime,
		Type:           r.Type,
		Observation:    r.Observation,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:             resp.ID,
		PatientID:      resp.PatientID,
		ProfessionalID: resp.ProfessionalID,
		SpecialtyID:    resp.SpecialtyID,
		Date:           resp.Date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		Type:           resp.Type,
		Status:         resp.Status,
		Observation:    resp.Observation,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.EndTime != nil {
		end := resp.EndTime.String()
		out.EndTime = &end
	}
	return out
}
