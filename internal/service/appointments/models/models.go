package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// CancelRequest запрос на отмену приема
type CancelRequest struct {
	AppointmentID int64
	ActorID       int64
	Reason        *string
}

// ListRequest запрос на список приемов. Без администраторских прав фильтр сужается до самого пользователя
type ListRequest struct {
	ActorID          int64
	PatientID        *int64
	ProfessionalID   *int64
	StartDate        *time.Time
	EndDate          *time.Time
	Status           *string
	IncludeCancelled bool
}

// Response модели

// AppointmentResponse прием
type AppointmentResponse struct {
	ID                 int64     `json:"id"`
	PatientID          int64     `json:"patientId"`
	ProfessionalID     int64     `json:"professionalId"`
	SpecialtyID        int64     `json:"specialtyId"`
	Date               string    `json:"date"`      // "2025-03-10"
	StartTime          string    `json:"startTime"` // "08:40"
	EndTime            *string   `json:"endTime,omitempty"`
	Type               string    `json:"type"`
	Status             string    `json:"status"`
	Observation        *string   `json:"observation,omitempty"`
	CancelledBy        *int64    `json:"cancelledBy,omitempty"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	CancelledAt        *string   `json:"cancelledAt,omitempty"` // ISO 8601
	StartedAt          *string   `json:"startedAt,omitempty"`
	FinishedAt         *string   `json:"finishedAt,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AppointmentListResponse список приемов
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		ProfessionalID:     a.ProfessionalID,
		SpecialtyID:        a.SpecialtyID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		Type:               string(a.Type),
		Status:             string(a.Status),
		Observation:        a.Observation,
		CancelledBy:        a.CancelledBy,
		CancellationReason: a.CancellationReason,
		CancelledAt:        formatInstant(a.CancelledAt),
		StartedAt:          formatInstant(a.StartedAt),
		FinishedAt:         formatInstant(a.FinishedAt),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.EndTime != nil {
		end := a.EndTime.String()
		resp.EndTime = &end
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{Appointments: make([]AppointmentResponse, 0, len(list))}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
