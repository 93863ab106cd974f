package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusFinished   AppointmentStatus = "finished"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// AppointmentType kind of visit
type AppointmentType string

const (
	TypeFirstVisit AppointmentType = "first_visit"
	TypeFollowUp   AppointmentType = "follow_up"
	TypeReturn     AppointmentType = "return"
)

// allowedTransitions scheduled -> in_progress -> finished, scheduled -> cancelled
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusFinished},
}

// Appointment booked slot between a patient and a professional
type Appointment struct {
	ID             int64
	PatientID      int64
	ProfessionalID int64
	SpecialtyID    int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        *types.TimeString
	Type           AppointmentType
	Status         AppointmentStatus
	Observation    *string

	CancelledBy        *int64
	CancellationReason *string
	CancelledAt        *time.Time
	StartedAt          *time.Time
	FinishedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentsFilter filter for listing appointments
type AppointmentsFilter struct {
	PatientID        *int64
	ProfessionalID   *int64
	StartDate        *time.Time
	EndDate          *time.Time
	Status           *AppointmentStatus
	IncludeCancelled bool
}

// IsValidAppointmentType checks the type string
func IsValidAppointmentType(s string) bool {
	switch AppointmentType(s) {
	case TypeFirstVisit, TypeFollowUp, TypeReturn:
		return true
	}
	return false
}

// IsValidAppointmentStatus checks the status string
func IsValidAppointmentStatus(s string) bool {
	switch AppointmentStatus(s) {
	case StatusScheduled, StatusInProgress, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal lifecycle step
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Occupies returns true if the appointment holds its slot
func (a *Appointment) Occupies() bool {
	return a.Status != StatusCancelled
}

// IsParticipant returns true for the patient or the professional of the appointment
func (a *Appointment) IsParticipant(userID int64) bool {
	return a.PatientID == userID || a.ProfessionalID == userID
}

// StartsAt scheduled start as an instant on the appointment date
func (a *Appointment) StartsAt() time.Time {
	return a.StartTime.OnDate(a.Date)
}

// Transition applies a status change and stamps the matching timestamp
func (a *Appointment) Transition(to AppointmentStatus, at time.Time) error {
	if !CanTransition(a.Status, to) {
		return NewTransitionError("appointment", string(a.Status), string(to))
	}

	switch to {
	case StatusInProgress:
		a.StartedAt = &at
	case StatusFinished:
		a.FinishedAt = &at
	case StatusCancelled:
		a.CancelledAt = &at
	}
	a.Status = to
	return nil
}
