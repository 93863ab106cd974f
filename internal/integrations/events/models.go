package events

import "time"

const (
	ChannelAppointmentCreated   = "appointments.created"
	ChannelAppointmentCancelled = "appointments.cancelled"
	ChannelAuditActions         = "audit.actions"
)

// Действия, которые попадают в аудит
const (
	ActionAppointmentBooked    = "appointment.booked"
	ActionAppointmentCancelled = "appointment.cancelled"
	ActionAppointmentStarted   = "appointment.started"
	ActionAppointmentFinished  = "appointment.finished"
	ActionScheduleCreated      = "schedule.created"
	ActionScheduleUpdated      = "schedule.updated"
	ActionBlockCreated         = "block.created"
	ActionBlockApproved        = "block.approved"
	ActionBlockRejected        = "block.rejected"
	ActionBlockDeleted         = "block.deleted"
)

// AppointmentEvent уведомление о записи
type AppointmentEvent struct {
	AppointmentID      int64     `json:"appointment_id"`
	PatientID          int64     `json:"patient_id"`
	ProfessionalID     int64     `json:"professional_id"`
	SpecialtyID        int64     `json:"specialty_id"`
	Date               string    `json:"date"`
	StartTime          string    `json:"start_time"`
	Status             string    `json:"status"`
	CancelledBy        *int64    `json:"cancelled_by,omitempty"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// AuditAction запись аудита
type AuditAction struct {
	ActorID    int64     `json:"actor_id"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   int64     `json:"entity_id"`
	Details    string    `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
