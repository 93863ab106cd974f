package cancel_appointment

import "github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"

// CancelAppointmentRequest HTTP request model. Тело необязательно
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(appointmentID, actorID int64) *models.CancelRequest {
	return &models.CancelRequest{
		AppointmentID: appointmentID,
		ActorID:       actorID,
		Reason:        r.Reason,
	}
}
