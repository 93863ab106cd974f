package get_day_slots

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getDaySlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_slots"
)

// DaySlotsResponse HTTP response model
type DaySlotsResponse struct {
	Date           string `json:"date"`
	ProfessionalID int64  `json:"professionalId"`
	Slots          []Slot `json:"slots"`
}

// Slot модель слота дня
type Slot struct {
	Time      string `json:"time"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDaySlots.Response) *DaySlotsResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = Slot{
			Time:      s.Time.String(),
			EndTime:   s.EndTime.String(),
			Available: s.Available,
		}
	}

	return &DaySlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		ProfessionalID: resp.ProfessionalID,
		Slots:          slots,
	}
}
