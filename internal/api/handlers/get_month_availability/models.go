package get_month_availability

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getMonthAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_month_availability"
)

// MonthAvailabilityResponse HTTP response model
type MonthAvailabilityResponse struct {
	ProfessionalID *int64 `json:"professionalId,omitempty"`
	SpecialtyID    *int64 `json:"specialtyId,omitempty"`
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Days           []Day  `json:"days"`
}

// Day сводка по дню
type Day struct {
	Date                   string         `json:"date"`
	Available              bool           `json:"available"`
	SlotCount              int            `json:"slotCount"`
	ProfessionalsAvailable int            `json:"professionalsAvailable"`
	Times                  []TimeCoverage `json:"times"`
}

// TimeCoverage свободное время и специалисты
type TimeCoverage struct {
	Time            string  `json:"time"`
	ProfessionalIDs []int64 `json:"professionalIds"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthAvailability.Response) *MonthAvailabilityResponse {
	out := &MonthAvailabilityResponse{
		Year:  resp.Year,
		Month: resp.Month,
		Days:  make([]Day, len(resp.Days)),
	}
	if resp.ProfessionalID > 0 {
		id := resp.ProfessionalID
		out.ProfessionalID = &id
	}
	if resp.SpecialtyID > 0 {
		id := resp.SpecialtyID
		out.SpecialtyID = &id
	}

	for i, d := range resp.Days {
		times := make([]TimeCoverage, len(d.Times))
		for j, t := range d.Times {
			times[j] = TimeCoverage{Time: t.Time.String(), ProfessionalIDs: t.ProfessionalIDs}
		}
		out.Days[i] = Day{
			Date:                   d.Date.Format(domain.DateFormat),
			Available:              d.Available,
			SlotCount:              d.SlotCount,
			ProfessionalsAvailable: d.ProfessionalsAvailable,
			Times:                  times,
		}
	}

	return out
}
