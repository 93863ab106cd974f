package create_block

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/blocks/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateBlockRequest HTTP request model.
// single_day: date; range: startDate и endDate. startTime/endTime ограничивают окно внутри дня
type CreateBlockRequest struct {
	Kind      string  `json:"kind" validate:"required,oneof=single_day range"`
	Date      *string `json:"date,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Reason    string  `json:"reason" validate:"required,max=500"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockRequest) ToServiceRequest(professionalID, actorID int64) (*models.CreateBlockRequest, error) {
	date, err := handlers.ParseOptionalDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	startDate, err := handlers.ParseOptionalDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	endDate, err := handlers.ParseOptionalDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}
	startTime, err := parseOptionalTime(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	endTime, err := parseOptionalTime(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &models.CreateBlockRequest{
		ProfessionalID: professionalID,
		ActorID:        actorID,
		Kind:           r.Kind,
		Date:           date,
		StartDate:      startDate,
		EndDate:        endDate,
		StartTime:      startTime,
		EndTime:        endTime,
		Reason:         r.Reason,
	}, nil
}

func parseOptionalTime(raw *string) (*types.TimeString, error) {
	if raw == nil {
		return nil, nil
	}
	ts, err := types.NewTimeStringFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
