package update_schedule

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// GlobalConfigPatch частичное изменение рабочих часов. Отсутствующие поля не меняются
type GlobalConfigPatch struct {
	DailyStart          *types.TimeString `json:"dailyStart,omitempty"`
	DailyEnd            *types.TimeString `json:"dailyEnd,omitempty"`
	BreakStart          *types.TimeString `json:"breakStart,omitempty"`
	BreakEnd            *types.TimeString `json:"breakEnd,omitempty"`
	ClearBreak          bool              `json:"clearBreak,omitempty"`
	SlotDurationMinutes *int              `json:"slotDurationMinutes,omitempty" validate:"omitempty,gte=5,lte=480"`
	GapMinutes          *int              `json:"gapMinutes,omitempty" validate:"omitempty,gte=0,lte=240"`
}

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Global       *GlobalConfigPatch   `json:"global,omitempty"`
	DayOverrides *domain.DayOverrides `json:"dayOverrides,omitempty"`
	ValidFrom    *string              `json:"validFrom,omitempty"`
	ValidTo      *string              `json:"validTo,omitempty"`
	ClearValidTo bool                 `json:"clearValidTo,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(scheduleID, actorID int64) (*models.UpdateScheduleRequest, error) {
	validFrom, err := handlers.ParseOptionalDate(r.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("validFrom: %w", err)
	}
	validTo, err := handlers.ParseOptionalDate(r.ValidTo)
	if err != nil {
		return nil, fmt.Errorf("validTo: %w", err)
	}

	req := &models.UpdateScheduleRequest{
		ScheduleID:   scheduleID,
		ActorID:      actorID,
		DayOverrides: r.DayOverrides,
		ValidFrom:    validFrom,
		ValidTo:      validTo,
		ClearValidTo: r.ClearValidTo,
	}

	if g := r.Global; g != nil {
		req.Global = &models.GlobalConfigPatch{
			DailyStart:          g.DailyStart,
			DailyEnd:            g.DailyEnd,
			BreakStart:          g.BreakStart,
			BreakEnd:            g.BreakEnd,
			ClearBreak:          g.ClearBreak,
			SlotDurationMinutes: g.SlotDurationMinutes,
			GapMinutes:          g.GapMinutes,
		}
	}

	return req, nil
}
