package create_schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// GlobalConfigRequest рабочие часы по умолчанию
type GlobalConfigRequest struct {
	DailyStart          string  `json:"dailyStart" validate:"required"`
	DailyEnd            string  `json:"dailyEnd" validate:"required"`
	BreakStart          *string `json:"breakStart,omitempty"`
	BreakEnd            *string `json:"breakEnd,omitempty"`
	SlotDurationMinutes int     `json:"slotDurationMinutes" validate:"required,gte=5,lte=480"`
	GapMinutes          int     `json:"gapMinutes" validate:"gte=0,lte=240"`
}

// CreateScheduleRequest HTTP request model
type CreateScheduleRequest struct {
	Global       GlobalConfigRequest  `json:"global" validate:"required"`
	DayOverrides *domain.DayOverrides `json:"dayOverrides,omitempty"`
	ValidFrom    string               `json:"validFrom" validate:"required"` // "2025-01-01"
	ValidTo      *string              `json:"validTo,omitempty"`
}

// ToDomainGlobal разбирает время глобальной конфигурации
func (g *GlobalConfigRequest) ToDomainGlobal() (domain.GlobalConfig, error) {
	start, err := types.NewTimeStringFromString(g.DailyStart)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("dailyStart: %w", err)
	}
	end, err := types.NewTimeStringFromString(g.DailyEnd)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("dailyEnd: %w", err)
	}
	breakStart, err := parseOptionalTime(g.BreakStart)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("breakStart: %w", err)
	}
	breakEnd, err := parseOptionalTime(g.BreakEnd)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("breakEnd: %w", err)
	}

	return domain.GlobalConfig{
		DailyStart:          start,
		DailyEnd:            end,
		BreakStart:          breakStart,
		BreakEnd:            breakEnd,
		SlotDurationMinutes: g.SlotDurationMinutes,
		GapMinutes:          g.GapMinutes,
	}, nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateScheduleRequest) ToServiceRequest(professionalID, actorID int64) (*models.CreateScheduleRequest, error) {
	global, err := r.Global.ToDomainGlobal()
	if err != nil {
		return nil, err
	}

	validFrom, err := time.Parse(domain.DateFormat, r.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("validFrom: %w", err)
	}

	validTo, err := handlers.ParseOptionalDate(r.ValidTo)
	if err != nil {
		return nil, fmt.Errorf("validTo: %w", err)
	}

	req := &models.CreateScheduleRequest{
		ProfessionalID: professionalID,
		ActorID:        actorID,
		Global:         global,
		ValidFrom:      validFrom,
		ValidTo:        validTo,
	}
	if r.DayOverrides != nil {
		req.DayOverrides = *r.DayOverrides
	}

	return req, nil
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
