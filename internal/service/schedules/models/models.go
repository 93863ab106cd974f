package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// CreateScheduleRequest запрос на создание шаблона расписания
type CreateScheduleRequest struct {
	ProfessionalID int64
	ActorID        int64
	Global         domain.GlobalConfig
	DayOverrides   domain.DayOverrides
	ValidFrom      time.Time
	ValidTo        *time.Time
}

// ToDomainTemplate конвертирует запрос в новый активный шаблон
func (r *CreateScheduleRequest) ToDomainTemplate() *domain.ScheduleTemplate {
	return &domain.ScheduleTemplate{
		ProfessionalID: r.ProfessionalID,
		Global:         r.Global,
		DayOverrides:   r.DayOverrides,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		Active:         true,
		CreatedBy:      r.ActorID,
	}
}

// GlobalConfigPatch частичное изменение глобальной конфигурации. nil = без изменений
type GlobalConfigPatch struct {
	DailyStart          *types.TimeString
	DailyEnd            *types.TimeString
	BreakStart          *types.TimeString
	BreakEnd            *types.TimeString
	ClearBreak          bool
	SlotDurationMinutes *int
	GapMinutes          *int
}

// UpdateScheduleRequest частичное изменение шаблона
type UpdateScheduleRequest struct {
	ScheduleID   int64
	ActorID      int64
	Global       *GlobalConfigPatch
	DayOverrides *domain.DayOverrides // заменяет все переопределения целиком
	ValidFrom    *time.Time
	ValidTo      *time.Time
	ClearValidTo bool
}

// Apply применяет изменения к копии шаблона
func (r *UpdateScheduleRequest) Apply(base *domain.ScheduleTemplate) *domain.ScheduleTemplate {
	t := base.Clone()
	t.ID = 0
	t.Active = true
	t.CreatedBy = r.ActorID

	if g := r.Global; g != nil {
		if g.DailyStart != nil {
			t.Global.DailyStart = *g.DailyStart
		}
		if g.DailyEnd != nil {
			t.Global.DailyEnd = *g.DailyEnd
		}
		if g.ClearBreak {
			t.Global.BreakStart, t.Global.BreakEnd = nil, nil
		}
		if g.BreakStart != nil {
			t.Global.BreakStart = g.BreakStart
		}
		if g.BreakEnd != nil {
			t.Global.BreakEnd = g.BreakEnd
		}
		if g.SlotDurationMinutes != nil {
			t.Global.SlotDurationMinutes = *g.SlotDurationMinutes
		}
		if g.GapMinutes != nil {
			t.Global.GapMinutes = *g.GapMinutes
		}
	}

	if r.DayOverrides != nil {
		t.DayOverrides = *r.DayOverrides
	}
	if r.ValidFrom != nil {
		t.ValidFrom = *r.ValidFrom
	}
	if r.ClearValidTo {
		t.ValidTo = nil
	}
	if r.ValidTo != nil {
		t.ValidTo = r.ValidTo
	}

	return t
}

// Response модели

// ScheduleResponse шаблон расписания
type ScheduleResponse struct {
	ID             int64               `json:"id"`
	ProfessionalID int64               `json:"professionalId"`
	Global         domain.GlobalConfig `json:"global"`
	DayOverrides   domain.DayOverrides `json:"dayOverrides"`
	ValidFrom      string              `json:"validFrom"`
	ValidTo        *string             `json:"validTo,omitempty"`
	Active         bool                `json:"active"`
	SupersededBy   *int64              `json:"supersededBy,omitempty"`
	CreatedBy      int64               `json:"createdBy"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(t *domain.ScheduleTemplate) *ScheduleResponse {
	if t == nil {
		return nil
	}

	resp := &ScheduleResponse{
		ID:             t.ID,
		ProfessionalID: t.ProfessionalID,
		Global:         t.Global,
		DayOverrides:   t.DayOverrides,
		ValidFrom:      t.ValidFrom.Format(domain.DateFormat),
		Active:         t.Active,
		SupersededBy:   t.SupersededBy,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}

	if t.ValidTo != nil {
		validTo := t.ValidTo.Format(domain.DateFormat)
		resp.ValidTo = &validTo
	}

	return resp
}
