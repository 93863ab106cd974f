package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// GlobalConfig working hours applied to every day without an override
type GlobalConfig struct {
	DailyStart          types.TimeString  `json:"dailyStart"`
	DailyEnd            types.TimeString  `json:"dailyEnd"`
	BreakStart          *types.TimeString `json:"breakStart,omitempty"`
	BreakEnd            *types.TimeString `json:"breakEnd,omitempty"`
	SlotDurationMinutes int               `json:"slotDurationMinutes"`
	GapMinutes          int               `json:"gapMinutes"`
}

// DayOverride per-weekday override. Nil fields inherit GlobalConfig
type DayOverride struct {
	IsWorking           bool              `json:"isWorking"`
	StartTime           *types.TimeString `json:"startTime,omitempty"`
	EndTime             *types.TimeString `json:"endTime,omitempty"`
	BreakStart          *types.TimeString `json:"breakStart,omitempty"`
	BreakEnd            *types.TimeString `json:"breakEnd,omitempty"`
	NoBreak             bool              `json:"noBreak,omitempty"` // отменяет глобальный перерыв в этот день
	SlotDurationMinutes *int              `json:"slotDurationMinutes,omitempty"`
	GapMinutes          *int              `json:"gapMinutes,omitempty"`
}

// DayOverrides indexed by time.Weekday (Sunday = 0)
type DayOverrides [DaysInWeek]*DayOverride

// ScheduleTemplate recurring weekly availability of a professional
type ScheduleTemplate struct {
	ID             int64
	ProfessionalID int64
	Global         GlobalConfig
	DayOverrides   DayOverrides
	ValidFrom      time.Time
	ValidTo        *time.Time // nil = бессрочно
	Active         bool
	SupersededBy   *int64
	CreatedBy      int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveDayConfig result of merging a day override over the global config
type EffectiveDayConfig struct {
	IsWorking           bool
	Start               types.TimeString
	End                 types.TimeString
	BreakStart          *types.TimeString
	BreakEnd            *types.TimeString
	SlotDurationMinutes int
	GapMinutes          int
}

// Covers returns true if the template is active and valid on the date
func (t *ScheduleTemplate) Covers(date time.Time) bool {
	if t == nil || !t.Active {
		return false
	}
	return DateInRange(date, t.ValidFrom, t.ValidTo)
}

// ResolveDayConfig merges the override for the weekday over the global config
func (t *ScheduleTemplate) ResolveDayConfig(weekday time.Weekday) EffectiveDayConfig {
	return ResolveDayConfig(t.Global, t.DayOverrides[weekday])
}

// ResolveDayConfig field-by-field merge: set override fields win, nil fields inherit
func ResolveDayConfig(global GlobalConfig, override *DayOverride) EffectiveDayConfig {
	cfg := EffectiveDayConfig{
		IsWorking:           true,
		Start:               global.DailyStart,
		End:                 global.DailyEnd,
		BreakStart:          global.BreakStart,
		BreakEnd:            global.BreakEnd,
		SlotDurationMinutes: global.SlotDurationMinutes,
		GapMinutes:          global.GapMinutes,
	}

	if override == nil {
		return cfg
	}

	cfg.IsWorking = override.IsWorking
	if override.StartTime != nil {
		cfg.Start = *override.StartTime
	}
	if override.EndTime != nil {
		cfg.End = *override.EndTime
	}
	if override.NoBreak {
		cfg.BreakStart, cfg.BreakEnd = nil, nil
	}
	if override.BreakStart != nil {
		cfg.BreakStart = override.BreakStart
	}
	if override.BreakEnd != nil {
		cfg.BreakEnd = override.BreakEnd
	}
	if override.SlotDurationMinutes != nil {
		cfg.SlotDurationMinutes = *override.SlotDurationMinutes
	}
	if override.GapMinutes != nil {
		cfg.GapMinutes = *override.GapMinutes
	}

	return cfg
}

// HasBreak returns true if both break bounds are set and the break is non-empty
func (c EffectiveDayConfig) HasBreak() bool {
	if c.BreakStart == nil || c.BreakEnd == nil {
		return false
	}
	return c.BreakStart.IsBefore(*c.BreakEnd)
}

// Step distance between consecutive slot starts
func (c EffectiveDayConfig) Step() int {
	return c.SlotDurationMinutes + c.GapMinutes
}

// Clone deep copy used as the base of a superseding version
func (t *ScheduleTemplate) Clone() *ScheduleTemplate {
	clone := *t
	for i, o := range t.DayOverrides {
		if o != nil {
			oc := *o
			clone.DayOverrides[i] = &oc
		}
	}
	if t.ValidTo != nil {
		v := *t.ValidTo
		clone.ValidTo = &v
	}
	clone.SupersededBy = nil
	return &clone
}
