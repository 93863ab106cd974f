package schedules

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// validateTemplate проверяет глобальную конфигурацию, переопределения и период действия
func validateTemplate(t *domain.ScheduleTemplate) error {
	if t.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrValidation)
	}

	if err := validateDay("global", domain.ResolveDayConfig(t.Global, nil)); err != nil {
		return err
	}

	for weekday, override := range t.DayOverrides {
		if override == nil {
			continue
		}
		name := time.Weekday(weekday).String()

		if err := validateOverrideFields(name, override); err != nil {
			return err
		}

		cfg := t.ResolveDayConfig(time.Weekday(weekday))
		if !cfg.IsWorking {
			continue
		}
		if err := validateDay(name, cfg); err != nil {
			return err
		}
	}

	if t.ValidFrom.IsZero() {
		return fmt.Errorf("%w: validFrom is required", ErrValidation)
	}
	if t.ValidTo != nil && domain.IsDateInPast(*t.ValidTo, t.ValidFrom) {
		return fmt.Errorf("%w: validTo must not be before validFrom", ErrValidation)
	}

	return nil
}

// validateDay правила для итоговой конфигурации одного дня
func validateDay(name string, cfg domain.EffectiveDayConfig) error {
	if err := validateTime(name+".start", cfg.Start); err != nil {
		return err
	}
	if err := validateTime(name+".end", cfg.End); err != nil {
		return err
	}
	if !cfg.Start.IsBefore(cfg.End) {
		return fmt.Errorf("%w: %s: start must be before end", ErrValidation, name)
	}

	if cfg.SlotDurationMinutes < domain.MinSlotDurationMinutes || cfg.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: %s: slotDurationMinutes must be between %d and %d",
			ErrValidation, name, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if cfg.GapMinutes < domain.MinGapMinutes || cfg.GapMinutes > domain.MaxGapMinutes {
		return fmt.Errorf("%w: %s: gapMinutes must be between %d and %d",
			ErrValidation, name, domain.MinGapMinutes, domain.MaxGapMinutes)
	}

	if cfg.BreakStart != nil {
		if err := validateTime(name+".breakStart", *cfg.BreakStart); err != nil {
			return err
		}
	}
	if cfg.BreakEnd != nil {
		if err := validateTime(name+".breakEnd", *cfg.BreakEnd); err != nil {
			return err
		}
	}

	// Перерыв без одной из границ или нулевой длины считается отсутствующим
	if !cfg.HasBreak() {
		return nil
	}
	if cfg.BreakStart.IsBefore(cfg.Start) || cfg.BreakEnd.IsAfter(cfg.End) {
		return fmt.Errorf("%w: %s: break must be within working hours", ErrValidation, name)
	}

	return nil
}

// validateOverrideFields формат заданных полей, даже если день нерабочий
func validateOverrideFields(name string, o *domain.DayOverride) error {
	fields := []struct {
		name  string
		value *types.TimeString
	}{
		{"startTime", o.StartTime},
		{"endTime", o.EndTime},
		{"breakStart", o.BreakStart},
		{"breakEnd", o.BreakEnd},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := validateTime(name+"."+f.name, *f.value); err != nil {
			return err
		}
	}
	if o.NoBreak && (o.BreakStart != nil || o.BreakEnd != nil) {
		return fmt.Errorf("%w: %s: noBreak conflicts with break times", ErrValidation, name)
	}
	return nil
}

func validateTime(field string, ts types.TimeString) error {
	if ts.IsZero() {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if err := ts.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}
	return nil
}
