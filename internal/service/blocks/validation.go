package blocks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateBlock проверяет форму блокировки: один день или диапазон, окно времени и причину
func validateBlock(b *domain.ScheduleBlock) error {
	if b.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrValidation)
	}

	switch b.Kind {
	case domain.BlockSingleDay:
		if b.Date == nil || b.StartDate != nil || b.EndDate != nil {
			return fmt.Errorf("%w: single_day block requires date only", ErrValidation)
		}
	case domain.BlockRange:
		if b.StartDate == nil || b.EndDate == nil || b.Date != nil {
			return fmt.Errorf("%w: range block requires startDate and endDate only", ErrValidation)
		}
		if domain.IsDateInPast(*b.EndDate, *b.StartDate) {
			return fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown block kind %q", ErrValidation, b.Kind)
	}

	if (b.StartTime == nil) != (b.EndTime == nil) {
		return fmt.Errorf("%w: startTime and endTime must be set together", ErrValidation)
	}
	if b.StartTime != nil {
		if err := b.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: startTime: %v", ErrValidation, err)
		}
		if err := b.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: endTime: %v", ErrValidation, err)
		}
		if !b.StartTime.IsBefore(*b.EndTime) {
			return fmt.Errorf("%w: startTime must be before endTime", ErrValidation)
		}
	}

	return validateReason("reason", b.Reason)
}

func validateReason(field, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if utf8.RuneCountInString(reason) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, domain.MaxBlockReasonLength)
	}
	return nil
}
