package book_appointment

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrValidation)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrValidation)
	}

	if req.SpecialtyID <= 0 {
		return fmt.Errorf("%w: specialtyID must be positive", ErrValidation)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrValidation)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrValidation, err)
	}

	if !domain.IsValidAppointmentType(req.Type) {
		return fmt.Errorf("%w: unknown appointment type %q", ErrValidation, req.Type)
	}

	if req.Observation != nil && utf8.RuneCountInString(*req.Observation) > domain.MaxObservationLength {
		return fmt.Errorf("%w: observation must not exceed %d characters", ErrValidation, domain.MaxObservationLength)
	}

	return nil
}

// validateBookingTime прошедшая дата или сегодняшнее время раньше now+notice недопустимы
func validateBookingTime(date time.Time, start types.TimeString, now time.Time, noticeMinutes int) error {
	if domain.IsDateInPast(date, now) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidTime, date.Format(domain.DateFormat))
	}

	if !domain.IsSameDay(date, now) {
		return nil
	}

	threshold := now.Hour()*60 + now.Minute() + noticeMinutes
	if start.Minutes() < threshold {
		return fmt.Errorf("%w: start %s has already passed", ErrInvalidTime, start)
	}

	return nil
}
