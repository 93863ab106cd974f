package get_month_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_month_availability: invalid input data")

	// ErrSpecialtyNotFound возвращается, когда специальность не найдена в справочнике
	ErrSpecialtyNotFound = errors.New("get_month_availability: specialty not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_month_availability: internal error")
)
