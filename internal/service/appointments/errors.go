package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда прием не найден
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на действие с приемом
	ErrAccessDenied = errors.New("appointments: access denied")

	// ErrTooEarly возвращается при попытке начать прием раньше назначенного времени
	ErrTooEarly = errors.New("appointments: appointment cannot be started before its time")

	// ErrValidation возвращается при некорректных входных данных
	ErrValidation = errors.New("appointments: validation error")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
