package schedules

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда шаблон расписания не найден
	ErrScheduleNotFound = errors.New("schedules: schedule not found")

	// ErrScheduleNotActive возвращается при попытке изменить замененный шаблон
	ErrScheduleNotActive = errors.New("schedules: schedule is not active")

	// ErrScheduleConflict возвращается, когда расписание специалиста изменено параллельно
	ErrScheduleConflict = errors.New("schedules: concurrent schedule change")

	// ErrValidation возвращается при некорректной конфигурации расписания
	ErrValidation = errors.New("schedules: validation error")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на расписание
	ErrAccessDenied = errors.New("schedules: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedules: internal error")
)
