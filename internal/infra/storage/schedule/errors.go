package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда шаблон расписания не найден
	ErrScheduleNotFound = errors.New("schedule.repository: schedule template not found")

	// ErrActiveConflict возвращается, когда у специалиста уже есть другой активный шаблон
	ErrActiveConflict = errors.New("schedule.repository: professional already has an active template")

	// ErrSerialization возвращается при конфликте сериализуемых транзакций
	ErrSerialization = errors.New("schedule.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrEncodeOverrides возвращается при ошибке сериализации переопределений дней
	ErrEncodeOverrides = errors.New("schedule.repository: failed to encode day overrides")
)
