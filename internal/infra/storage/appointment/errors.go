package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда прием не найден
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается при нарушении уникальности (специалист, дата, время) среди неотмененных приемов
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrSerialization возвращается при конфликте сериализуемых транзакций
	ErrSerialization = errors.New("appointment.repository: serialization failure")

	// ErrStatusConflict возвращается, когда статус изменился между чтением и записью
	ErrStatusConflict = errors.New("appointment.repository: status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
