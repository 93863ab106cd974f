package block

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блокировка расписания не найдена
	ErrBlockNotFound = errors.New("block.repository: block not found")

	// ErrStatusConflict возвращается, когда статус блокировки изменился между чтением и записью
	ErrStatusConflict = errors.New("block.repository: status changed concurrently")

	// ErrSerialization возвращается при конфликте сериализуемых транзакций
	ErrSerialization = errors.New("block.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("block.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("block.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("block.repository: failed to scan row")
)
