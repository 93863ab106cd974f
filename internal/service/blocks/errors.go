package blocks

import "errors"

var (
	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = errors.New("blocks: block not found")

	// ErrValidation возвращается при некорректных данных блокировки
	ErrValidation = errors.New("blocks: validation error")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на действие
	ErrAccessDenied = errors.New("blocks: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("blocks: internal error")
)
