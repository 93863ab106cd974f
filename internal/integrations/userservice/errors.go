package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("userservice client: user not found")

	// ErrSpecialtyNotFound возвращается, когда специальность не найдена
	ErrSpecialtyNotFound = errors.New("userservice client: specialty not found")

	// ErrUnknownRole возвращается, когда сервис вернул неизвестную роль
	ErrUnknownRole = errors.New("userservice client: unknown role")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")
)
