package book_appointment

import "errors"

var (
	// ErrValidation возвращается при некорректных входных данных
	ErrValidation = errors.New("book_appointment: invalid input data")

	// ErrInvalidTime возвращается для прошедшего времени или времени вне сетки слотов
	ErrInvalidTime = errors.New("book_appointment: invalid appointment time")

	// ErrScheduleNotFound возвращается, когда у специалиста нет активного расписания на дату
	ErrScheduleNotFound = errors.New("book_appointment: no active schedule for date")

	// ErrSlotUnavailable возвращается, когда слот занят, заблокирован или не удалось получить блокировку
	ErrSlotUnavailable = errors.New("book_appointment: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")

	// errRetry конфликт сериализации, попытку можно повторить
	errRetry = errors.New("book_appointment: serialization conflict")
)
