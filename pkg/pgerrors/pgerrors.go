package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

// Коды SQLSTATE, которые сервис обрабатывает отдельно
const (
	CodeUniqueViolation      pq.ErrorCode = "23505"
	CodeSerializationFailure pq.ErrorCode = "40001"
	CodeDeadlockDetected     pq.ErrorCode = "40P01"
)

// Code возвращает SQLSTATE ошибки драйвера или пустую строку
func Code(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// Constraint возвращает имя нарушенного ограничения
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

// IsRetryable true для конфликтов сериализуемых транзакций
func IsRetryable(err error) bool {
	code := Code(err)
	return code == CodeSerializationFailure || code == CodeDeadlockDetected
}
