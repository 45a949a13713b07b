package apperrors

import (
	"net/http"
	"strings"
)

/*
Фабрики для доменных ошибок маркетплейса.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrForbidden - фабрика для ошибки прав на ресурс (403)
func ErrForbidden(domain, message string) *AppError {
	return New(CodeForbidden, domain, message, http.StatusForbidden)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(domain, message string) *AppError {
	return New(CodeConflict, domain, message, http.StatusConflict)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrInvalidStatus - фабрика для невалидных переходов статуса (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrBadRequest - фабрика для ошибки валидации входных данных (400)
func ErrBadRequest(domain, message string) *AppError {
	return New(CodeValidationFailed, domain, message, http.StatusBadRequest)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// IsUniqueViolation сообщает, является ли ошибка БД нарушением
// уникального ограничения. Проверка по тексту, потому что драйверы
// (pgx, sqlite) возвращают разные типы.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
