package models

import "errors"

// Базовые ошибки уровня приложения. Репозитории и сервисы оборачивают их
// через fmt.Errorf("...: %w", ...), а обработчики сопоставляют errors.Is
// со статус-кодом ответа.
var (
	ErrValidation   = errors.New("неверные данные")
	ErrUnauthorized = errors.New("требуется авторизация")
	ErrForbidden    = errors.New("доступ запрещен")
	ErrNotFound     = errors.New("не найдено")
	ErrConflict     = errors.New("уже существует")
)
