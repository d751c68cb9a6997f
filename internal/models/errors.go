package models

import "errors"

// Общие ошибки бизнес-логики. Слои оборачивают их через fmt.Errorf("%w"),
// HTTP-слой сопоставляет их со статусами ответа через errors.Is.
var (
	// ErrValidation: некорректные или отсутствующие входные данные.
	ErrValidation = errors.New("validation error")
	// ErrNotFound: неизвестный идентификатор или ключ каталога.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: запись принадлежит другому пользователю.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated: нет сессии, сессия недействительна или неверные учётные данные.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrConflict: имя пользователя уже занято.
	ErrConflict = errors.New("conflict")
)
