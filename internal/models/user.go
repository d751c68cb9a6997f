// Package models содержит доменные структуры сервиса: пользователей,
// установки, исторические отчёты и сессии, а также типы для приёма данных
// из JSON-запросов и общие ошибки бизнес-логики.
package models

import "time"

// User представляет зарегистрированного оператора системы.
type User struct {
	ID           int64     // Идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // bcrypt-хэш пароля
	CreatedAt    time.Time // Дата регистрации
}

// Session описывает активную сессию пользователя, полученную из токена.
type Session struct {
	UserID    int64
	Username  string
	TokenID   string
	Token     string
	ExpiresAt time.Time
}
