// Package password реализует хеширование и проверку паролей пользователей.
//
// GetHash создаёт bcrypt-хеш (соль генерируется bcrypt и хранится внутри хеша).
// CompareHash сравнивает сохранённый хеш с введённым паролем.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong возвращается для паролей длиннее, чем обрабатывает bcrypt.
var ErrTooLong = errors.New("password is longer than 72 bytes")

// GetHash принимает пароль пользователя и возвращает его bcrypt-хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if len(password) > 72 {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt-хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе: ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
