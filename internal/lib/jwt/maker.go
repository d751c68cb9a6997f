// Package jwt реализует выпуск и разбор подписанных токенов сессии.
//
// Maker определяет интерфейс для создания и проверки токенов, MakerImpl :
// реализация на HS256 с секретным ключом и временем жизни токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов сессии.
type Maker interface {
	// GenerateToken выпускает токен для пользователя и возвращает его вместе с claims.
	GenerateToken(userID int64, username string) (string, *CustomClaims, error)
	// ParseToken проверяет подпись и срок действия токена.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
