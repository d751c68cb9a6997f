package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomClaims описывает данные сессии, хранящиеся в токене.
// Идентификатор токена (ID) используется для отзыва при выходе.
type CustomClaims struct {
	UserID               int64  `json:"uid"`
	Username             string `json:"username"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, ID
}

// GenerateToken создаёт токен с идентификатором пользователя и уникальным ID,
// подписывая его секретным ключом.
func (j *MakerImpl) GenerateToken(userID int64, username string) (string, *CustomClaims, error) {
	const op = "jwt.GenerateToken"
	now := time.Now()
	claims := &CustomClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return signed, claims, nil
}

// ParseToken парсит токен, проверяет алгоритм, подпись и срок действия.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, fmt.Errorf("%s: token has no session id", op)
	}
	return claims, nil
}
