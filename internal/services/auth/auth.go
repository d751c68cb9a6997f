// Package auth содержит логику регистрации, входа и выхода операторов,
// а также проверку токена сессии для каждого запроса.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/jwt"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/password"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByUsername возвращает пользователя по имени или ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionStore хранит отозванные при выходе токены.
type SessionStore interface {
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Service отвечает за регистрацию, вход, выход и проверку сессий.
type Service struct {
	users    UserRepository
	sessions SessionStore
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, sessions SessionStore, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создаёт пользователя с bcrypt-хэшем пароля.
func (s *Service) Register(ctx context.Context, username, rawPassword, confirm string) (int64, error) {
	const op = "auth.Register"

	username = strings.TrimSpace(username)
	if username == "" || rawPassword == "" {
		return 0, fmt.Errorf("%s: %w: username and password are required", op, models.ErrValidation)
	}
	if rawPassword != confirm {
		return 0, fmt.Errorf("%s: %w: passwords do not match", op, models.ErrValidation)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return 0, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.users.CreateUser(ctx, models.User{Username: username, PasswordHash: hashed})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.Int64("user_id", id), slog.String("username", username))
	return id, nil
}

// Login проверяет учётные данные и выпускает токен сессии. Неизвестное имя
// и неверный пароль дают одну и ту же ошибку ErrUnauthenticated.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (*models.Session, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w: invalid credentials", op, models.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w: invalid credentials", op, models.ErrUnauthenticated)
	}

	token, claims, err := s.jwtMaker.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.Int64("user_id", user.ID))
	return sessionFromClaims(token, claims), nil
}

// Logout отзывает токен до окончания срока его действия.
func (s *Service) Logout(ctx context.Context, session *models.Session) error {
	const op = "auth.Logout"

	if session == nil || session.TokenID == "" {
		return fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}
	if err := s.sessions.RevokeSession(ctx, session.TokenID, time.Until(session.ExpiresAt)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged out", slog.Int64("user_id", session.UserID))
	return nil
}

// Authenticate проверяет подпись, срок действия и отзыв токена.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthenticated, err)
	}

	revoked, err := s.sessions.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w: session revoked", op, models.ErrUnauthenticated)
	}

	return sessionFromClaims(token, claims), nil
}

func sessionFromClaims(token string, claims *jwt.CustomClaims) *models.Session {
	session := &models.Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		TokenID:  claims.ID,
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}
