package auth

import (
	"fmt"
	"time"

	"github.com/soundbridge/directorcore/internal/config"
	"go.uber.org/zap"
)

// Roles. Admin implies operator.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Service authenticates the operator accounts defined in the config file
// and issues short-lived JWT access tokens for the REST and WebSocket
// surfaces. There is no user database; the account set is small and static.
type Service struct {
	jwtHandler *JWTHandler
	hasher     *PasswordHasher
	users      map[string]config.UserConfig
	accessTTL  time.Duration
	logger     *zap.Logger
}

func NewService(cfg config.AuthConfig, logger *zap.Logger) *Service {
	if !cfg.IsProductionReady() {
		logger.Warn("JWT secret is the development fallback; set it via environment before exposing the API")
	}

	users := make(map[string]config.UserConfig, len(cfg.Users))
	for _, u := range cfg.Users {
		users[u.Username] = u
	}

	return &Service{
		jwtHandler: NewJWTHandler(cfg.GetJWTSecret(), cfg.AccessTokenTTL),
		hasher:     NewPasswordHasher(),
		users:      users,
		accessTTL:  cfg.AccessTokenTTL,
		logger:     logger,
	}
}

// Login verifies the credentials and returns an access token plus its
// lifetime in seconds.
func (s *Service) Login(username, password string) (string, int, error) {
	user, ok := s.users[username]
	if !ok {
		// Burn a verification anyway so missing and wrong usernames take
		// the same time.
		s.hasher.VerifyPassword(password, "$argon2id$v=19$m=65536,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
		return "", 0, fmt.Errorf("invalid credentials")
	}

	ok, err := s.hasher.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", 0, fmt.Errorf("password verification failed: %w", err)
	}
	if !ok {
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return "", 0, fmt.Errorf("invalid credentials")
	}

	role := user.Role
	if role == "" {
		role = RoleOperator
	}

	token, err := s.jwtHandler.GenerateAccessToken(username, role)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, int(s.accessTTL.Seconds()), nil
}

// ValidateToken parses and validates an access token.
func (s *Service) ValidateToken(token string) (*JWTClaims, error) {
	return s.jwtHandler.ValidateAccessToken(token)
}
