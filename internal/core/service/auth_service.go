package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// AuthService implements the full token lifecycle: signup, login, token
// verification, and the password reset and change flows.
type AuthService struct {
	users     ports.UserRepository
	mailer    ports.Mailer
	limiter   ports.ResetRateLimiter
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, mailer ports.Mailer, limiter ports.ResetRateLimiter, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		mailer:    mailer,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Signup creates the account, queues the welcome mail and issues a session
// token.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput, welcomeURL string) (string, *domain.User, error) {
	user := &domain.User{
		Name:  in.Name,
		Email: in.Email,
	}
	if err := user.SetPassword(in.Password, in.PasswordConfirm, true); err != nil {
		return "", nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	if err := s.mailer.SendWelcome(ctx, created, welcomeURL); err != nil {
		s.logger.Error().Err(err).Str("email", created.Email).Msg("welcome mail failed")
	}

	token, err := s.signToken(created)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("email", created.Email).Msg("user signed up")
	return token, created, nil
}

// Login verifies the credentials and issues a token. Unknown email and
// wrong password produce the same generic error so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.BadRequest("Please provide Email & Password!")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.CorrectPassword(password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate verifies a bearer token and resolves it to a live user.
// Failure kinds are distinct: expired token, invalid token, user gone, and
// stale token (password changed after the token was issued).
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, domain.ErrUserGone
		}
		return nil, err
	}

	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, domain.ErrStaleToken
	}
	return user, nil
}

// ForgotPassword generates a reset token, persists only its hash and mails
// the plaintext. When delivery fails, the token fields are cleared again so
// no orphaned credential stays behind.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.logger.Error().Err(err).Msg("reset limiter unavailable")
		} else if !ok {
			return domain.ErrTooManyResetRequests
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := user.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	resetURL := resetURLBase + "/api/v1/users/resetPassword/" + token
	if err := s.mailer.SendPasswordReset(ctx, user, resetURL); err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("reset mail failed")
		user.ClearResetToken()
		if saveErr := s.users.Save(ctx, user); saveErr != nil {
			s.logger.Error().Err(saveErr).Msg("reset token cleanup failed")
		}
		return domain.ErrMailDelivery
	}
	return nil
}

// ResetPassword trades a valid, unexpired reset token for a new password
// and a fresh session token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) (string, *domain.User, error) {
	user, err := s.users.FindByResetToken(ctx, domain.HashResetToken(token))
	if err != nil {
		return "", nil, err
	}

	if err := user.SetPassword(password, confirm, false); err != nil {
		return "", nil, err
	}
	user.ClearResetToken()
	if err := s.users.Save(ctx, user); err != nil {
		return "", nil, err
	}

	signed, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

// UpdatePassword requires the caller's current password before accepting a
// new one, then re-issues the session token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, password, confirm string) (string, *domain.User, error) {
	user, err := s.users.FindByIDWithPassword(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if !user.CorrectPassword(current) {
		return "", nil, domain.ErrWrongPassword
	}

	if err := user.SetPassword(password, confirm, false); err != nil {
		return "", nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return "", nil, err
	}

	signed, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

// TokenTTL exposes the session lifetime for cookie expiry alignment.
func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }

func (s *AuthService) signToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
