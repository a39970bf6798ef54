package ports

import (
	"context"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

// SignupInput carries the only fields signup accepts from the request body.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// AuthService drives the token lifecycle: anonymous → authenticated →
// authenticated-stale (token predating a password change).
type AuthService interface {
	Signup(ctx context.Context, in SignupInput, welcomeURL string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	ForgotPassword(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, token, password, confirm string) (string, *domain.User, error)
	UpdatePassword(ctx context.Context, userID, current, password, confirm string) (string, *domain.User, error)
}

// Mailer is the outbound notification collaborator.
type Mailer interface {
	SendWelcome(ctx context.Context, to *domain.User, url string) error
	SendPasswordReset(ctx context.Context, to *domain.User, resetURL string) error
}

// PaymentProvider creates a hosted checkout session for a tour purchase.
type PaymentProvider interface {
	CheckoutSession(ctx context.Context, tour *domain.Tour, user *domain.User) (*CheckoutSession, error)
}

// CheckoutSession is the subset of the provider session the API exposes.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ResetRateLimiter throttles password-reset requests per email address.
type ResetRateLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}
