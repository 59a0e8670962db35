package auth

import (
	"context"
	"time"

	"github.com/iliyamo/user-auth-api/internal/model"
	"github.com/iliyamo/user-auth-api/internal/queue"
)

// UserStore is the persistence contract the service depends on. It is
// satisfied by repository.UserRepo; tests substitute an in-memory fake.
// The conditional operations (Rotate/Consume*) must be atomic per row and
// report via their boolean whether the caller's precondition still held.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)

	SetRefreshToken(ctx context.Context, id uint64, token string) error
	RotateRefreshToken(ctx context.Context, id uint64, presented, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, id uint64) error

	SetVerificationToken(ctx context.Context, id uint64, token string, expire time.Time) error
	ConsumeVerificationToken(ctx context.Context, id uint64, email, token string, now time.Time) (bool, error)

	SetResetToken(ctx context.Context, id uint64, token string, expire time.Time) error
	ClearResetToken(ctx context.Context, id uint64) error
	ConsumeResetToken(ctx context.Context, id uint64, email, token, newHash string, now time.Time) (bool, error)

	UpdatePassword(ctx context.Context, id uint64, newHash string) error
	UpdateRole(ctx context.Context, id uint64, role string) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]model.User, error)
	CountAll(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	CountCreatedSince(ctx context.Context, t time.Time) (int64, error)
}

// EmailSender is the outbound mail contract. Implementations must be safe
// for concurrent use; the service calls them from request goroutines and
// from fire-and-forget goroutines alike.
type EmailSender interface {
	SendVerification(ctx context.Context, to, token string) error
	ResendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
	SendWelcome(ctx context.Context, to, name string) error
}

// EventPublisher emits auth domain events to the message broker. Publishing
// is always best effort; the service logs failures and moves on.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.AuthEvent) error
}

// Config carries the token secrets, lifetimes and hashing cost the service
// needs. Values come from the application config at wiring time.
type Config struct {
	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	VerificationTTL  time.Duration
	ResetTTL         time.Duration
	BcryptCost       int
}

// TokenPair bundles a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is returned by Login and carries everything the HTTP layer
// needs: the body payload plus the refresh token destined for the cookie.
type LoginResult struct {
	User model.Profile
	TokenPair
}
