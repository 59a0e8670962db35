package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/iliyamo/user-auth-api/internal/model"
	"github.com/iliyamo/user-auth-api/internal/queue"
	"github.com/iliyamo/user-auth-api/internal/repository"
	"github.com/iliyamo/user-auth-api/internal/utils"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// Service is the session/token lifecycle manager. All state lives in the
// user store; the service orchestrates token minting, binding and
// invalidation against it.
type Service struct {
	users  UserStore
	email  EmailSender
	events EventPublisher
	cfg    Config
}

// NewService wires the lifecycle manager with its collaborators.
func NewService(users UserStore, email EmailSender, events EventPublisher, cfg Config) *Service {
	return &Service{users: users, email: email, events: events, cfg: cfg}
}

// Register creates an unverified account and kicks off the verification
// cycle. The verification token is minted after the insert so it is bound
// to the real assigned id. The email send and the event publish are fire
// and forget: their failure never fails registration.
func (s *Service) Register(ctx context.Context, name, email, password string) (model.Profile, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return model.Profile{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return model.Profile{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(password) < 8 {
		return model.Profile{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return model.Profile{}, err
	}

	id, err := s.users.Create(ctx, name, email, hash, model.RoleUser)
	if err != nil {
		if isDuplicateEmail(err) {
			return model.Profile{}, ErrDuplicateEmail
		}
		return model.Profile{}, err
	}

	token, err := utils.NewVerificationToken(s.cfg.JWTSecret, id, email, s.cfg.VerificationTTL)
	if err != nil {
		return model.Profile{}, err
	}
	expire := time.Now().UTC().Add(s.cfg.VerificationTTL)
	if err := s.users.SetVerificationToken(ctx, id, token, expire); err != nil {
		return model.Profile{}, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.email.SendVerification(ctx, email, token); err != nil {
			log.Printf("auth: verification email to %s failed: %v", email, err)
		}
	}()
	s.publish(queue.NewAuthEvent(queue.EventUserRegistered, id, email))

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}
	return u.Profile(), nil
}

// Login authenticates a verified user and issues a fresh token pair. The
// stored refresh token is overwritten, so any prior session dies here:
// one live session per user, by construction.
//
// Unknown email and wrong password collapse into the same error; an
// unverified account gets its own signal because clients branch on it.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return LoginResult{}, ErrVerificationRequired
	}

	pair, err := s.mintPair(u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: u.Profile(), TokenPair: pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// stored token. The conditional store update is the revocation mechanism:
// when the stored value was cleared by logout or already replaced by a
// concurrent refresh, the presented token loses even though its signature
// is still good.
func (s *Service) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	id, err := utils.ParseRefreshToken(s.cfg.JWTRefreshSecret, presented)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	pair, err := s.mintPair(id)
	if err != nil {
		return TokenPair{}, err
	}
	ok, err := s.users.RotateRefreshToken(ctx, id, presented, pair.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	return pair, nil
}

// Logout clears the stored refresh token, invalidating the session for
// every holder of any refresh token, rotated or not. Idempotent.
func (s *Service) Logout(ctx context.Context, userID uint64) error {
	return s.users.ClearRefreshToken(ctx, userID)
}

// VerifyEmail consumes a verification token. Binding is re-checked against
// the stored row (id, email, token equality, unexpired) in one conditional
// update so a token rotated or cleared after signature verification still
// fails. A repeated call on an already verified account reports that
// explicitly.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	id, email, err := utils.ParseVerificationToken(s.cfg.JWTSecret, token)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	if u.Email != email {
		return ErrInvalidOrExpiredToken
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}

	ok, err := s.users.ConsumeVerificationToken(ctx, id, email, token, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpiredToken
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.email.SendWelcome(ctx, u.Email, u.Name); err != nil {
			log.Printf("auth: welcome email to %s failed: %v", u.Email, err)
		}
	}()
	s.publish(queue.NewAuthEvent(queue.EventUserVerified, id, email))
	return nil
}

// ResendVerification mints a fresh verification token for an unverified
// account, overwriting (and thereby revoking) any pending one. Unknown
// emails succeed silently so the endpoint cannot be used for enumeration.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil // do not reveal whether the email exists
		}
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}

	token, err := utils.NewVerificationToken(s.cfg.JWTSecret, u.ID, u.Email, s.cfg.VerificationTTL)
	if err != nil {
		return err
	}
	expire := time.Now().UTC().Add(s.cfg.VerificationTTL)
	if err := s.users.SetVerificationToken(ctx, u.ID, token, expire); err != nil {
		return err
	}
	if err := s.email.ResendVerification(ctx, u.Email, token); err != nil {
		return ErrEmailSend
	}
	return nil
}

// ForgotPassword starts a reset cycle. Unknown emails succeed silently.
// The send is synchronous here: if the email cannot go out, the persisted
// token fields are rolled back so a dead token never lingers.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil // indistinguishable from the success case
		}
		return err
	}

	token, err := utils.NewResetToken(s.cfg.JWTSecret, u.ID, u.Email, s.cfg.ResetTTL)
	if err != nil {
		return err
	}
	expire := time.Now().UTC().Add(s.cfg.ResetTTL)
	if err := s.users.SetResetToken(ctx, u.ID, token, expire); err != nil {
		return err
	}

	if err := s.email.SendPasswordReset(ctx, u.Email, token); err != nil {
		if clearErr := s.users.ClearResetToken(ctx, u.ID); clearErr != nil {
			log.Printf("auth: reset token rollback for user %d failed: %v", u.ID, clearErr)
		}
		return ErrEmailSend
	}
	return nil
}

// ResetPassword consumes a reset token. The store applies the new hash,
// clears the reset fields and kills the live session in one conditional
// statement keyed on id, email, token equality and unexpired expiry; every
// existing session is forced to log in again.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	id, email, err := utils.ParseResetToken(s.cfg.JWTSecret, token)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	ok, err := s.users.ConsumeResetToken(ctx, id, email, token, hash, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpiredToken
	}
	s.publish(queue.NewAuthEvent(queue.EventPasswordReset, id, email))
	return nil
}

// ChangePassword verifies the caller's current password and stores a new
// hash. The stored refresh token is cleared as well: any password change
// invalidates the live session, same as a reset.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, current, newPassword string) error {
	if current == "" {
		return fmt.Errorf("%w: current password is required", ErrInvalidInput)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return ErrIncorrectPassword
	}

	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// CurrentUser returns the sanitized profile for /me.
func (s *Service) CurrentUser(ctx context.Context, userID uint64) (model.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, err
	}
	return u.Profile(), nil
}

func (s *Service) mintPair(userID uint64) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, userID, s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.JWTRefreshSecret, userID, s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// publish emits an event without blocking the request path. The publisher
// already logs its own failures.
func (s *Service) publish(ev queue.AuthEvent) {
	if s.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.events.Publish(ctx, ev)
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Store implementations signal these conditions with the repository
// sentinels; fakes in tests return the same values.
func isDuplicateEmail(err error) bool { return errors.Is(err, repository.ErrEmailExists) }

func isNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }
