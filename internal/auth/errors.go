// Package auth implements the session and token lifecycle: registration,
// login, refresh-token rotation, logout, email verification, password
// reset and the admin operations over the user collection. HTTP concerns
// stay in the handler layer; this package returns tagged errors that the
// handlers translate into status codes.
package auth

import "errors"

// The closed set of failure kinds produced by the service. Handlers match
// these with errors.Is; anything else is treated as a server error and is
// never surfaced to clients.
var (
	// ErrInvalidInput marks malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("user already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrVerificationRequired rejects logins for unverified accounts. It is
	// distinct from ErrInvalidCredentials because clients branch on it.
	ErrVerificationRequired = errors.New("email not verified")

	// ErrInvalidRefreshToken covers a missing, malformed, expired or
	// revoked refresh token, including reuse of a rotated one.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidOrExpiredToken covers verification and reset tokens that
	// fail signature, binding or expiry checks.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrAlreadyVerified rejects verification of an already verified email.
	ErrAlreadyVerified = errors.New("email already verified")

	// ErrIncorrectPassword rejects a change-password call whose current
	// password does not match.
	ErrIncorrectPassword = errors.New("current password is incorrect")

	// ErrSessionExpired means the stored refresh token is gone: the user
	// logged out (or was logged out) after the access token was issued.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound is returned when a referenced user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrSelfAction rejects admins demoting or deleting themselves.
	ErrSelfAction = errors.New("cannot perform this action on your own account")

	// ErrEmailSend reports an outbound email failure in the one flow where
	// it is fatal to the operation (password reset request).
	ErrEmailSend = errors.New("email could not be sent")
)
