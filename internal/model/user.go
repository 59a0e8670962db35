package model

import "time"

// Role values stored in the users.role column.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool { return s == RoleUser || s == RoleAdmin }

// User mirrors a row of the `users` table. The refresh token column holds
// the single currently valid refresh token for the account; NULL means the
// user has no live session. The verification and reset token columns are
// populated only while the corresponding email cycle is pending, and each
// is always written and cleared together with its expiry.
//
// Fields:
//
//	ID                      – primary key identifier.
//	Name                    – display name.
//	Email                   – unique, stored lowercased.
//	PasswordHash            – bcrypt hash of the password.
//	Role                    – "user" or "admin".
//	IsVerified              – whether the email address was confirmed.
//	RefreshToken            – users.refresh_token (nullable).
//	VerificationToken       – users.verification_token (nullable).
//	VerificationTokenExpire – users.verification_token_expire (nullable).
//	ResetPasswordToken      – users.reset_password_token (nullable).
//	ResetPasswordExpire     – users.reset_password_expire (nullable).
//	CreatedAt               – timestamp of creation, immutable.
type User struct {
	ID                      uint64
	Name                    string
	Email                   string
	PasswordHash            string
	Role                    string
	IsVerified              bool
	RefreshToken            *string
	VerificationToken       *string
	VerificationTokenExpire *time.Time
	ResetPasswordToken      *string
	ResetPasswordExpire     *time.Time
	CreatedAt               time.Time
}

// Profile is the sanitized view of a user returned by the API. Password
// hashes and token material never leave the repository layer through it.
type Profile struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile builds the sanitized view of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
