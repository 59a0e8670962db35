package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/user-auth-api/internal/model"
)

// ErrEmailExists is returned by Create when the email column's unique
// index rejects the insert.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a lookup matches no user.
var ErrNotFound = errors.New("user not found")

const userColumns = `id,name,email,password_hash,role,is_verified,refresh_token,
	verification_token,verification_token_expire,reset_password_token,reset_password_expire,created_at`

// UserRepo owns all access to the `users` table. Token state transitions
// (rotation, consumption) are expressed as single conditional UPDATEs so
// that concurrent requests race on the database row, not in process: the
// statement's affected-row count tells the caller whether it won.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts an unverified user and returns its id.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, is_verified) VALUES (?,?,?,?,0)",
		name, email, passwordHash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetRefreshToken returns the stored refresh token for a user, or nil when
// the user has no live session. Used by the session-liveness middleware.
func (r *UserRepo) GetRefreshToken(ctx context.Context, id uint64) (*string, error) {
	var tok sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT refresh_token FROM users WHERE id=? LIMIT 1", id).Scan(&tok)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, nil
	}
	return &tok.String, nil
}

// GetRole returns the stored role for a user. The role gate re-reads it on
// every request instead of trusting the token claims.
func (r *UserRepo) GetRole(ctx context.Context, id uint64) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM users WHERE id=? LIMIT 1", id).Scan(&role)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return role, err
}

// SetRefreshToken stores a new refresh token, overwriting any previous
// session. Last writer wins; a single session per user is intentional.
func (r *UserRepo) SetRefreshToken(ctx context.Context, id uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", token, id)
	return err
}

// RotateRefreshToken replaces the stored refresh token only if it still
// equals the presented one. It returns false when the stored value was
// cleared (logout) or already rotated, which makes refresh-token reuse a
// hard failure: of two concurrent refreshes presenting the same token, at
// most one can see a row affected.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, id uint64, presented, next string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=? AND refresh_token=?",
		next, id, presented)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ClearRefreshToken ends the user's session. Safe to call repeatedly.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=NULL WHERE id=?", id)
	return err
}

// SetVerificationToken stores a fresh verification token and its expiry,
// overwriting any pending one (the old token becomes unusable).
func (r *UserRepo) SetVerificationToken(ctx context.Context, id uint64, token string, expire time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET verification_token=?, verification_token_expire=? WHERE id=?",
		token, expire.UTC(), id)
	return err
}

// ConsumeVerificationToken marks the user verified and clears the token
// fields, constrained by id, email, stored-token equality, unexpired
// expiry and the unverified state all in one statement. Returns false if
// no row matched, i.e. the token was already consumed, rotated or expired.
func (r *UserRepo) ConsumeVerificationToken(ctx context.Context, id uint64, email, token string, now time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET is_verified=1, verification_token=NULL, verification_token_expire=NULL
		 WHERE id=? AND email=? AND verification_token=? AND verification_token_expire>? AND is_verified=0`,
		id, email, token, now.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetResetToken stores a password-reset token and its expiry.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, token string, expire time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_password_token=?, reset_password_expire=? WHERE id=?",
		token, expire.UTC(), id)
	return err
}

// ClearResetToken removes a pending reset token and its expiry together.
// Used to roll back when the reset email could not be sent.
func (r *UserRepo) ClearResetToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_password_token=NULL, reset_password_expire=NULL WHERE id=?", id)
	return err
}

// ConsumeResetToken writes the new password hash, clears the reset fields
// and kills the live session in one conditional statement. The id, email,
// stored-token equality and unexpired expiry constraints close the window
// between token verification and use. Returns false if no row matched.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, id uint64, email, token, newHash string, now time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, reset_password_token=NULL, reset_password_expire=NULL, refresh_token=NULL
		 WHERE id=? AND email=? AND reset_password_token=? AND reset_password_expire>?`,
		newHash, id, email, token, now.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// UpdatePassword stores a new password hash and clears the refresh token:
// any password change invalidates the live session.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, newHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, refresh_token=NULL WHERE id=?", newHash, id)
	return err
}

// UpdateRole changes a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE id=?", role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user row permanently.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountAll returns the total number of users.
func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "SELECT COUNT(*) FROM users")
}

// CountByRole returns the number of users holding a role.
func (r *UserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	return r.countWhere(ctx, "SELECT COUNT(*) FROM users WHERE role=?", role)
}

// CountCreatedSince returns the number of users registered at or after t.
func (r *UserRepo) CountCreatedSince(ctx context.Context, t time.Time) (int64, error) {
	return r.countWhere(ctx, "SELECT COUNT(*) FROM users WHERE created_at>=?", t.UTC())
}

func (r *UserRepo) countWhere(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u          model.User
		refresh    sql.NullString
		verifTok   sql.NullString
		verifExp   sql.NullTime
		resetTok   sql.NullString
		resetExp   sql.NullTime
		isVerified bool
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &isVerified,
		&refresh, &verifTok, &verifExp, &resetTok, &resetExp, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.IsVerified = isVerified
	if refresh.Valid {
		u.RefreshToken = &refresh.String
	}
	if verifTok.Valid {
		u.VerificationToken = &verifTok.String
	}
	if verifExp.Valid {
		t := verifExp.Time
		u.VerificationTokenExpire = &t
	}
	if resetTok.Valid {
		u.ResetPasswordToken = &resetTok.String
	}
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetPasswordExpire = &t
	}
	return u, nil
}
