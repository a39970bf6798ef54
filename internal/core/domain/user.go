package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User roles.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

const (
	passwordHashCost = 12
	resetTokenTTL    = 10 * time.Minute
)

// User models an account. Password holds the bcrypt hash once persisted and
// is never serialized; PasswordConfirm exists only in memory at
// creation/change time.
type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name" validate:"required,max=30"`
	Email           string             `json:"email" bson:"email" validate:"required,email"`
	Photo           string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role            string             `json:"role" bson:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	Password        string             `json:"-" bson:"password" validate:"required,min=8"`
	PasswordConfirm string             `json:"-" bson:"-"`

	PasswordChangedAt time.Time `json:"-" bson:"passwordChangedAt,omitempty"`
	PasswordResetHash string    `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExp  time.Time `json:"-" bson:"passwordTokenExpiresAt,omitempty"`

	Active    bool      `json:"-" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SetID is called by the repository after insertion.
func (u *User) SetID(id primitive.ObjectID) { u.ID = id }

// Normalize fills defaults before validation.
func (u *User) Normalize() error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Photo == "" {
		u.Photo = "default.jpg"
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	// Only brand-new accounts (no id yet) default to active; normalizing a
	// stored document must not undo a soft delete.
	if u.ID.IsZero() {
		u.Active = true
	}
	return nil
}

// Validate checks field constraints. PasswordConfirm equality is enforced
// separately by SetPassword, only at create/change time.
func (u *User) Validate() error {
	return runValidation(u)
}

// SetPassword verifies the confirmation, hashes the new password and clears
// the confirm field. When the user already exists, the changed-at stamp is
// backdated one second so tokens issued in the same instant stay valid.
func (u *User) SetPassword(password, confirm string, isNew bool) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	u.Password = password
	u.PasswordConfirm = ""
	if err := runValidation(u); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	if !isNew {
		u.PasswordChangedAt = time.Now().UTC().Add(-time.Second)
	}
	return nil
}

// CorrectPassword compares a candidate password against the stored hash.
func (u *User) CorrectPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}

// ChangedPasswordAfter reports whether the password changed after the given
// token issue time.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// NewResetToken generates a single-use reset token. Only the SHA-256 hex of
// the token is stored; the plaintext is returned for delivery by mail.
func (u *User) NewResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	u.PasswordResetHash = HashResetToken(token)
	u.PasswordResetExp = time.Now().UTC().Add(resetTokenTTL)
	return token, nil
}

// ClearResetToken drops the persisted reset token fields.
func (u *User) ClearResetToken() {
	u.PasswordResetHash = ""
	u.PasswordResetExp = time.Time{}
}

// HashResetToken maps a plaintext reset token to its persisted form.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// UserBaseFilter excludes soft-deleted users from every default query.
func UserBaseFilter() bson.M {
	return bson.M{"active": bson.M{"$ne": false}}
}
