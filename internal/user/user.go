package user

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	APIKey       string    `json:"api_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

var (
	ErrUserNotFound  = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken    = internal.NewValidationError("User email already exists", internal.ErrCodeEmailTaken)
	ErrUsernameTaken = internal.NewValidationError("Username already exists", internal.ErrCodeUsernameTaken)
)

// GenerateAPIKey returns 32 random bytes as 64 hex characters.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func ToDataModel(u *User) *userDatamodel.User {
	dm := &userDatamodel.User{
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
	}
	dm.ID = u.ID
	dm.CreatedAt = u.CreatedAt
	dm.UpdatedAt = u.UpdatedAt
	if u.APIKey != "" {
		key := u.APIKey
		dm.APIKey = &key
	}
	return dm
}

func FromDataModel(u *userDatamodel.User) *User {
	out := &User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.APIKey != nil {
		out.APIKey = *u.APIKey
	}
	return out
}
