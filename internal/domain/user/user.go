package user

import "time"

// Roles assignable to a platform account.
const (
	RoleParent       = "parent"
	RoleAdmin        = "admin"
	RoleProfessional = "professional"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Reset fields are set together by forgot-password and cleared
	// together by reset-password. The plaintext token is never stored.
	ResetTokenHash    *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleParent, RoleAdmin, RoleProfessional:
		return true
	}
	return false
}
