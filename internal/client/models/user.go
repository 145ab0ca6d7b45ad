package models

import "time"

// User is an account known to the server. Email is fixed at registration.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// DisplayName returns the name, falling back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields. Email is deliberately
// absent: it cannot be changed after registration.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

// Credentials is a login pair.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StoredCredential is the session credential persisted between runs.
type StoredCredential struct {
	Token  string
	UserID string

	// SavedAt is set on load; Save ignores it.
	SavedAt time.Time
}
