package domain

import "time"

type Account struct {
	ID           string
	DisplayName  string
	PasswordHash string // argon2id (or legacy bcrypt) encoded
	Email        string
	Role         Role
	Status       Status
	Provider     string     // Foreign key to providers table
	CreatedAt    time.Time  // Set once at creation
	LastLoginAt  *time.Time // nil only for an admin that has never logged in
}

// MustChangePassword reports whether the account is an administrator that
// has never logged in. Such accounts may not log in until their password is
// changed.
func (a Account) MustChangePassword() bool {
	return a.Role == RoleAdmin && a.LastLoginAt == nil
}

// InactiveSince reports whether the account last logged in strictly before cutoff.
func (a Account) InactiveSince(cutoff time.Time) bool {
	return a.LastLoginAt != nil && a.LastLoginAt.Before(cutoff)
}

// View strips credentials from the account.
func (a Account) View() AccountView {
	v := AccountView{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        a.Role,
		Status:      a.Status,
		Provider:    a.Provider,
		CreatedAt:   a.CreatedAt,
	}
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		v.LastLoginAt = &t
	}
	return v
}

// AccountView is the externally visible projection of an Account. It is what
// the read cache stores.
type AccountView struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Status      Status     `json:"status"`
	Provider    string     `json:"provider"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// AccountRole is the result of a role lookup for a single account.
type AccountRole struct {
	AccountID string `json:"accountId"`
	Role      Role   `json:"role"`
}
