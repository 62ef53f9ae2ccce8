package domain

import "time"

// Role is the closed set of privilege levels an account can hold.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the two defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account models a registered principal. The ID is allocated at creation and
// never changes; Username and Email are unique across all accounts.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Suspended    bool      `json:"suspended"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountUpdate carries a partial update. A nil field is left untouched.
// Password, when present, is the new plaintext and must be hashed before
// it reaches the directory.
type AccountUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// Empty reports whether the update would change nothing.
func (u AccountUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil
}

// TokenPair is the credential pair handed out at registration and login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
