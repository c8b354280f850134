package identity

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. The credit balance itself is owned
// by the credit ledger; this model only carries identity and role.
type User struct {
	ID           string
	Email        string
	Role         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials request structure.
type Credentials struct {
	Email    string
	Password string
}
