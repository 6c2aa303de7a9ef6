package identity

import (
	"time"

	"github.com/google/uuid"
)

// AccountType tags a user with their care profile.
type AccountType string

const (
	AccountTypePregnant  AccountType = "pregnant"
	AccountTypePostnatal AccountType = "postnatal"
	AccountTypeGeneral   AccountType = "general"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypePregnant, AccountTypePostnatal, AccountTypeGeneral:
		return true
	}
	return false
}

// User maps to the users table.
type User struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	Username       string      `db:"username" json:"username"`
	Email          string      `db:"email" json:"email"`
	FullName       string      `db:"full_name" json:"full_name"`
	AccountType    AccountType `db:"account_type" json:"account_type"`
	HashedPassword string      `db:"hashed_password" json:"-"`
	Active         bool        `db:"active" json:"active"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}
