package user

import "time"

type CreateUserRequest struct {
	Username          string `json:"username,omitempty"`
	IsAdmin           bool   `json:"isAdmin,omitempty"`
	PlainTextPassword string `json:"-"`
}

// User supplies actor identity for audit attribution on every ledger and
// lifecycle mutation.
type User struct {
	ID             uint64
	Username       string
	HashedPassword string
	IsAdmin        bool
	Created        time.Time
}
