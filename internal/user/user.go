package user

import (
	"strings"

	"github.com/google/uuid"
)

// User is an immutable snapshot of a player's balance record.
// Updates produce a new value via the With* methods.
type User struct {
	ID       uuid.UUID
	Username string
	Credits  int
	Redeemed int
}

// New returns the record created on a player's first contact.
func New(id uuid.UUID, username string) User {
	return User{ID: id, Username: username}
}

func (u User) WithCredits(credits int) User {
	u.Credits = credits
	return u
}

func (u User) WithRedeemed(redeemed int) User {
	u.Redeemed = redeemed
	return u
}

func (u User) WithUsername(username string) User {
	u.Username = username
	return u
}

// SameName reports whether name matches the username, ignoring case.
func (u User) SameName(name string) bool {
	return strings.EqualFold(u.Username, name)
}

func (u User) Name() string { return u.Username }

func (u User) IsPlayer() bool { return true }

func (u User) AsUser() (User, bool) { return u, true }

func (User) executor() {}
