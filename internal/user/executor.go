package user

import "github.com/google/uuid"

// ConsoleName is the display name of the server console.
const ConsoleName = "CONSOLE"

// Executor is whoever initiated a transaction: a player-backed User or the
// Console. The set is closed; only this package provides implementations.
type Executor interface {
	Name() string
	IsPlayer() bool
	// AsUser returns the player record behind the executor.
	// The console has none and returns false.
	AsUser() (User, bool)

	executor()
}

type console struct{}

// Console is the single non-player executor. It has no balance and its
// identity is uuid.Nil.
var Console Executor = console{}

func (console) Name() string { return ConsoleName }

func (console) IsPlayer() bool { return false }

func (console) AsUser() (User, bool) { return User{}, false }

func (console) executor() {}

// ExecutorID returns the executor's identity, uuid.Nil for the console.
func ExecutorID(e Executor) uuid.UUID {
	u, ok := e.AsUser()
	if !ok {
		return uuid.Nil
	}

	return u.ID
}
