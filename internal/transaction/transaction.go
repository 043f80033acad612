// Package transaction computes balance changes over user snapshots without
// touching storage.
package transaction

import (
	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/skills"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

//go:generate mockgen -destination=./mocks/progression_mock.go -package=mocks github.com/fastprodman/mcmmocredits/internal/transaction Progression

// Progression is the external skill system consulted and updated by redeem
// transactions.
type Progression interface {
	SkillLevel(id uuid.UUID, skill skills.Skill) int
	LevelCap(skill skills.Skill) int
	AddLevels(id uuid.UUID, skill skills.Skill, amount int)
	IsProfileLoaded(id uuid.UUID) bool
}

// Transaction is implemented only by Add, Set, Take, Pay and Redeem.
type Transaction interface {
	Kind() Kind
	Executor() user.Executor
	Targets() []user.User
	Amount() int

	// Execute returns the balances after the transaction. It must only be
	// called on targets that validate.
	Execute() Result
	// Validate predicts whether Execute would be legal for one target.
	Validate(target user.User) FailureReason
	// ValidateTransaction validates every target.
	ValidateTransaction() map[user.User]FailureReason
	// Executable is the first failure over all targets, if any.
	Executable() FailureReason
	IsSelfTransaction() bool

	MessageKey() string
	UserMessageKey() string

	sealed()
}

type base struct {
	executor user.Executor
	targets  []user.User
	amount   int
	multi    bool
}

func newBase(executor user.Executor, targets []user.User, amount int) base {
	return base{
		executor: executor,
		targets:  append([]user.User(nil), targets...),
		amount:   amount,
		multi:    len(targets) > 1,
	}
}

func (b base) Executor() user.Executor { return b.executor }

func (b base) Targets() []user.User { return append([]user.User(nil), b.targets...) }

func (b base) Amount() int { return b.amount }

func (b base) IsSelfTransaction() bool {
	exec, ok := b.executor.AsUser()
	if !ok || len(b.targets) != 1 {
		return false
	}

	return exec.ID == b.targets[0].ID
}

func (b base) kind(single Kind) Kind {
	if b.multi {
		return single.All()
	}

	return single
}

func (b base) narrow(targets []user.User) base {
	n := b
	n.targets = append([]user.User(nil), targets...)

	return n
}

func (base) sealed() {}

func validateAll(tx Transaction) map[user.User]FailureReason {
	out := make(map[user.User]FailureReason, len(tx.Targets()))
	for _, t := range tx.Targets() {
		out[t] = tx.Validate(t)
	}

	return out
}

func firstFailure(tx Transaction) FailureReason {
	for _, t := range tx.Targets() {
		if f := tx.Validate(t); f.Failed() {
			return f
		}
	}

	return NoFailure
}

func messageKey(k Kind) string { return "credits-" + k.String() }

// WithTargets returns a copy of tx restricted to targets. The copy keeps the
// original's single or many-targets form so its message keys do not change.
func WithTargets(tx Transaction, targets []user.User) Transaction {
	switch t := tx.(type) {
	case Add:
		return Add{base: t.narrow(targets)}
	case Set:
		return Set{base: t.narrow(targets)}
	case Take:
		return Take{base: t.narrow(targets)}
	case Pay:
		return Pay{base: t.narrow(targets)}
	case Redeem:
		return Redeem{base: t.narrow(targets), skill: t.skill, progression: t.progression}
	default:
		panic("transaction: unknown variant")
	}
}
