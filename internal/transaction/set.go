package transaction

import "github.com/fastprodman/mcmmocredits/internal/user"

// Set replaces every target's balance with amount.
type Set struct {
	base
}

func (s Set) Kind() Kind { return s.kind(KindSet) }

func (s Set) Execute() Result {
	out := make([]user.User, len(s.targets))
	for i, t := range s.targets {
		out[i] = t.WithCredits(s.amount)
	}

	return Result{Transaction: s, Executor: s.executor, Targets: out}
}

func (s Set) Validate(user.User) FailureReason {
	if s.amount < 0 || !inRange(s.amount) {
		return s.Kind().notEnoughCredits()
	}

	return NoFailure
}

func (s Set) ValidateTransaction() map[user.User]FailureReason { return validateAll(s) }

func (s Set) Executable() FailureReason { return firstFailure(s) }

func (s Set) MessageKey() string { return messageKey(s.Kind()) }

func (s Set) UserMessageKey() string { return s.Kind().userMessageKey() }
