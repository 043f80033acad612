package transaction

import "github.com/fastprodman/mcmmocredits/internal/user"

// Add credits every target with amount.
type Add struct {
	base
}

func (a Add) Kind() Kind { return a.kind(KindAdd) }

func (a Add) Execute() Result {
	out := make([]user.User, len(a.targets))
	for i, t := range a.targets {
		out[i] = t.WithCredits(t.Credits + a.amount)
	}

	return Result{Transaction: a, Executor: a.executor, Targets: out}
}

func (a Add) Validate(target user.User) FailureReason {
	next, ok := checkedAdd(target.Credits, a.amount)
	if !ok || next < 0 {
		return a.Kind().notEnoughCredits()
	}

	return NoFailure
}

func (a Add) ValidateTransaction() map[user.User]FailureReason { return validateAll(a) }

func (a Add) Executable() FailureReason { return firstFailure(a) }

func (a Add) MessageKey() string { return messageKey(a.Kind()) }

func (a Add) UserMessageKey() string { return a.Kind().userMessageKey() }
