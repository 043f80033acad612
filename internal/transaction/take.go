package transaction

import "github.com/fastprodman/mcmmocredits/internal/user"

// Take debits every target by amount.
type Take struct {
	base
}

func (t Take) Kind() Kind { return t.kind(KindTake) }

func (t Take) Execute() Result {
	out := make([]user.User, len(t.targets))
	for i, target := range t.targets {
		out[i] = target.WithCredits(target.Credits - t.amount)
	}

	return Result{Transaction: t, Executor: t.executor, Targets: out}
}

func (t Take) Validate(target user.User) FailureReason {
	next, ok := checkedSub(target.Credits, t.amount)
	if !ok || next < 0 {
		return t.Kind().notEnoughCredits()
	}

	return NoFailure
}

func (t Take) ValidateTransaction() map[user.User]FailureReason { return validateAll(t) }

func (t Take) Executable() FailureReason { return firstFailure(t) }

func (t Take) MessageKey() string { return messageKey(t.Kind()) }

func (t Take) UserMessageKey() string { return t.Kind().userMessageKey() }
