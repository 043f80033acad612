package transaction

import "github.com/fastprodman/mcmmocredits/internal/user"

// Pay moves amount from the executor to a single target. The executor is
// always a player; the builder guarantees it.
type Pay struct {
	base
}

func (p Pay) Kind() Kind { return KindPay }

func (p Pay) payer() user.User {
	u, _ := p.executor.AsUser()
	return u
}

func (p Pay) Execute() Result {
	payer := p.payer()
	target := p.targets[0]

	return Result{
		Transaction: p,
		Executor:    payer.WithCredits(payer.Credits - p.amount),
		Targets:     []user.User{target.WithCredits(target.Credits + p.amount)},
	}
}

func (p Pay) Validate(target user.User) FailureReason {
	payer, ok := p.executor.AsUser()
	if !ok {
		return NotEnoughCredits
	}

	if payer.ID == target.ID {
		return SameUser
	}

	left, ok := checkedSub(payer.Credits, p.amount)
	if !ok || left < 0 {
		return NotEnoughCredits
	}

	received, ok := checkedAdd(target.Credits, p.amount)
	if !ok || received < 0 {
		return NotEnoughCredits
	}

	return NoFailure
}

func (p Pay) ValidateTransaction() map[user.User]FailureReason { return validateAll(p) }

func (p Pay) Executable() FailureReason { return firstFailure(p) }

func (p Pay) MessageKey() string { return "credits-pay" }

func (p Pay) UserMessageKey() string { return "credits-pay-user" }
