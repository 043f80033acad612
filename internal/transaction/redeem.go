package transaction

import (
	"github.com/fastprodman/mcmmocredits/internal/skills"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// Redeem exchanges credits for levels in one skill.
type Redeem struct {
	base
	skill       skills.Skill
	progression Progression
}

func (r Redeem) Kind() Kind { return r.kind(KindRedeem) }

func (r Redeem) Skill() skills.Skill { return r.skill }

// Execute also grants the levels through the progression system. The grant
// happens here, before the caller persists the result, and is not undone
// if persisting fails.
func (r Redeem) Execute() Result {
	out := make([]user.User, len(r.targets))
	for i, t := range r.targets {
		r.progression.AddLevels(t.ID, r.skill, r.amount)
		out[i] = t.WithCredits(t.Credits - r.amount).WithRedeemed(t.Redeemed + r.amount)
	}

	return Result{Transaction: r, Executor: r.executor, Targets: out}
}

func (r Redeem) Validate(target user.User) FailureReason {
	left, ok := checkedSub(target.Credits, r.amount)
	if !ok || left < 0 {
		return r.Kind().notEnoughCredits()
	}

	if _, ok := checkedAdd(target.Redeemed, r.amount); !ok {
		return r.Kind().notEnoughCredits()
	}

	if !r.progression.IsProfileLoaded(target.ID) {
		return McMMOProfileFail
	}

	level, ok := checkedAdd(r.progression.SkillLevel(target.ID, r.skill), r.amount)
	if !ok || level > r.progression.LevelCap(r.skill) {
		return McMMOSkillCap
	}

	return NoFailure
}

func (r Redeem) ValidateTransaction() map[user.User]FailureReason { return validateAll(r) }

func (r Redeem) Executable() FailureReason { return firstFailure(r) }

func (r Redeem) MessageKey() string {
	if !r.multi && !r.IsSelfTransaction() {
		return "credits-redeem-sudo"
	}

	return messageKey(r.Kind())
}

func (r Redeem) UserMessageKey() string { return r.Kind().userMessageKey() }
