package transaction

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/skills"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

var (
	ErrSkillNotAllowed    = errors.New("skill can only be set on redeem transactions")
	ErrNoTargets          = errors.New("transaction has no targets")
	ErrMissingSkill       = errors.New("redeem transaction has no skill")
	ErrMissingProgression = errors.New("redeem transaction has no progression")
	ErrPayExecutor        = errors.New("pay executor must be a player")
	ErrPayTargets         = errors.New("pay requires exactly one target")
)

// Builder assembles a Transaction. Structural mistakes are reported by
// Build, except Skill on a non-redeem kind which panics immediately.
type Builder struct {
	executor    user.Executor
	kind        Kind
	amount      int
	targets     []user.User
	skill       skills.Skill
	progression Progression
}

func NewBuilder(executor user.Executor, kind Kind, amount int) *Builder {
	return &Builder{executor: executor, kind: kind, amount: amount}
}

func (b *Builder) Skill(skill skills.Skill) *Builder {
	if !b.kind.IsRedeem() {
		panic(fmt.Errorf("%w: kind %s", ErrSkillNotAllowed, b.kind))
	}

	b.skill = skill

	return b
}

func (b *Builder) Progression(p Progression) *Builder {
	b.progression = p
	return b
}

// Targets replaces the target list.
func (b *Builder) Targets(targets []user.User) *Builder {
	b.targets = append([]user.User(nil), targets...)
	return b
}

// Target appends a single target.
func (b *Builder) Target(target user.User) *Builder {
	b.targets = append(b.targets, target)
	return b
}

func (b *Builder) Build() (Transaction, error) {
	if !b.kind.Valid() {
		return nil, fmt.Errorf("build transaction: %w: %d", ErrUnknownKind, int(b.kind))
	}

	targets := uniqueTargets(b.targets)
	if len(targets) == 0 {
		self, ok := b.executor.AsUser()
		if b.kind == KindPay || !ok {
			return nil, fmt.Errorf("build %s transaction: %w", b.kind, ErrNoTargets)
		}
		targets = []user.User{self}
	}

	common := newBase(b.executor, targets, b.amount)

	switch b.kind.Base() {
	case KindAdd:
		return Add{base: common}, nil
	case KindSet:
		return Set{base: common}, nil
	case KindTake:
		return Take{base: common}, nil
	case KindPay:
		if !b.executor.IsPlayer() {
			return nil, fmt.Errorf("build pay transaction: %w", ErrPayExecutor)
		}
		if len(targets) != 1 {
			return nil, fmt.Errorf("build pay transaction: %w", ErrPayTargets)
		}

		return Pay{base: common}, nil
	case KindRedeem:
		if b.skill == "" {
			return nil, fmt.Errorf("build redeem transaction: %w", ErrMissingSkill)
		}
		if b.progression == nil {
			return nil, fmt.Errorf("build redeem transaction: %w", ErrMissingProgression)
		}

		return Redeem{base: common, skill: b.skill, progression: b.progression}, nil
	default:
		return nil, fmt.Errorf("build transaction: %w: %s", ErrUnknownKind, b.kind)
	}
}

// Engine carries the collaborators a transaction may need so callers do not
// have to wire them on every builder.
type Engine struct {
	progression Progression
}

func NewEngine(p Progression) Engine {
	return Engine{progression: p}
}

func (e Engine) Builder(executor user.Executor, kind Kind, amount int) *Builder {
	return NewBuilder(executor, kind, amount).Progression(e.progression)
}

// uniqueTargets keeps the first snapshot of every user id. A repeated
// target would otherwise be executed twice against one stored row.
func uniqueTargets(targets []user.User) []user.User {
	seen := make(map[uuid.UUID]struct{}, len(targets))
	out := make([]user.User, 0, len(targets))

	for _, t := range targets {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}

	return out
}
