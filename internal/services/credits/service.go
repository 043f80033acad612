// Package credits runs transactions end to end: resolve users, validate,
// execute, persist and tell everyone involved.
package credits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/chat"
	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/services/users"
	"github.com/fastprodman/mcmmocredits/internal/skills"
	"github.com/fastprodman/mcmmocredits/internal/transaction"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

var (
	ErrNotPersisted  = errors.New("transaction result was not persisted")
	ErrTargetMissing = errors.New("target user not found")
)

// Outcome reports what Process did. When Applied is false, Failure says
// why. Rejected lists targets of a many-targets transaction that were left
// out.
type Outcome struct {
	Transaction transaction.Transaction
	Result      transaction.Result
	Applied     bool
	Failure     transaction.FailureReason
	Rejected    map[user.User]transaction.FailureReason
}

type Service struct {
	users    *users.Service
	engine   transaction.Engine
	prompts  *chat.Queue[uuid.UUID]
	notifier Notifier
}

func New(us *users.Service, engine transaction.Engine, prompts *chat.Queue[uuid.UUID], notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &Service{
		users:    us,
		engine:   engine,
		prompts:  prompts,
		notifier: notifier,
	}
}

// Process validates and executes tx, then persists the result. A
// single-target transaction is all or nothing. A many-targets transaction
// runs for the targets that validate and reports the rest in
// Outcome.Rejected.
func (s *Service) Process(ctx context.Context, tx transaction.Transaction) *future.Future[Outcome] {
	out := Outcome{Transaction: tx}

	if !tx.Kind().IsAll() {
		if f := tx.Executable(); f.Failed() {
			slog.Info("transaction rejected", "kind", tx.Kind(), "executor", tx.Executor().Name(), "reason", f)
			out.Failure = f

			return future.Resolved(out)
		}
	} else {
		accepted, rejected := partition(tx)
		out.Rejected = rejected

		if len(accepted) == 0 {
			out.Failure = transaction.NotEnoughCreditsOther
			for _, t := range tx.Targets() {
				if f := rejected[t]; f.Failed() {
					out.Failure = f
					break
				}
			}
			slog.Info("transaction rejected for every target", "kind", tx.Kind(), "targets", len(rejected))

			return future.Resolved(out)
		}

		tx = transaction.WithTargets(tx, accepted)
		out.Transaction = tx
	}

	result := tx.Execute()

	return future.Map(s.users.ProcessTransaction(ctx, result), func(ok bool) (Outcome, error) {
		if !ok {
			return Outcome{}, fmt.Errorf("process %s transaction: %w", tx.Kind(), ErrNotPersisted)
		}

		out.Result = result
		out.Applied = true

		return out, nil
	})
}

func partition(tx transaction.Transaction) ([]user.User, map[user.User]transaction.FailureReason) {
	var accepted []user.User
	rejected := make(map[user.User]transaction.FailureReason)

	verdicts := tx.ValidateTransaction()
	for _, t := range tx.Targets() {
		if f := verdicts[t]; f.Failed() {
			rejected[t] = f
			continue
		}
		accepted = append(accepted, t)
	}

	return accepted, rejected
}

// Request names a transaction by ids, for callers that do not hold user
// snapshots. uuid.Nil as executor means the console. A many-targets kind
// with no targets applies to every online player.
type Request struct {
	Executor uuid.UUID
	Kind     transaction.Kind
	Amount   int
	Targets  []uuid.UUID
	Skill    skills.Skill
}

// Build resolves a Request into a Transaction from current snapshots.
func (s *Service) Build(ctx context.Context, req Request) *future.Future[transaction.Transaction] {
	execF := s.users.Executor(ctx, req.Executor)
	targetsF := s.targets(ctx, req)

	return future.Chain(execF, func(exec user.Executor) *future.Future[transaction.Transaction] {
		return future.Map(targetsF, func(targets []user.User) (transaction.Transaction, error) {
			b := s.engine.Builder(exec, req.Kind, req.Amount).Targets(targets)
			if req.Kind.IsRedeem() && req.Skill != "" {
				b.Skill(req.Skill)
			}

			return b.Build()
		})
	})
}

func (s *Service) targets(ctx context.Context, req Request) *future.Future[[]user.User] {
	if len(req.Targets) == 0 && req.Kind.IsAll() {
		return s.users.OnlineUsers(ctx)
	}

	lookups := make([]*future.Future[*user.User], len(req.Targets))
	for i, id := range req.Targets {
		lookups[i] = s.users.GetUser(ctx, id)
	}

	return future.Map(future.All(lookups...), func(found []*user.User) ([]user.User, error) {
		out := make([]user.User, len(found))
		for i, u := range found {
			if u == nil {
				return nil, fmt.Errorf("resolve target %s: %w", req.Targets[i], ErrTargetMissing)
			}
			out[i] = *u
		}
		return out, nil
	})
}

// Transact builds and processes req.
func (s *Service) Transact(ctx context.Context, req Request) *future.Future[Outcome] {
	return future.Chain(s.Build(ctx, req), func(tx transaction.Transaction) *future.Future[Outcome] {
		return s.Process(ctx, tx)
	})
}
