package credits

import (
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// Feedback tells the executor and the affected players how a transaction
// went. Failures always reach the executor; senderSilent and userSilent
// only mute success messages.
func (s *Service) Feedback(o Outcome, senderSilent, userSilent bool) {
	tx := o.Transaction
	exec := tx.Executor()

	if !o.Applied {
		var target *user.User
		if ts := tx.Targets(); len(ts) == 1 {
			target = &ts[0]
		}
		s.notifier.Notify(exec, o.Failure.Key(), placeholders(tx, target))

		return
	}

	for t, reason := range o.Rejected {
		s.notifier.Notify(exec, reason.Key(), placeholders(tx, &t))
	}

	if !senderSilent {
		var target *user.User
		if len(o.Result.Targets) == 1 {
			target = &o.Result.Targets[0]
		}
		s.notifier.Notify(o.Result.Executor, tx.MessageKey(), placeholders(tx, target))
	}

	if userSilent {
		return
	}

	execID := user.ExecutorID(exec)
	for _, t := range o.Result.Targets {
		if t.ID == execID || !s.users.IsOnline(t.ID) {
			continue
		}
		s.notifier.Notify(t, tx.UserMessageKey(), placeholders(tx, &t))
	}
}
