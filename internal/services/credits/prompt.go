package credits

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fastprodman/mcmmocredits/internal/chat"
	"github.com/fastprodman/mcmmocredits/internal/skills"
	"github.com/fastprodman/mcmmocredits/internal/transaction"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

const (
	KeyRedeemPrompt    = "redeem-prompt"
	KeyMustBeNumber    = "must-be-number"
	KeyRedeemCancelled = "redeem-cancelled"
	KeyRedeemFailed    = "redeem-failed"
)

// PromptRedeem asks u how many credits to put into skill and redeems the
// answer once it arrives through the chat queue. It returns immediately.
// The returned channel receives the outcome, or is closed without a value
// when the prompt was cancelled or answered with something unusable.
func (s *Service) PromptRedeem(ctx context.Context, u user.User, skill skills.Skill) <-chan Outcome {
	done := make(chan Outcome, 1)
	// The answer may come long after the request that asked for it.
	ctx = context.WithoutCancel(ctx)

	s.notifier.Notify(u, KeyRedeemPrompt, Placeholders{"skill": skill.String()})

	s.prompts.Act(u.ID, func(in chat.Input) {
		if !in.OK {
			s.notifier.Notify(u, KeyRedeemCancelled, Placeholders{"skill": skill.String()})
			close(done)

			return
		}

		amount, err := strconv.Atoi(strings.TrimSpace(in.Text))
		if err != nil || amount <= 0 {
			s.notifier.Notify(u, KeyMustBeNumber, Placeholders{"input": in.Text})
			close(done)

			return
		}

		req := Request{
			Executor: u.ID,
			Kind:     transaction.KindRedeem,
			Amount:   amount,
			Skill:    skill,
		}

		s.Transact(ctx, req).Then(func(o Outcome, err error) {
			defer close(done)

			if err != nil {
				slog.Error("redeem from prompt", "user", u.ID, "error", err)
				s.notifier.Notify(u, KeyRedeemFailed, Placeholders{"skill": skill.String()})

				return
			}

			s.Feedback(o, false, false)
			done <- o
		})
	})

	return done
}
