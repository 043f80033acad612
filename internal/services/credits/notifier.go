package credits

import (
	"log/slog"
	"strconv"

	"github.com/fastprodman/mcmmocredits/internal/transaction"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// Placeholders are the values a message template may reference.
type Placeholders map[string]string

// Notifier delivers a message key to a player or the console. Rendering
// the key into text belongs to the implementation.
type Notifier interface {
	Notify(to user.Executor, key string, values Placeholders)
}

// LogNotifier writes every message to the default logger.
type LogNotifier struct{}

func (LogNotifier) Notify(to user.Executor, key string, values Placeholders) {
	attrs := make([]any, 0, 4+len(values)*2)
	attrs = append(attrs, "to", to.Name(), "key", key)
	for k, v := range values {
		attrs = append(attrs, k, v)
	}

	slog.Info("notify", attrs...)
}

func placeholders(tx transaction.Transaction, target *user.User) Placeholders {
	p := Placeholders{
		"sender": tx.Executor().Name(),
		"amount": strconv.Itoa(tx.Amount()),
		"kind":   tx.Kind().String(),
	}

	if r, ok := tx.(transaction.Redeem); ok {
		p["skill"] = r.Skill().String()
	}

	if target != nil {
		p["target"] = target.Username
		p["credits"] = strconv.Itoa(target.Credits)
		p["redeemed"] = strconv.Itoa(target.Redeemed)
	}

	return p
}
