package transaction

import "github.com/fastprodman/mcmmocredits/internal/user"

// Result is the outcome of Execute. Executor is the updated payer for Pay
// and the original executor otherwise.
type Result struct {
	Transaction Transaction
	Executor    user.Executor
	Targets     []user.User
}

// ExecutorUpdated reports whether the executor's balance changed.
func (r Result) ExecutorUpdated() bool {
	return r.Transaction.Kind() == KindPay
}

// UpdatedUsers lists every record that needs persisting.
func (r Result) UpdatedUsers() []user.User {
	out := make([]user.User, 0, len(r.Targets)+1)
	if r.ExecutorUpdated() {
		if u, ok := r.Executor.AsUser(); ok {
			out = append(out, u)
		}
	}

	return append(out, r.Targets...)
}
