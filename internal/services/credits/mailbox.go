package credits

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/user"
)

const defaultMailboxSize = 50

// Message is one notification held by a Mailbox.
type Message struct {
	Key    string       `json:"key"`
	Values Placeholders `json:"values,omitempty"`
}

// Mailbox keeps the most recent messages per recipient until they are
// drained, and forwards every message to next. The console's inbox is
// uuid.Nil.
type Mailbox struct {
	next Notifier
	size int

	mu    sync.Mutex
	inbox map[uuid.UUID][]Message
}

func NewMailbox(next Notifier, size int) *Mailbox {
	if size <= 0 {
		size = defaultMailboxSize
	}

	return &Mailbox{
		next:  next,
		size:  size,
		inbox: make(map[uuid.UUID][]Message),
	}
}

func (m *Mailbox) Notify(to user.Executor, key string, values Placeholders) {
	id := user.ExecutorID(to)

	m.mu.Lock()
	msgs := append(m.inbox[id], Message{Key: key, Values: values})
	if over := len(msgs) - m.size; over > 0 {
		msgs = append([]Message(nil), msgs[over:]...)
	}
	m.inbox[id] = msgs
	m.mu.Unlock()

	if m.next != nil {
		m.next.Notify(to, key, values)
	}
}

// Drain returns and forgets the messages held for id, oldest first.
func (m *Mailbox) Drain(id uuid.UUID) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.inbox[id]
	delete(m.inbox, id)

	return msgs
}
