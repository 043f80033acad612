// Package chat correlates a pending prompt with the next line of text an
// identity types.
package chat

import (
	"sync"

	"github.com/fastprodman/mcmmocredits/internal/future"
)

// Input is what a pending slot settles with. OK is false when the slot was
// cancelled, in which case Text carries nothing.
type Input struct {
	Text string
	OK   bool
}

func cancelled() Input { return Input{} }

// Queue holds at most one pending slot per identity. Registering again for
// the same identity cancels the previous slot.
type Queue[K comparable] struct {
	mu    sync.Mutex
	slots map[K]*future.Future[Input]
}

func NewQueue[K comparable]() *Queue[K] {
	return &Queue[K]{slots: make(map[K]*future.Future[Input])}
}

// Add installs a fresh slot for id and returns it.
func (q *Queue[K]) Add(id K) *future.Future[Input] {
	slot := future.New[Input]()

	q.mu.Lock()
	prev := q.slots[id]
	q.slots[id] = slot
	q.mu.Unlock()

	// Outside the lock: the previous waiter's continuation may call back
	// into the queue.
	if prev != nil {
		prev.Resolve(cancelled())
	}

	return slot
}

// Remove cancels and forgets the slot for id, if any.
func (q *Queue[K]) Remove(id K) {
	q.mu.Lock()
	slot, ok := q.slots[id]
	delete(q.slots, id)
	q.mu.Unlock()

	if ok {
		slot.Resolve(cancelled())
	}
}

func (q *Queue[K]) Contains(id K) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.slots[id]

	return ok
}

// Act registers a fresh slot for id and runs onValue exactly once when it
// settles, with either the typed text or a cancelled Input. The slot is
// dropped afterwards unless a newer registration replaced it.
//
// onValue runs on whichever goroutine settles the slot.
func (q *Queue[K]) Act(id K, onValue func(Input)) {
	slot := q.Add(id)

	slot.Then(func(in Input, _ error) {
		defer q.drop(id, slot)
		onValue(in)
	})
}

// Complete hands text to the pending slot for id. It reports whether a slot
// consumed it; input with nobody waiting is ignored.
func (q *Queue[K]) Complete(id K, text string) bool {
	q.mu.Lock()
	slot, ok := q.slots[id]
	if ok {
		delete(q.slots, id)
	}
	q.mu.Unlock()

	if !ok {
		return false
	}

	return slot.Resolve(Input{Text: text, OK: true})
}

func (q *Queue[K]) drop(id K, slot *future.Future[Input]) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.slots[id] == slot {
		delete(q.slots, id)
	}
}
