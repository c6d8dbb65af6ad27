// Package notify delivers user-visible notifications: buffered per browser
// session for the BFF, or printed straight to a terminal for the CLI.
package notify

import (
	"sync"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

const defaultCapacity = 20

// Queue holds notifications until the UI drains them. When full, the oldest
// notification is dropped.
type Queue struct {
	mu    sync.Mutex
	cap   int
	items []domain.Notification
}

var _ ports.NotificationQueue = (*Queue)(nil)

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Queue{cap: capacity}
}

func (q *Queue) Notify(n domain.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == q.cap {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, n)
}

// Drain returns pending notifications oldest first and empties the queue.
func (q *Queue) Drain() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	if out == nil {
		return []domain.Notification{}
	}
	return out
}
