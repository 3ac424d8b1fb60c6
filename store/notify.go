// ABOUTME: Non-blocking rollback notification stream
// ABOUTME: Publishes reverted mutations without ever stalling the synchronizer
package store

import (
	"fmt"
	"sync/atomic"
	"time"
)

const defaultNotifyBuffer = 32

// Op names the mutation kind a notification refers to.
type Op string

const (
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Notification records one rolled-back mutation. Failed mutations are never
// rendered as blocking errors; this stream is their only surface.
type Notification struct {
	Entity string
	Op     Op
	ID     int64
	Err    error
	At     time.Time
}

func (n Notification) String() string {
	return fmt.Sprintf("%s %s %d reverted: %v", n.Entity, n.Op, n.ID, n.Err)
}

// Notifier fans rollback notifications out to one consumer. Publishing never
// blocks: when the buffer is full the notification is counted and dropped.
// A single notifier may be shared by several collections so consumers watch
// one channel.
type Notifier struct {
	ch      chan Notification
	dropped atomic.Int64
}

// NewNotifier builds a notifier with the given buffer size.
func NewNotifier(buffer int) *Notifier {
	if buffer <= 0 {
		buffer = defaultNotifyBuffer
	}
	return &Notifier{ch: make(chan Notification, buffer)}
}

func (n *Notifier) publish(note Notification) {
	note.At = time.Now()
	select {
	case n.ch <- note:
	default:
		n.dropped.Add(1)
	}
}

// C is the notification stream.
func (n *Notifier) C() <-chan Notification {
	return n.ch
}

// Dropped reports how many notifications were discarded on a full buffer.
func (n *Notifier) Dropped() int64 {
	return n.dropped.Load()
}
