// ABOUTME: Optimistic list synchronizer mirroring a remote collection locally
// ABOUTME: Applies mutations immediately, then reconciles with the service or rolls back
package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Entity is anything with a server-assigned integer identity.
type Entity interface {
	Key() int64
}

// Patch is a partial update that knows how to apply itself to an entity.
type Patch[T any] interface {
	Apply(*T)
}

// Draft is a create payload that validates itself before dispatch.
type Draft interface {
	Validate() error
}

// Funcs are the remote calls a collection reconciles against, normally the
// matching api.Client methods.
type Funcs[T Entity, P Patch[T], D Draft] struct {
	Fetch  func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, draft D) (T, error)
	Update func(ctx context.Context, id int64, patch P) (T, error)
	Delete func(ctx context.Context, id int64) error
}

// Options tune a collection. The zero value works.
type Options struct {
	Logger   *slog.Logger
	Notifier *Notifier
}

// Collection mirrors one remote entity collection. The local copy is a
// cache, never an owner: on any mutation failure it is restored from the
// snapshot taken before the mutation, never merged.
type Collection[T Entity, P Patch[T], D Draft] struct {
	entity string
	funcs  Funcs[T, P, D]
	log    *slog.Logger
	notes  *Notifier

	mu      sync.Mutex
	items   []T
	loaded  bool
	loadErr string

	queue   keyQueue
	pending atomic.Int32
}

// NewCollection builds a synchronizer for one entity type. The entity name
// appears in logs and notifications.
func NewCollection[T Entity, P Patch[T], D Draft](entity string, funcs Funcs[T, P, D], opts Options) *Collection[T, P, D] {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	notes := opts.Notifier
	if notes == nil {
		notes = NewNotifier(defaultNotifyBuffer)
	}
	return &Collection[T, P, D]{
		entity: entity,
		funcs:  funcs,
		log:    log,
		notes:  notes,
	}
}

// Load replaces the collection with a fresh full fetch. On failure the
// previous collection is retained and the error is kept as a dismissable
// banner message.
func (c *Collection[T, P, D]) Load(ctx context.Context) error {
	items, err := c.funcs.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.loadErr = err.Error()
		c.log.Warn("load failed, keeping previous collection",
			"entity", c.entity, "error", err)
		return err
	}
	// The collection owns its backing array; in-place patches and deletes
	// must never reach the slice the fetcher returned.
	c.items = slices.Clone(items)
	c.loaded = true
	c.loadErr = ""
	c.log.Debug("collection loaded", "entity", c.entity, "count", len(items))
	return nil
}

// MutateField applies the patch to the matching entity immediately, then
// issues the partial update. If the service rejects it, the collection is
// restored verbatim from the snapshot taken before the patch was applied and
// a rollback notification is published. The successful response is not
// re-applied; the optimistic copy stands until the next Load.
//
// Mutations on the same identity are serialized, so a rollback can only ever
// revert its own change on that entity.
func (c *Collection[T, P, D]) MutateField(ctx context.Context, id int64, patch P) error {
	release := c.queue.acquire(id)
	defer release()
	c.pending.Add(1)
	defer c.pending.Add(-1)

	c.mu.Lock()
	snapshot := slices.Clone(c.items)
	for i := range c.items {
		if c.items[i].Key() == id {
			patch.Apply(&c.items[i])
			break
		}
	}
	c.mu.Unlock()

	if _, err := c.funcs.Update(ctx, id, patch); err != nil {
		c.rollback(snapshot)
		c.notes.publish(Notification{Entity: c.entity, Op: OpUpdate, ID: id, Err: err})
		c.log.Warn("update rejected, rolled back", "entity", c.entity, "id", id, "error", err)
		return err
	}
	return nil
}

// Create validates the draft, awaits the service, and on success prepends
// the server-returned entity. There is no optimistic insertion, so failures
// need no rollback; they propagate to the caller.
func (c *Collection[T, P, D]) Create(ctx context.Context, draft D) (T, error) {
	var zero T
	if err := draft.Validate(); err != nil {
		return zero, err
	}

	created, err := c.funcs.Create(ctx, draft)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	c.items = append([]T{created}, c.items...)
	c.mu.Unlock()
	c.log.Debug("created", "entity", c.entity, "id", created.Key())
	return created, nil
}

// Remove filters the entity out immediately, then issues the delete. If the
// service rejects it, the collection is restored from the snapshot and a
// rollback notification is published.
func (c *Collection[T, P, D]) Remove(ctx context.Context, id int64) error {
	release := c.queue.acquire(id)
	defer release()
	c.pending.Add(1)
	defer c.pending.Add(-1)

	c.mu.Lock()
	snapshot := slices.Clone(c.items)
	c.items = slices.DeleteFunc(c.items, func(e T) bool { return e.Key() == id })
	c.mu.Unlock()

	if err := c.funcs.Delete(ctx, id); err != nil {
		c.rollback(snapshot)
		c.notes.publish(Notification{Entity: c.entity, Op: OpDelete, ID: id, Err: err})
		c.log.Warn("delete rejected, rolled back", "entity", c.entity, "id", id, "error", err)
		return err
	}
	return nil
}

func (c *Collection[T, P, D]) rollback(snapshot []T) {
	c.mu.Lock()
	c.items = snapshot
	c.mu.Unlock()
}

// Items returns a copy of the current collection in server order.
func (c *Collection[T, P, D]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Get looks up one entity by identity.
func (c *Collection[T, P, D]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len reports the current collection size.
func (c *Collection[T, P, D]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Loaded reports whether any Load has succeeded yet.
func (c *Collection[T, P, D]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Err returns the banner message from the last failed Load, or "".
func (c *Collection[T, P, D]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Dismiss clears the load failure banner.
func (c *Collection[T, P, D]) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadErr = ""
}

// Pending reports how many mutations are currently in flight.
func (c *Collection[T, P, D]) Pending() int {
	return int(c.pending.Load())
}

// Notifications exposes the rollback notification stream.
func (c *Collection[T, P, D]) Notifications() <-chan Notification {
	return c.notes.C()
}

// Project returns the items satisfying pred, preserving order. A nil
// predicate keeps everything. The input is never modified.
func Project[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred == nil || pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// keyQueue serializes operations per entity identity. Locks are dropped once
// no operation holds or waits on them.
type keyQueue struct {
	mu    sync.Mutex
	locks map[int64]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (q *keyQueue) acquire(id int64) func() {
	q.mu.Lock()
	if q.locks == nil {
		q.locks = make(map[int64]*keyLock)
	}
	l := q.locks[id]
	if l == nil {
		l = &keyLock{}
		q.locks[id] = l
	}
	l.refs++
	q.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		q.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(q.locks, id)
		}
		q.mu.Unlock()
	}
}
