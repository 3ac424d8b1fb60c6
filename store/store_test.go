// ABOUTME: Tests for the optimistic collection synchronizer
// ABOUTME: Covers rollback, prepend-on-create, banner handling, serialization, and notifications
package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funilhq/funil/models"
)

type dealFuncs struct {
	fetch  func(ctx context.Context) ([]models.Deal, error)
	create func(ctx context.Context, draft models.DealDraft) (models.Deal, error)
	update func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error)
	delete func(ctx context.Context, id int64) error
}

func newDealCollection(f dealFuncs, opts Options) *Collection[models.Deal, models.DealPatch, models.DealDraft] {
	if f.fetch == nil {
		f.fetch = func(ctx context.Context) ([]models.Deal, error) { return nil, nil }
	}
	if f.create == nil {
		f.create = func(ctx context.Context, draft models.DealDraft) (models.Deal, error) {
			return models.Deal{}, nil
		}
	}
	if f.update == nil {
		f.update = func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
			return models.Deal{}, nil
		}
	}
	if f.delete == nil {
		f.delete = func(ctx context.Context, id int64) error { return nil }
	}
	return NewCollection("deal", Funcs[models.Deal, models.DealPatch, models.DealDraft]{
		Fetch:  f.fetch,
		Create: f.create,
		Update: f.update,
		Delete: f.delete,
	}, opts)
}

func loadDeals(t *testing.T, c *Collection[models.Deal, models.DealPatch, models.DealDraft]) {
	t.Helper()
	require.NoError(t, c.Load(context.Background()))
}

func TestMutateRejectedRollsBackToSnapshot(t *testing.T) {
	deals := []models.Deal{{ID: 1, Title: "Proposta site", Column: models.ColumnNovo}}
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) { return deals, nil },
		update: func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
			return models.Deal{}, errors.New("server said no")
		},
	}, Options{})
	loadDeals(t, c)

	before := c.Items()
	col := models.ColumnGanho
	err := c.MutateField(context.Background(), 1, models.DealPatch{Column: &col})
	require.Error(t, err)

	after := c.Items()
	assert.True(t, reflect.DeepEqual(before, after),
		"collection after rollback should be structurally equal to the pre-mutation collection")
	assert.Equal(t, models.ColumnNovo, after[0].Column)
}

func TestMutateAcceptedKeepsOptimisticValue(t *testing.T) {
	var sawPatch models.DealPatch
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 1, Column: models.ColumnNovo}}, nil
		},
		update: func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
			sawPatch = patch
			// The server echoes the updated deal; the collection must not care.
			return models.Deal{ID: 1, Column: models.ColumnPerdido}, nil
		},
	}, Options{})
	loadDeals(t, c)

	col := models.ColumnGanho
	require.NoError(t, c.MutateField(context.Background(), 1, models.DealPatch{Column: &col}))

	require.NotNil(t, sawPatch.Column)
	assert.Equal(t, models.ColumnGanho, *sawPatch.Column)

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, models.ColumnGanho, got.Column,
		"optimistic value stands; the server response is not re-applied")
}

func TestCreatePrependsServerEntity(t *testing.T) {
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 10, Title: "antiga"}}, nil
		},
		create: func(ctx context.Context, draft models.DealDraft) (models.Deal, error) {
			return models.Deal{ID: 42, ContactID: draft.ContactID, Title: draft.Title, Column: models.ColumnNovo}, nil
		},
	}, Options{})
	loadDeals(t, c)

	created, err := c.Create(context.Background(), models.DealDraft{ContactID: 1, Title: "nova"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(42), items[0].ID, "server-returned entity goes to the front")
	assert.Equal(t, int64(10), items[1].ID)
}

func TestCreateFailurePropagatesWithoutLocalChange(t *testing.T) {
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 10}}, nil
		},
		create: func(ctx context.Context, draft models.DealDraft) (models.Deal, error) {
			return models.Deal{}, errors.New("quota exceeded")
		},
	}, Options{})
	loadDeals(t, c)

	_, err := c.Create(context.Background(), models.DealDraft{ContactID: 1, Title: "nova"})
	require.EqualError(t, err, "quota exceeded")
	assert.Equal(t, 1, c.Len(), "no optimistic insertion to undo")
}

func TestCreateValidatesDraftBeforeDispatch(t *testing.T) {
	remoteCalled := false
	c := newDealCollection(dealFuncs{
		create: func(ctx context.Context, draft models.DealDraft) (models.Deal, error) {
			remoteCalled = true
			return models.Deal{}, nil
		},
	}, Options{})

	_, err := c.Create(context.Background(), models.DealDraft{Title: "sem contato"})
	require.Error(t, err)
	assert.False(t, remoteCalled, "invalid drafts never reach the service")
}

func TestRemoveFiltersOutAndRestoresOnFailure(t *testing.T) {
	two := []models.Deal{{ID: 7}, {ID: 8}}
	failDelete := false
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) { return two, nil },
		delete: func(ctx context.Context, id int64) error {
			if failDelete {
				return errors.New("delete rejected")
			}
			return nil
		},
	}, Options{})
	loadDeals(t, c)

	require.NoError(t, c.Remove(context.Background(), 7))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(8), items[0].ID)

	loadDeals(t, c)
	failDelete = true
	require.Error(t, c.Remove(context.Background(), 7))
	items = c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, int64(8), items[1].ID)
}

func TestLoadFailureRetainsStateAndSetsBanner(t *testing.T) {
	healthy := true
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			if !healthy {
				return nil, errors.New("HTTP 502")
			}
			return []models.Deal{{ID: 1}}, nil
		},
	}, Options{})

	loadDeals(t, c)
	require.Equal(t, 1, c.Len())
	assert.Empty(t, c.Err())

	healthy = false
	require.Error(t, c.Load(context.Background()))
	assert.Equal(t, 1, c.Len(), "previous collection survives a failed reload")
	assert.Equal(t, "HTTP 502", c.Err())

	c.Dismiss()
	assert.Empty(t, c.Err())

	healthy = true
	loadDeals(t, c)
	assert.Empty(t, c.Err(), "successful load clears the banner")
}

func TestLoadIsIdempotent(t *testing.T) {
	data := []models.Deal{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) { return data, nil },
	}, Options{})

	loadDeals(t, c)
	first := c.Items()
	loadDeals(t, c)
	second := c.Items()

	assert.True(t, reflect.DeepEqual(first, second))
}

func TestMutationsOnSameIdentityAreSerialized(t *testing.T) {
	type event struct {
		kind string
		id   int64
	}
	var (
		eventsMu sync.Mutex
		events   []event
	)
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 1, Column: models.ColumnNovo}}, nil
		},
		update: func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
			eventsMu.Lock()
			events = append(events, event{"enter", id})
			eventsMu.Unlock()
			time.Sleep(20 * time.Millisecond)
			eventsMu.Lock()
			events = append(events, event{"exit", id})
			eventsMu.Unlock()
			return models.Deal{}, nil
		},
	}, Options{})
	loadDeals(t, c)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			col := models.ColumnProposta
			_ = c.MutateField(context.Background(), 1, models.DealPatch{Column: &col})
		}()
	}
	wg.Wait()

	require.Len(t, events, 6)
	for i := 0; i < len(events); i += 2 {
		assert.Equal(t, "enter", events[i].kind)
		assert.Equal(t, "exit", events[i+1].kind, "updates on one identity must not overlap")
	}
}

func TestMutationsOnDifferentIdentitiesMayOverlap(t *testing.T) {
	firstInside := make(chan struct{})
	secondDone := make(chan struct{})
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 1}, {ID: 2}}, nil
		},
		update: func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
			if id == 1 {
				close(firstInside)
				// Held open until the mutation on id 2 got through.
				select {
				case <-secondDone:
				case <-time.After(2 * time.Second):
					return models.Deal{}, errors.New("timed out waiting for overlapping mutation")
				}
			}
			return models.Deal{}, nil
		},
	}, Options{})
	loadDeals(t, c)

	errs := make(chan error, 2)
	go func() {
		col := models.ColumnGanho
		errs <- c.MutateField(context.Background(), 1, models.DealPatch{Column: &col})
	}()
	go func() {
		<-firstInside
		col := models.ColumnPerdido
		errs <- c.MutateField(context.Background(), 2, models.DealPatch{Column: &col})
		close(secondDone)
	}()

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
}

func TestRollbackPublishesNotification(t *testing.T) {
	notifier := NewNotifier(8)
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 5, Column: models.ColumnNovo}}, nil
		},
		update: func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
			return models.Deal{}, errors.New("stale entity")
		},
	}, Options{Notifier: notifier})
	loadDeals(t, c)

	col := models.ColumnGanho
	require.Error(t, c.MutateField(context.Background(), 5, models.DealPatch{Column: &col}))

	select {
	case note := <-notifier.C():
		assert.Equal(t, "deal", note.Entity)
		assert.Equal(t, OpUpdate, note.Op)
		assert.Equal(t, int64(5), note.ID)
		assert.EqualError(t, note.Err, "stale entity")
		assert.False(t, note.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a rollback notification")
	}
}

func TestNotifierNeverBlocks(t *testing.T) {
	notifier := NewNotifier(2)
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 1}}, nil
		},
		delete: func(ctx context.Context, id int64) error { return errors.New("no") },
	}, Options{Notifier: notifier})
	loadDeals(t, c)

	// Nobody consumes; every failed remove past the buffer must be dropped,
	// not block the synchronizer.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = c.Remove(context.Background(), 1)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("synchronizer blocked on a full notification buffer")
	}
	assert.Equal(t, int64(8), notifier.Dropped())
}

func TestProjectIsPure(t *testing.T) {
	items := []models.Deal{
		{ID: 1, Column: models.ColumnNovo},
		{ID: 2, Column: models.ColumnGanho},
		{ID: 3, Column: models.ColumnNovo},
	}

	got := Project(items, func(d models.Deal) bool { return d.Column == models.ColumnNovo })
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	assert.Len(t, items, 3, "projection must not modify its input")
	assert.Equal(t, models.ColumnGanho, items[1].Column)

	all := Project(items, nil)
	assert.Len(t, all, 3, "nil predicate keeps everything")
}

func TestMutateMissingIdentityStillDispatchesAndRollsBack(t *testing.T) {
	c := newDealCollection(dealFuncs{
		fetch: func(ctx context.Context) ([]models.Deal, error) {
			return []models.Deal{{ID: 1}}, nil
		},
		update: func(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
			return models.Deal{}, errors.New("not found")
		},
	}, Options{})
	loadDeals(t, c)

	before := c.Items()
	col := models.ColumnGanho
	require.Error(t, c.MutateField(context.Background(), 99, models.DealPatch{Column: &col}))
	assert.True(t, reflect.DeepEqual(before, c.Items()))
}
