// ABOUTME: Shared CLI plumbing for one-shot commands
// ABOUTME: Cache-backed reads, rollback notification draining, and argument parsing
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/funilhq/funil/cache"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/store"
)

// fetchOrCache returns the live collection when the service answers, saving
// a snapshot for later. When the service is unreachable, the last snapshot
// is returned instead and a staleness warning goes to stderr.
func fetchOrCache[T any](snaps *cache.Store, entity string, fetch func() ([]T, error)) ([]T, error) {
	items, err := fetch()
	if err == nil {
		if snaps != nil {
			if saveErr := snaps.Save(entity, items); saveErr != nil {
				slog.Debug("snapshot save failed", "entity", entity, "error", saveErr)
			}
		}
		return items, nil
	}

	if snaps == nil {
		return nil, err
	}
	var cached []T
	fetchedAt, cacheErr := snaps.Load(entity, &cached)
	if cacheErr != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "⚠ Service unreachable (%v)\n  Showing cached %s from %s\n",
		err, entity, fetchedAt.Format(time.RFC822))
	return cached, nil
}

// drainNotifications prints any queued rollback notifications to stderr.
// One-shot commands call this after their mutation settles.
func drainNotifications(notifier *store.Notifier) {
	for {
		select {
		case note := <-notifier.C():
			fmt.Fprintf(os.Stderr, "↩ %s\n", note.String())
		default:
			return
		}
	}
}

func storeOptions(notifier *store.Notifier) store.Options {
	return store.Options{Logger: slog.Default(), Notifier: notifier}
}

// parseID parses a positional numeric entity ID.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: expected a number", arg)
	}
	return id, nil
}

// parseDue accepts an RFC3339 timestamp or a bare YYYY-MM-DD date, which
// lands at midnight UTC.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want RFC3339 or YYYY-MM-DD)", s)
	}
	return d.Time, nil
}

func strOrDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}
