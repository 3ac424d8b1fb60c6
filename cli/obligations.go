// ABOUTME: Obligation CLI commands
// ABOUTME: List, add, toggle, and delete obligations plus the bucketed agenda view
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/cache"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/store"
	"github.com/funilhq/funil/views"
)

// ObligationsCommand routes the obligations subcommands.
func ObligationsCommand(client *api.Client, snaps *cache.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("obligations requires a subcommand: list, add, done, delete, agenda")
	}
	switch args[0] {
	case "list":
		return listObligations(client, snaps, args[1:])
	case "add":
		return addObligation(client, args[1:])
	case "done":
		return toggleObligation(client, args[1:])
	case "delete":
		return deleteObligation(client, args[1:])
	case "agenda":
		return obligationAgenda(client, snaps, args[1:])
	default:
		return fmt.Errorf("unknown obligations subcommand: %s", args[0])
	}
}

func listObligations(client *api.Client, snaps *cache.Store, args []string) error {
	fs := flag.NewFlagSet("obligations list", flag.ExitOnError)
	from := fs.String("from", "", "Earliest due date (YYYY-MM-DD)")
	to := fs.String("to", "", "Latest due date (YYYY-MM-DD)")
	_ = fs.Parse(args)

	ctx := context.Background()
	var obligations []models.Obligation
	var err error

	// A date window is a live query; only the full list is cached.
	if *from != "" || *to != "" {
		var filter api.ObligationFilter
		if *from != "" {
			start, parseErr := models.ParseDate(*from)
			if parseErr != nil {
				return parseErr
			}
			filter.Start = &start
		}
		if *to != "" {
			end, parseErr := models.ParseDate(*to)
			if parseErr != nil {
				return parseErr
			}
			filter.End = &end
		}
		obligations, err = client.ListObligations(ctx, filter)
	} else {
		obligations, err = fetchOrCache(snaps, "obligations", func() ([]models.Obligation, error) {
			return client.ListObligations(ctx, api.ObligationFilter{})
		})
	}
	if err != nil {
		return fmt.Errorf("failed to list obligations: %w", err)
	}

	if len(obligations) == 0 {
		fmt.Println("No obligations found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tDUE\tSTATUS\tCONTACT\tID")
	_, _ = fmt.Fprintln(w, "-----\t---\t------\t-------\t--")

	for _, o := range obligations {
		contact := "-"
		if o.ContactID != nil {
			contact = fmt.Sprintf("%d", *o.ContactID)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			o.Title, o.DueDate.Format("2006-01-02 15:04"), o.Status, contact, o.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d obligation(s)\n", len(obligations))
	return nil
}

func addObligation(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("obligations add", flag.ExitOnError)
	title := fs.String("title", "", "Obligation title (required)")
	due := fs.String("due", "", "Due date, RFC3339 or YYYY-MM-DD (required)")
	description := fs.String("desc", "", "Longer description")
	contact := fs.Int64("contact", 0, "Contact ID this obligation relates to")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if *due == "" {
		return fmt.Errorf("--due is required")
	}
	dueAt, err := parseDue(*due)
	if err != nil {
		return err
	}

	draft := models.ObligationDraft{
		Title:   *title,
		DueDate: dueAt,
	}
	if *description != "" {
		draft.Description = description
	}
	if *contact != 0 {
		draft.ContactID = contact
	}

	ctx := context.Background()
	obligations := store.NewObligations(client, storeOptions(nil))
	obligation, err := obligations.Create(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create obligation: %w", err)
	}

	fmt.Printf("✓ Obligation created: %s (ID: %d)\n", obligation.Title, obligation.ID)
	fmt.Printf("  Due: %s\n", obligation.DueDate.Format("2006-01-02 15:04"))
	return nil
}

// toggleObligation flips an obligation between open and done.
func toggleObligation(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("obligations done", flag.ExitOnError)
	_ = fs.Parse(args)

	// First positional arg is the obligation ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("obligation ID is required")
	}
	id, err := parseID(fs.Args()[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	notifier := store.NewNotifier(0)
	obligations := store.NewObligations(client, storeOptions(notifier))
	if err := obligations.Load(ctx); err != nil {
		return fmt.Errorf("failed to load obligations: %w", err)
	}
	obligation, ok := obligations.Get(id)
	if !ok {
		return fmt.Errorf("obligation not found: %d", id)
	}

	var mutErr error
	if obligation.Status == models.ObligationDone {
		mutErr = obligations.Reopen(ctx, id)
	} else {
		mutErr = obligations.MarkDone(ctx, id)
	}
	drainNotifications(notifier)
	if mutErr != nil {
		return fmt.Errorf("update rejected: %w", mutErr)
	}

	if obligation.Status == models.ObligationDone {
		fmt.Printf("✓ Obligation reopened: %s (ID: %d)\n", obligation.Title, id)
	} else {
		fmt.Printf("✓ Obligation done: %s (ID: %d)\n", obligation.Title, id)
	}
	return nil
}

func deleteObligation(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("obligations delete", flag.ExitOnError)
	_ = fs.Parse(args)

	// First positional arg is the obligation ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("obligation ID is required")
	}
	id, err := parseID(fs.Args()[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	notifier := store.NewNotifier(0)
	obligations := store.NewObligations(client, storeOptions(notifier))
	if err := obligations.Load(ctx); err != nil {
		return fmt.Errorf("failed to load obligations: %w", err)
	}
	obligation, ok := obligations.Get(id)
	if !ok {
		return fmt.Errorf("obligation not found: %d", id)
	}

	delErr := obligations.Remove(ctx, id)
	drainNotifications(notifier)
	if delErr != nil {
		return fmt.Errorf("delete rejected: %w", delErr)
	}

	fmt.Printf("✓ Obligation deleted: %s (ID: %d)\n", obligation.Title, id)
	return nil
}

func obligationAgenda(client *api.Client, snaps *cache.Store, args []string) error {
	fs := flag.NewFlagSet("obligations agenda", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()
	obligations, err := fetchOrCache(snaps, "obligations", func() ([]models.Obligation, error) {
		return client.ListObligations(ctx, api.ObligationFilter{})
	})
	if err != nil {
		return fmt.Errorf("failed to list obligations: %w", err)
	}

	agenda := views.BuildAgenda(obligations, time.Now())
	if agenda.OpenCount() == 0 && len(agenda.Done) == 0 {
		fmt.Println("Nothing on the agenda")
		return nil
	}

	printBucket := func(header, marker string, group []models.Obligation) {
		if len(group) == 0 {
			return
		}
		fmt.Printf("%s\n", header)
		for _, o := range group {
			contact := ""
			if o.ContactID != nil {
				contact = fmt.Sprintf("  (contact %d)", *o.ContactID)
			}
			fmt.Printf("  %s [%d] %s  %s%s\n",
				marker, o.ID, o.Title, o.DueDate.Format("2006-01-02 15:04"), contact)
		}
		fmt.Println()
	}

	printBucket("OVERDUE", "🔴", agenda.Overdue)
	printBucket("TODAY", "🟡", agenda.Today)
	printBucket("UPCOMING", "🟢", agenda.Upcoming)
	printBucket("DONE", "✓", agenda.Done)

	fmt.Printf("Open: %d obligation(s)\n", agenda.OpenCount())
	return nil
}
