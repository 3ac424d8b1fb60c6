// ABOUTME: Deal CLI commands
// ABOUTME: List, add, move, update, and delete deals plus the kanban board view
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/cache"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/store"
	"github.com/funilhq/funil/views"
)

// DealsCommand routes the deals subcommands.
func DealsCommand(client *api.Client, snaps *cache.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("deals requires a subcommand: list, add, move, update, delete, board")
	}
	switch args[0] {
	case "list":
		return listDeals(client, snaps, args[1:])
	case "add":
		return addDeal(client, args[1:])
	case "move":
		return moveDeal(client, args[1:])
	case "update":
		return updateDeal(client, args[1:])
	case "delete":
		return deleteDeal(client, args[1:])
	case "board":
		return dealBoard(client, snaps, args[1:])
	default:
		return fmt.Errorf("unknown deals subcommand: %s", args[0])
	}
}

func listDeals(client *api.Client, snaps *cache.Store, args []string) error {
	fs := flag.NewFlagSet("deals list", flag.ExitOnError)
	column := fs.String("column", "", "Filter by pipeline column")
	search := fs.String("search", "", "Filter by title or tag")
	_ = fs.Parse(args)

	var col models.Column
	if *column != "" {
		parsed, err := models.ParseColumn(*column)
		if err != nil {
			return err
		}
		col = parsed
	}

	ctx := context.Background()
	deals, err := fetchOrCache(snaps, "deals", func() ([]models.Deal, error) {
		return client.ListDeals(ctx, api.DealFilter{})
	})
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}

	if col != "" {
		deals = store.Project(deals, func(d models.Deal) bool { return d.Column == col })
	}
	deals = views.FilterDeals(deals, *search)
	if len(deals) == 0 {
		fmt.Println("No deals found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tCOLUMN\tVALUE\tPRIORITY\tDUE\tCONTACT\tID")
	_, _ = fmt.Fprintln(w, "-----\t------\t-----\t--------\t---\t-------\t--")

	for _, deal := range deals {
		due := "-"
		if deal.DueDate != nil {
			due = deal.DueDate.String()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\tR$ %.2f\t%s\t%s\t%d\t%d\n",
			deal.Title, deal.Column, deal.Value, deal.Priority, due, deal.ContactID, deal.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d deal(s)\n", len(deals))
	return nil
}

func addDeal(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("deals add", flag.ExitOnError)
	title := fs.String("title", "", "Deal title (required)")
	contact := fs.Int64("contact", 0, "Contact ID the deal belongs to (required)")
	value := fs.Float64("value", 0, "Deal value in BRL")
	column := fs.String("column", "", "Pipeline column (default: novo)")
	priority := fs.String("priority", "", "Priority: baixa, normal, or alta (default: normal)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	tags := fs.String("tags", "", "Comma-separated tags")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if *contact == 0 {
		return fmt.Errorf("--contact is required")
	}

	draft := models.DealDraft{
		ContactID: *contact,
		Title:     *title,
		Value:     *value,
		Column:    models.Column(*column),
		Priority:  models.Priority(*priority),
	}
	if *due != "" {
		d, err := models.ParseDate(*due)
		if err != nil {
			return err
		}
		draft.DueDate = &d
	}
	if *tags != "" {
		for _, tag := range strings.Split(*tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				draft.Tags = append(draft.Tags, tag)
			}
		}
	}

	ctx := context.Background()
	deals := store.NewDeals(client, storeOptions(nil))
	deal, err := deals.Create(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	fmt.Printf("✓ Deal created: %s (ID: %d)\n", deal.Title, deal.ID)
	fmt.Printf("  Column: %s  Value: R$ %.2f  Priority: %s\n", deal.Column, deal.Value, deal.Priority)
	return nil
}

func moveDeal(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("deals move", flag.ExitOnError)
	_ = fs.Parse(args)

	// Positional args: deal ID, then the target column
	if len(fs.Args()) < 2 {
		return fmt.Errorf("usage: deals move <id> <column>")
	}
	id, err := parseID(fs.Args()[0])
	if err != nil {
		return err
	}
	column, err := models.ParseColumn(fs.Args()[1])
	if err != nil {
		return err
	}

	ctx := context.Background()
	notifier := store.NewNotifier(0)
	deals := store.NewDeals(client, storeOptions(notifier))
	if err := deals.Load(ctx); err != nil {
		return fmt.Errorf("failed to load deals: %w", err)
	}
	deal, ok := deals.Get(id)
	if !ok {
		return fmt.Errorf("deal not found: %d", id)
	}
	if deal.Column == column {
		fmt.Printf("Deal %d is already in %s\n", id, column)
		return nil
	}

	moveErr := deals.MoveColumn(ctx, id, column)
	drainNotifications(notifier)
	if moveErr != nil {
		return fmt.Errorf("move rejected: %w", moveErr)
	}

	fmt.Printf("✓ Deal moved: %s → %s (ID: %d)\n", deal.Column, column, id)
	return nil
}

func updateDeal(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("deals update", flag.ExitOnError)
	title := fs.String("title", "", "Deal title")
	contact := fs.Int64("contact", 0, "Contact ID the deal belongs to")
	value := fs.Float64("value", 0, "Deal value in BRL")
	column := fs.String("column", "", "Pipeline column")
	priority := fs.String("priority", "", "Priority: baixa, normal, or alta")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	tags := fs.String("tags", "", "Comma-separated tags")
	_ = fs.Parse(args)

	// First positional arg is the deal ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	id, err := parseID(fs.Args()[0])
	if err != nil {
		return err
	}

	var patch models.DealPatch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "contact":
			patch.ContactID = contact
		case "value":
			patch.Value = value
		case "column":
			v, err := models.ParseColumn(*column)
			if err != nil {
				parseErr = err
				return
			}
			patch.Column = &v
		case "priority":
			v, err := models.ParsePriority(*priority)
			if err != nil {
				parseErr = err
				return
			}
			patch.Priority = &v
		case "due":
			d, err := models.ParseDate(*due)
			if err != nil {
				parseErr = err
				return
			}
			patch.DueDate = &d
		case "tags":
			var parsed []string
			for _, tag := range strings.Split(*tags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					parsed = append(parsed, tag)
				}
			}
			patch.Tags = &parsed
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if patch.Empty() {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	ctx := context.Background()
	notifier := store.NewNotifier(0)
	deals := store.NewDeals(client, storeOptions(notifier))
	if err := deals.Load(ctx); err != nil {
		return fmt.Errorf("failed to load deals: %w", err)
	}
	if _, ok := deals.Get(id); !ok {
		return fmt.Errorf("deal not found: %d", id)
	}

	mutErr := deals.MutateField(ctx, id, patch)
	drainNotifications(notifier)
	if mutErr != nil {
		return fmt.Errorf("update rejected: %w", mutErr)
	}

	updated, _ := deals.Get(id)
	fmt.Printf("✓ Deal updated: %s (ID: %d)\n", updated.Title, id)
	return nil
}

func deleteDeal(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("deals delete", flag.ExitOnError)
	_ = fs.Parse(args)

	// First positional arg is the deal ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("deal ID is required")
	}
	id, err := parseID(fs.Args()[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	notifier := store.NewNotifier(0)
	deals := store.NewDeals(client, storeOptions(notifier))
	if err := deals.Load(ctx); err != nil {
		return fmt.Errorf("failed to load deals: %w", err)
	}
	deal, ok := deals.Get(id)
	if !ok {
		return fmt.Errorf("deal not found: %d", id)
	}

	delErr := deals.Remove(ctx, id)
	drainNotifications(notifier)
	if delErr != nil {
		return fmt.Errorf("delete rejected: %w", delErr)
	}

	fmt.Printf("✓ Deal deleted: %s (ID: %d)\n", deal.Title, id)
	return nil
}

func dealBoard(client *api.Client, snaps *cache.Store, args []string) error {
	fs := flag.NewFlagSet("deals board", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()
	deals, err := fetchOrCache(snaps, "deals", func() ([]models.Deal, error) {
		return client.ListDeals(ctx, api.DealFilter{})
	})
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}

	for _, col := range views.Kanban(deals) {
		var total float64
		for _, deal := range col.Deals {
			total += deal.Value
		}

		fmt.Printf("%s  %d deal(s), R$ %.2f\n", strings.ToUpper(string(col.Column)), len(col.Deals), total)
		if len(col.Deals) == 0 {
			fmt.Println("  (empty)")
		}
		for _, deal := range col.Deals {
			due := ""
			if deal.DueDate != nil {
				due = "  due " + deal.DueDate.String()
			}
			fmt.Printf("  [%d] %s  R$ %.2f  %s%s\n", deal.ID, deal.Title, deal.Value, deal.Priority, due)
		}
		fmt.Println()
	}
	return nil
}
