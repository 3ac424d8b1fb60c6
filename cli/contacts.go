// ABOUTME: Contact CLI commands
// ABOUTME: List, add, update, and delete contacts through the synchronizer
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/cache"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/store"
	"github.com/funilhq/funil/views"
)

// ContactsCommand routes the contacts subcommands.
func ContactsCommand(client *api.Client, snaps *cache.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("contacts requires a subcommand: list, add, update, delete")
	}
	switch args[0] {
	case "list":
		return listContacts(client, snaps, args[1:])
	case "add":
		return addContact(client, args[1:])
	case "update":
		return updateContact(client, args[1:])
	case "delete":
		return deleteContact(client, args[1:])
	default:
		return fmt.Errorf("unknown contacts subcommand: %s", args[0])
	}
}

func listContacts(client *api.Client, snaps *cache.Store, args []string) error {
	fs := flag.NewFlagSet("contacts list", flag.ExitOnError)
	search := fs.String("search", "", "Filter by name, email, or phone")
	_ = fs.Parse(args)

	ctx := context.Background()
	contacts, err := fetchOrCache(snaps, "contacts", func() ([]models.Contact, error) {
		return client.ListContacts(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts = views.FilterContacts(contacts, *search)
	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSTAGE\tHEAT\tAWAITING\tEMAIL\tPHONE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t----\t--------\t-----\t-----\t--")

	for _, contact := range contacts {
		awaiting := string(contact.AwaitStatus)
		if contact.AwaitStatus == models.AwaitNone {
			awaiting = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			contact.Name, contact.Stage, contact.Heat, awaiting,
			strOrDash(contact.Email), strOrDash(contact.Phone), contact.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

func addContact(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("contacts add", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	stage := fs.String("stage", "", "Stage: lead or client (default: lead)")
	heat := fs.String("heat", "", "Heat: hot, warm, or cold (default: cold)")
	notes := fs.String("notes", "", "Notes about the contact")
	real := fs.Bool("real", false, "Mark as a real contact rather than a prospect")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	draft := models.ContactDraft{
		Name:   *name,
		Stage:  models.Stage(*stage),
		Heat:   models.Heat(*heat),
		IsReal: *real,
	}
	if *email != "" {
		draft.Email = email
	}
	if *phone != "" {
		draft.Phone = phone
	}
	if *notes != "" {
		draft.Notes = notes
	}

	ctx := context.Background()
	contacts := store.NewContacts(client, storeOptions(nil))
	contact, err := contacts.Create(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %d)\n", contact.Name, contact.ID)
	if contact.Email != nil {
		fmt.Printf("  Email: %s\n", *contact.Email)
	}
	if contact.Phone != nil {
		fmt.Printf("  Phone: %s\n", *contact.Phone)
	}
	fmt.Printf("  Stage: %s  Heat: %s\n", contact.Stage, contact.Heat)
	return nil
}

func updateContact(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("contacts update", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	stage := fs.String("stage", "", "Stage: lead or client")
	heat := fs.String("heat", "", "Heat: hot, warm, or cold")
	await := fs.String("await", "", "Await status: none, awaiting_client, awaiting_us, awaiting_payment")
	notes := fs.String("notes", "", "Notes about the contact")
	real := fs.Bool("real", false, "Mark as a real contact")
	_ = fs.Parse(args)

	// First positional arg is the contact ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id, err := parseID(fs.Args()[0])
	if err != nil {
		return err
	}

	// Only flags the user actually passed become part of the patch, so an
	// explicit empty value clears a field.
	var patch models.ContactPatch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "email":
			patch.Email = email
		case "phone":
			patch.Phone = phone
		case "stage":
			v, err := models.ParseStage(*stage)
			if err != nil {
				parseErr = err
				return
			}
			patch.Stage = &v
		case "heat":
			v, err := models.ParseHeat(*heat)
			if err != nil {
				parseErr = err
				return
			}
			patch.Heat = &v
		case "await":
			v, err := models.ParseAwaitStatus(*await)
			if err != nil {
				parseErr = err
				return
			}
			patch.AwaitStatus = &v
		case "notes":
			patch.Notes = notes
		case "real":
			patch.IsReal = real
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
	contacts := store.NewContacts(client, storeOptions(notifier))
	if err := contacts.Load(ctx); err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	if _, ok := contacts.Get(id); !ok {
		return fmt.Errorf("contact not found: %d", id)
	}

	mutErr := contacts.MutateField(ctx, id, patch)
	drainNotifications(notifier)
	if mutErr != nil {
		return fmt.Errorf("update rejected: %w", mutErr)
	}

	updated, _ := contacts.Get(id)
	fmt.Printf("✓ Contact updated: %s (ID: %d)\n", updated.Name, id)
	return nil
}

func deleteContact(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("contacts delete", flag.ExitOnError)
	_ = fs.Parse(args)

	// First positional arg is the contact ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id, err := parseID(fs.Args()[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	notifier := store.NewNotifier(0)
	contacts := store.NewContacts(client, storeOptions(notifier))
	if err := contacts.Load(ctx); err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	contact, ok := contacts.Get(id)
	if !ok {
		return fmt.Errorf("contact not found: %d", id)
	}

	delErr := contacts.Remove(ctx, id)
	drainNotifications(notifier)
	if delErr != nil {
		return fmt.Errorf("delete rejected: %w", delErr)
	}

	fmt.Printf("✓ Contact deleted: %s (ID: %d)\n", contact.Name, id)
	return nil
}
