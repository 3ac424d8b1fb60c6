// ABOUTME: Dashboard statistics and health check commands
// ABOUTME: Aggregates all three entity lists into the text dashboard
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/cache"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/viz"
)

// StatsCommand renders the dashboard from all three entity lists.
func StatsCommand(client *api.Client, snaps *cache.Store, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()
	contacts, err := fetchOrCache(snaps, "contacts", func() ([]models.Contact, error) {
		return client.ListContacts(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := fetchOrCache(snaps, "deals", func() ([]models.Deal, error) {
		return client.ListDeals(ctx, api.DealFilter{})
	})
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}
	obligations, err := fetchOrCache(snaps, "obligations", func() ([]models.Obligation, error) {
		return client.ListObligations(ctx, api.ObligationFilter{})
	})
	if err != nil {
		return fmt.Errorf("failed to list obligations: %w", err)
	}

	stats := viz.GenerateDashboardStats(contacts, deals, obligations, time.Now())
	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// HealthCommand pings the entity service.
func HealthCommand(client *api.Client) error {
	ctx := context.Background()
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Println("✓ Entity service is healthy")
	return nil
}
