// ABOUTME: Pipeline graph CLI command
// ABOUTME: Renders the deal pipeline as Graphviz xdot, to stdout or a file
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/viz"
)

// GraphCommand generates the deal pipeline graph.
func GraphCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Graphs always reflect the live pipeline, never a snapshot.
	ctx := context.Background()
	deals, err := client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}
	contacts, err := client.ListContacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	dot, err := viz.PipelineGraph(deals, contacts)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(dot), 0644); err != nil {
			return err
		}
		fmt.Printf("✓ Graph written to %s\n", *output)
		return nil
	}

	fmt.Println(dot)
	return nil
}
