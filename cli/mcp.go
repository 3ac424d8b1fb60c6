// ABOUTME: MCP server subcommand
// ABOUTME: Exposes CRM tools, prompts, and resources over stdio for assistant integration
package cli

import (
	"context"
	"log/slog"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(client *api.Client) error {
	slog.Info("starting funil MCP server")

	// Create handlers
	contactHandlers := handlers.NewContactHandlers(client)
	dealHandlers := handlers.NewDealHandlers(client)
	obligationHandlers := handlers.NewObligationHandlers(client)
	statsHandlers := handlers.NewStatsHandlers(client)
	graphHandlers := handlers.NewGraphHandlers(client)
	promptHandlers := handlers.NewPromptHandlers(client)
	resourceHandlers := handlers.NewResourceHandlers(client)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "funil",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, email, or phone",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact from the CRM",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a new deal linked to a contact",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_deal",
		Description: "Move a deal to another pipeline column",
	}, dealHandlers.MoveDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_deals",
		Description: "Search for deals by title or tag, optionally within one column",
	}, dealHandlers.FindDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_deal",
		Description: "Delete a deal from the pipeline",
	}, dealHandlers.DeleteDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_obligation",
		Description: "Add an obligation with a due date, optionally linked to a contact",
	}, obligationHandlers.AddObligation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_obligation",
		Description: "Mark an obligation as done",
	}, obligationHandlers.CompleteObligation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_obligations",
		Description: "Search for obligations by title, optionally within a due date range",
	}, obligationHandlers.FindObligations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "crm_stats",
		Description: "Summarize pipeline totals, contact counts, and obligation health",
	}, statsHandlers.CRMStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_graph",
		Description: "Render the deal pipeline as Graphviz DOT source",
	}, graphHandlers.PipelineGraph)

	// Register prompts and resources
	for _, prompt := range handlers.Prompts() {
		server.AddPrompt(prompt, promptHandlers.GetPrompt)
	}
	for _, resource := range handlers.Resources() {
		server.AddResource(resource, resourceHandlers.ReadResource)
	}

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
