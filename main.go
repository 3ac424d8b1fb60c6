// ABOUTME: Entry point for the funil CRM client
// ABOUTME: Routes to CLI commands, the TUI, the web board, and the MCP server
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/cache"
	"github.com/funilhq/funil/cli"
	"github.com/funilhq/funil/config"
	"github.com/funilhq/funil/tui"
)

const version = "0.1.0"

func main() {
	// A .env in the working directory can supply FUNIL_* overrides.
	_ = godotenv.Load()

	setupLogging()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("funil version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	// init and token manage the config itself, so they run before the
	// service client is built.
	switch command {
	case "init":
		if err := cli.InitCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	case "token":
		if err := cli.TokenCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := api.New(api.Config{
		BaseURL: cfg.Server,
		Token:   cfg.Token,
		Timeout: cfg.Timeout(),
		Logger:  slog.Default(),
	})

	switch command {
	case "contacts":
		if err := cli.ContactsCommand(client, openCache(cfg), commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "deals":
		if err := cli.DealsCommand(client, openCache(cfg), commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "obligations":
		if err := cli.ObligationsCommand(client, openCache(cfg), commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "stats":
		if err := cli.StatsCommand(client, openCache(cfg), commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "health":
		if err := cli.HealthCommand(client); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "status":
		if err := cli.StatusCommand(cfg, client); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "graph":
		if err := cli.GraphCommand(client, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "web":
		if err := cli.WebCommand(client, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "tui":
		if err := tui.Run(client); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}
	case "mcp":
		if err := cli.MCPCommand(client); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setupLogging sends structured logs to stderr so stdout stays parseable.
func setupLogging() {
	level := slog.LevelWarn
	if os.Getenv("FUNIL_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// openCache opens the snapshot cache, or returns nil so commands fall back
// to live-only mode when the cache cannot be opened.
func openCache(cfg *config.Config) *cache.Store {
	snaps, err := cache.Open(cfg.CachePath)
	if err != nil {
		slog.Warn("snapshot cache unavailable", "path", cfg.CachePath, "error", err)
		return nil
	}
	return snaps
}

func printUsage() {
	fmt.Printf(`funil v%s - Sales funnel CRM client

USAGE:
  funil [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit

SETUP:
  funil init             Configure the entity service connection
    --server <url>          Entity service URL (default: %s)
    --token <token>         Bearer token (prompted when omitted)

  funil token            Replace the stored bearer token
  funil status           Show configuration and probe the service
  funil health           Check that the entity service is reachable

CONTACTS:
  funil contacts list    List contacts
    --search <text>         Filter by name, email, or phone

  funil contacts add     Add a new contact
    --name <name>           Contact name (required)
    --email <email>         Email address
    --phone <phone>         Phone number
    --stage <stage>         lead or client (default: lead)
    --heat <heat>           hot, warm, or cold (default: cold)
    --notes <notes>         Notes about contact
    --real                  Mark as a real contact

  funil contacts update [flags] <id>  Update an existing contact
    --name, --email, --phone, --stage, --heat, --await, --notes, --real
    Note: flags must come before the contact ID

  funil contacts delete <id>  Delete a contact

DEALS:
  funil deals list       List deals
    --column <column>       Filter by pipeline column
    --search <text>         Filter by title

  funil deals add        Add a new deal
    --title <title>         Deal title (required)
    --contact <id>          Contact ID (required)
    --value <amount>        Deal value
    --column <column>       Pipeline column (default: novo)
    --priority <priority>   baixa, normal, or alta (default: normal)
    --due <date>            Due date (YYYY-MM-DD)
    --tags <a,b,c>          Comma-separated tags

  funil deals move <id> <column>  Move a deal to another column
  funil deals update [flags] <id> Update an existing deal
  funil deals delete <id>         Delete a deal
  funil deals board               Show the pipeline board

OBLIGATIONS:
  funil obligations list    List obligations
    --from <date>             Earliest due date (YYYY-MM-DD)
    --to <date>               Latest due date (YYYY-MM-DD)

  funil obligations add     Add a new obligation
    --title <title>           Obligation title (required)
    --due <date>              Due date, RFC3339 or YYYY-MM-DD (required)
    --desc <text>             Longer description
    --contact <id>            Related contact ID

  funil obligations done <id>    Toggle an obligation done or open
  funil obligations delete <id>  Delete an obligation
  funil obligations agenda       Show the bucketed agenda

VIEWS:
  funil stats            Show the dashboard
  funil graph            Generate the pipeline graph
    --output <file>         Output file (default: stdout)
  funil tui              Start the interactive terminal UI
  funil web              Start the HTML board server
    --port <port>           Port to listen on (default: 8080)

MCP SERVER:
  funil mcp              Start MCP server (for Claude Desktop integration)

EXAMPLES:
  # First run
  funil init --server https://crm.example.com

  # Add a contact and a deal for them
  funil contacts add --name "Ana Souza" --email "ana@example.com" --heat hot
  funil deals add --title "Website redesign" --contact 1 --value 12000

  # Move the deal along the pipeline
  funil deals move 1 proposta

  # What needs doing
  funil obligations agenda

`, version, config.DefaultServer)
}
