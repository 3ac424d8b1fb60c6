// ABOUTME: Web board CLI command
// ABOUTME: Starts the read-only HTML board server
package cli

import (
	"flag"
	"fmt"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/web"
)

// WebCommand starts the HTML board server.
func WebCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	server, err := web.NewServer(client)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	return server.Start(*port)
}
