// ABOUTME: Setup and configuration CLI commands
// ABOUTME: Handles first-run init, token rotation, and connection status
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"syscall"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/config"
	"golang.org/x/term"
)

// InitCommand configures the entity service connection.
func InitCommand(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	server := fs.String("server", config.DefaultServer, "Entity service URL")
	token := fs.String("token", "", "Bearer token (prompted when omitted)")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server = *server
	if *token != "" {
		cfg.Token = *token
	} else if t, err := promptToken(); err != nil {
		return err
	} else if t != "" {
		cfg.Token = t
	}

	// Generate device ID if not already set
	if cfg.DeviceID == "" {
		cfg.DeviceID = config.GenerateDeviceID()
		fmt.Printf("✓ Generated new device ID: %s\n", cfg.DeviceID)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Configuration saved to %s\n", config.Path())
	if cfg.Token == "" {
		fmt.Println("\nNext step: Run 'funil token' to set the bearer token")
	}
	return nil
}

// TokenCommand replaces the stored bearer token.
func TokenCommand(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	t, err := promptToken()
	if err != nil {
		return err
	}
	if t == "" {
		return fmt.Errorf("token must not be empty")
	}
	cfg.Token = t

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Token saved to %s\n", config.Path())
	return nil
}

// promptToken reads the bearer token without echoing it.
func promptToken() (string, error) {
	fmt.Print("Token: ")
	tokenBytes, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	fmt.Println() // New line after hidden input
	return strings.TrimSpace(string(tokenBytes)), nil
}

// StatusCommand prints the active configuration and probes the service.
func StatusCommand(cfg *config.Config, client *api.Client) error {
	fmt.Printf("Server:    %s\n", cfg.Server)
	if cfg.Token != "" {
		fmt.Println("Token:     set")
	} else {
		fmt.Println("Token:     not set. Run 'funil init' first")
	}
	if cfg.DeviceID != "" {
		fmt.Printf("Device:    %s\n", cfg.DeviceID)
	}
	fmt.Printf("Cache:     %s\n", cfg.CachePath)
	fmt.Printf("Config:    %s\n", config.Path())

	if err := client.Health(context.Background()); err != nil {
		fmt.Printf("Service:   ✗ unreachable (%v)\n", err)
	} else {
		fmt.Println("Service:   ✓ reachable")
	}
	return nil
}
