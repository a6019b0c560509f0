// Package commands implements the operator subcommands of the staybook binary.
package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/example/staybook/internal/application"
	"github.com/example/staybook/internal/config"
	"github.com/example/staybook/internal/persistence"
	"github.com/example/staybook/internal/persistence/sqlite"
)

// CreateAccount provisions a host account directly in the database. The API
// has no account signup surface, so new accounts enter through this command.
func CreateAccount(args []string) {
	fs := flag.NewFlagSet("create-account", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to the YAML configuration file")
	email := fs.String("email", "", "Email address of the new account")
	displayName := fs.String("name", "", "Display name of the new account")
	admin := fs.Bool("admin", false, "Grant administrator privileges")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: staybook create-account [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates a host account with an Argon2id password hash.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	address := strings.ToLower(strings.TrimSpace(*email))
	if address == "" {
		fmt.Print("Enter email: ")
		if _, err := fmt.Scanln(&address); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading email: %v\n", err)
			os.Exit(1)
		}
		address = strings.ToLower(strings.TrimSpace(address))
	}
	if address == "" {
		fmt.Fprintln(os.Stderr, "Email cannot be empty")
		os.Exit(1)
	}

	name := strings.TrimSpace(*displayName)
	if name == "" {
		name = address
	}

	password := readPassword("Enter password:   ")
	confirm := readPassword("Confirm password: ")
	if password == "" {
		fmt.Fprintln(os.Stderr, "Password cannot be empty")
		os.Exit(1)
	}
	if password != confirm {
		fmt.Fprintln(os.Stderr, "Passwords do not match")
		os.Exit(1)
	}

	hash, err := application.CreatePasswordHash(password, application.DefaultArgon2idParams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer storage.Close()

	ctx := context.Background()
	if err := storage.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying migrations: %v\n", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	account := persistence.Account{
		ID:           uuid.NewString(),
		Email:        address,
		DisplayName:  name,
		PasswordHash: hash,
		IsAdmin:      *admin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := sqlite.NewAccountRepository(storage).CreateAccount(ctx, account); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created account %s (%s)\n", account.ID, account.Email)
}

// readPassword reads a line from stdin with echo disabled, falling back to
// visible input when stdin is not a terminal.
func readPassword(prompt string) string {
	fmt.Print(prompt)

	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			os.Exit(1)
		}
		return string(password)
	}

	var password string
	if _, err := fmt.Scanln(&password); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}
	return password
}
