// Command createstaff creates a staff account directly in the database.
// Registration only grants staff to requests made by an existing staff
// user, so the first one has to be created out of band.
//
// Usage:
//
//	TASKS_DATABASE_URL=... TASKS_AUTH_JWT_SECRET=... createstaff -username admin
//
// The password is read from the TASKS_STAFF_PASSWORD environment variable,
// or from the first line of standard input when it is unset.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
)

// passwordEnv names the variable holding the new account's password.
const passwordEnv = "TASKS_STAFF_PASSWORD"

func main() {
	username := flag.String("username", "", "Username of the staff account to create")
	flag.Parse()

	if err := run(*username, os.Stdin); err != nil {
		log.Fatalf("createstaff: %v", err)
	}
}

func run(username string, stdin io.Reader) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("-username is required")
	}

	password, err := readPassword(stdin)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := domain.NewUser(username, password)
	if err != nil {
		return err
	}
	user.IsStaff = true

	users := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, l)
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return fmt.Errorf("username %q is already taken", user.Username)
		}
		return fmt.Errorf("failed to create staff user: %w", err)
	}

	fmt.Printf("Created staff user %s (%s)\n", user.Username, user.ID)
	return nil
}

// readPassword returns the configured password, falling back to one line of stdin.
func readPassword(stdin io.Reader) (string, error) {
	if password := os.Getenv(passwordEnv); password != "" {
		return password, nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required: set %s or pipe it on stdin", passwordEnv)
	}
	return password, nil
}
