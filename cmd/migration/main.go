package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	postgresrepo "github.com/riskibarqy/matchday-alerts/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

var migrationDirs = []string{"./db/migrations", "/app/db/migrations"}

const usage = `usage: migration <command> [arg]

commands:
  up [n]         apply all pending migrations, or the next n
  down [n]       roll back n migrations (default 1)
  goto <v>       migrate up or down to version v
  version        print the current version and dirty flag
  force <v>      set the version without running migrations, to clear a dirty state
`

// command is one parsed invocation. arg is the step count or target version.
type command struct {
	name string
	arg  int
}

func main() {
	logger := logging.NewJSON(logging.LevelInfo)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("load .env failed", "error", err)
	}

	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(cmd, logger); err != nil {
		logger.Error("migration failed", "command", cmd.name, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New("missing command")
	}

	cmd := command{name: strings.ToLower(strings.TrimSpace(args[0]))}
	var raw string
	if len(args) > 1 {
		raw = strings.TrimSpace(args[1])
	}

	switch cmd.name {
	case "version", "status":
		cmd.name = "version"
		return cmd, nil
	case "up":
		if raw == "" {
			return cmd, nil
		}
		return cmd, parsePositive(raw, &cmd.arg)
	case "down":
		cmd.arg = 1
		if raw == "" {
			return cmd, nil
		}
		return cmd, parsePositive(raw, &cmd.arg)
	case "goto", "force":
		if raw == "" {
			return command{}, fmt.Errorf("%s requires a version", cmd.name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return command{}, fmt.Errorf("invalid version %q", raw)
		}
		cmd.arg = v
		return cmd, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", cmd.name)
	}
}

func parsePositive(raw string, out *int) error {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fmt.Errorf("step count must be a positive number, got %q", raw)
	}
	*out = n
	return nil
}

func run(cmd command, logger *logging.Logger) error {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return errors.New("DB_URL is required")
	}
	conn := postgresrepo.ConnConfig{URL: dbURL, DisablePreparedBinary: preparedBinaryDisabled()}

	dir, err := findMigrationsDir(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		return err
	}
	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, conn.ConnString())
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator", "error", err)
		}
	}()

	log := logger.With("command", cmd.name, "database", postgresrepo.DatabaseName(dbURL))
	switch cmd.name {
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none\ndirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
		return nil
	case "force":
		if err := m.Force(cmd.arg); err != nil {
			return fmt.Errorf("force version %d: %w", cmd.arg, err)
		}
		log.Info("migration version forced", "version", cmd.arg)
		return nil
	}

	var migrateErr error
	switch cmd.name {
	case "up":
		if cmd.arg > 0 {
			migrateErr = m.Steps(cmd.arg)
		} else {
			migrateErr = m.Up()
		}
	case "down":
		migrateErr = m.Steps(-cmd.arg)
	case "goto":
		migrateErr = m.Migrate(uint(cmd.arg))
	}
	if errors.Is(migrateErr, migrate.ErrNoChange) {
		log.Info("no migration changes")
		return nil
	}
	if migrateErr != nil {
		return migrateErr
	}
	log.Info("migrations applied", "source", source, "arg", cmd.arg)
	return nil
}

// findMigrationsDir prefers override, then the repo and container layouts.
func findMigrationsDir(override string) (string, error) {
	candidates := migrationDirs
	if override = strings.TrimSpace(override); override != "" {
		candidates = append([]string{override}, candidates...)
	}
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found in %s", strings.Join(candidates, ", "))
}

// preparedBinaryDisabled mirrors DB_DISABLE_PREPARED_BINARY_RESULT on the api, which defaults to on.
func preparedBinaryDisabled() bool {
	disable, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")))
	return err != nil || disable
}
