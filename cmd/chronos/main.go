package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/chronos/internal/cli"
	"github.com/alexanderramin/chronos/internal/cli/formatter"
	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/optimizer"
	"github.com/alexanderramin/chronos/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.chronos/chronos.db
	dbPath := os.Getenv("CHRONOS_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".chronos", "chronos.db")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	locks := service.NewProjectLocks()

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("CHRONOS_LOG") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	app := &cli.App{
		Projects: service.NewProjectService(database, uow, locks, observer),
		Tasks:    service.NewTaskService(database, uow, locks, observer),
		Exchange: service.NewExchangeService(database, uow, locks, observer),
		Schedule: service.NewScheduleService(database, observer),
		Optimize: service.NewOptimizeService(database, uow, locks, optimizer.DefaultConfig(), observer),
	}

	return cli.NewRootCmd(app).Execute()
}
