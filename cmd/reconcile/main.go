package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/radiocast/backend-go/internal/config"
	"github.com/radiocast/backend-go/internal/storage"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "reconcile",
		Usage: "Inspect the object store against the programme catalog",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Count stored objects and published programmes",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runStats,
			},
			{
				Name:   "report",
				Usage:  "List stored objects with no published programme",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runReport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runStats(c *cli.Context) error {
	cfg := config.Load()
	paginator := storage.NewPaginator(storage.NewSelector(cfg.Storage))

	result, err := paginator.Drain(c.Context, cfg.Storage.Prefix, func([]storage.Object) error { return nil })
	if err != nil {
		return fmt.Errorf("drain object store: %w", err)
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var published int
	if err := db.QueryRowContext(c.Context,
		`SELECT COUNT(*) FROM programmes WHERE firebase_storage_path <> ''`,
	).Scan(&published); err != nil {
		return fmt.Errorf("count published programmes: %w", err)
	}

	remaining := result.Scanned - published
	if remaining < 0 {
		remaining = 0
	}
	fmt.Printf("total objects:    %d\n", result.Scanned)
	fmt.Printf("published:        %d\n", published)
	fmt.Printf("remaining:        %d\n", remaining)
	if result.Truncated {
		fmt.Println("note: scan hit the drain cap, counts are partial")
	}
	return nil
}

func runReport(c *cli.Context) error {
	cfg := config.Load()
	paginator := storage.NewPaginator(storage.NewSelector(cfg.Storage))

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	published, err := publishedPaths(c.Context, db)
	if err != nil {
		return err
	}

	unlinked := 0
	result, err := paginator.Drain(c.Context, cfg.Storage.Prefix, func(batch []storage.Object) error {
		for _, obj := range batch {
			if _, ok := published[obj.Path]; !ok {
				fmt.Println(obj.Path)
				unlinked++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("drain object store: %w", err)
	}

	fmt.Printf("\n%d unlinked of %d scanned\n", unlinked, result.Scanned)
	if result.Truncated {
		fmt.Println("note: scan hit the drain cap, the report is partial")
	}
	return nil
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func publishedPaths(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT firebase_storage_path FROM programmes WHERE firebase_storage_path <> ''`)
	if err != nil {
		return nil, fmt.Errorf("query published paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan published path: %w", err)
		}
		paths[path] = struct{}{}
	}
	return paths, rows.Err()
}
