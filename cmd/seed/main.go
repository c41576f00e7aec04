package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type dbKeyType struct{}

var dbKey = dbKeyType{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the catalog database with initial data",
		Commands: []*cli.Command{
			{
				Name:  "programmes",
				Usage: "Seed programmes from a CSV file (title, broadcasted_date, category_id, subcategory_id, storage_path)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file with programme rows",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedProgrammes,
			},
			{
				Name:  "assignments",
				Usage: "Seed category assignments from a CSV file (user_id, category_id, subcategory_id)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file with assignment rows",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedAssignments,
			},
			{
				Name:   "settings",
				Usage:  "Seed default settings",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: seedSettings,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedProgrammes(c *cli.Context) error {
	db := dbFrom(c)

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.String("file"), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 5 {
		return fmt.Errorf("expected 5 columns, got %d", len(header))
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}

		categoryID, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return fmt.Errorf("row %d: invalid category_id %q", count+1, row[2])
		}

		var subcategoryID sql.NullInt64
		if row[3] != "" {
			id, err := strconv.ParseInt(row[3], 10, 64)
			if err != nil {
				return fmt.Errorf("row %d: invalid subcategory_id %q", count+1, row[3])
			}
			subcategoryID = sql.NullInt64{Int64: id, Valid: true}
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO programmes (title, broadcasted_date, category_id, subcategory_id, firebase_storage_path, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		`, row[0], row[1], categoryID, subcategoryID, nullIfEmpty(row[4]))
		if err != nil {
			return fmt.Errorf("failed to insert programme %q: %w", row[0], err)
		}
		count++
	}

	log.Printf("seeded %d programmes", count)
	return nil
}

func seedAssignments(c *cli.Context) error {
	db := dbFrom(c)

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.String("file"), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}

		userID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("row %d: invalid user_id %q", count+1, row[0])
		}

		var categoryID, subcategoryID sql.NullInt64
		if row[1] != "" {
			id, err := strconv.ParseInt(row[1], 10, 64)
			if err != nil {
				return fmt.Errorf("row %d: invalid category_id %q", count+1, row[1])
			}
			categoryID = sql.NullInt64{Int64: id, Valid: true}
		}
		if len(row) > 2 && row[2] != "" {
			id, err := strconv.ParseInt(row[2], 10, 64)
			if err != nil {
				return fmt.Errorf("row %d: invalid subcategory_id %q", count+1, row[2])
			}
			subcategoryID = sql.NullInt64{Int64: id, Valid: true}
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO assignments (user_id, category_id, subcategory_id)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, userID, categoryID, subcategoryID)
		if err != nil {
			return fmt.Errorf("failed to insert assignment for user %d: %w", userID, err)
		}
		count++
	}

	log.Printf("seeded %d assignments", count)
	return nil
}

func seedSettings(c *cli.Context) error {
	db := dbFrom(c)

	defaults := map[string]string{
		"storage_browser_enabled": "true",
	}
	for name, value := range defaults {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO settings (name, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (name) DO NOTHING
		`, name, value)
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", name, err)
		}
	}

	log.Printf("seeded %d default settings", len(defaults))
	return nil
}
