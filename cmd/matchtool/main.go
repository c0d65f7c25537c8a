package main

import (
	"carrier-match-service/internal/adapters/repositories"
	"carrier-match-service/internal/config"
	"carrier-match-service/internal/platform/db"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var (
	dbDriver    string
	databaseURL string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "matchtool",
		Short:         "Manage the carrier store and run carrier searches from the shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", config.Get("DB_DRIVER", db.DriverPostgres), "database driver (pgx, sqlite)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", ""), "carrier store DSN")

	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(searchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func openStore() (*sql.DB, repositories.Dialect, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, 0, errors.New("--database-url or DATABASE_URL is required")
	}

	conn, err := db.Open(dbDriver, databaseURL)
	if err != nil {
		return nil, 0, err
	}
	return conn, repositories.DialectFor(dbDriver), nil
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the carriers and loads tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := openStore()
			if err != nil {
				return err
			}
			defer conn.Close()

			log.Println("Initializing database schema...")
			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			log.Println("Schema ready.")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and upsert carriers and loads from a JSON seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, dialect, err := openStore()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}

			log.Printf("Seeding database from %s...", seedPath)
			if err := repositories.SeedFromJSON(cmd.Context(), conn, dialect, seedPath); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			log.Println("Seeding complete.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedPath, "file", "f", config.Get("SEED_PATH", "data/seeds/carriers.json"), "seed file path")

	return cmd
}
