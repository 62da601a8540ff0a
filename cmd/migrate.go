package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations/<target> directory",
	}
	migrateRollback bool
	migrateDir      string
	migrateTarget   string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations root directory")
	migrateCmd.PersistentFlags().StringVarP(&migrateTarget, "target", "t", "gateway", "which database to migrate: gateway or healthcare")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	source := cfg.Database.GetDSN()
	switch migrateTarget {
	case "gateway":
	case "healthcare":
		if cfg.Department.Database.Source != "" {
			source = cfg.Department.Database.GetDSN()
		}
	default:
		return fmt.Errorf("unknown migration target %q", migrateTarget)
	}

	db, err := goose.OpenDBWithDriver(sqlDriver, source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, filepath.Join(migrateDir, migrateTarget)); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
