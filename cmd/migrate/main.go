package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/forgeledger/backend/internal/infrastructure/config"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/infrastructure/migration"
	"github.com/forgeledger/backend/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel       string
	migrationsRoot string
	log            *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "ForgeLedger database migration tool",
	Long: `Applies the versioned schema embedded in the binary to the database
selected by the usual configuration (config.toml, .env, FL_* variables).

Each driver (postgres, mysql, sqlite) ships its own migration directory
with identical version numbers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		return m.Up()
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		return m.Down()
	}),
}

var stepCmd = &cobra.Command{
	Use:     "step <n>",
	Short:   "Apply n migrations (positive=up, negative=down)",
	Example: "  migrate step -- -1",
	Args:    cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}),
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(v))
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current migration version",
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the migration version without running migrations",
	Long:  "Clears a dirty state after a failed migration was repaired by hand.",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(v)
	}),
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every database object (requires --confirm)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ok, _ := cmd.Flags().GetBool("confirm"); !ok {
			return fmt.Errorf("drop cancelled, pass --confirm to destroy all data")
		}
		return withMigrator(func(m *migration.Migrator, args []string) error {
			return m.Drop()
		})(cmd, args)
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create the next migration pair for every driver",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		files, err := migration.CreateMigration(migrationsRoot, migrations.Drivers, args[0], description)
		if err != nil {
			return err
		}
		for _, f := range files {
			log.Info("Migration created",
				zap.String("version", f.Version),
				zap.String("up_file", f.UpPath),
				zap.String("down_file", f.DownPath),
			)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list [driver]",
	Short: "List the migrations embedded for a driver",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		driver := config.DriverPostgres
		if len(args) == 1 {
			driver = args[0]
		}
		fsys, err := migrations.FS(driver)
		if err != nil {
			return err
		}
		names, err := migration.ListMigrations(fsys)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			log.Info("No migrations found", zap.String("driver", driver))
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), "  -", n)
		}
		return nil
	},
}

// withMigrator loads the configuration and opens a migrator for the
// configured database around fn.
func withMigrator(fn func(m *migration.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		m, err := migration.New(cfg.Database.Driver, cfg.Database.MigrationURL(), log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Failed to close migrator", zap.Error(err))
			}
		}()
		return fn(m, args)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	createCmd.Flags().StringVar(&migrationsRoot, "dir", "migrations", "Root directory holding one folder per driver")
	dropCmd.Flags().Bool("confirm", false, "Confirm dropping all database objects")

	rootCmd.AddCommand(upCmd, downCmd, stepCmd, gotoCmd, versionCmd, forceCmd, dropCmd, createCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
