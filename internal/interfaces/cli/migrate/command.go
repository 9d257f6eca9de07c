package migrate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"campusdesk/internal/infrastructure/database"
	"campusdesk/internal/infrastructure/migration"
	"campusdesk/internal/infrastructure/persistence/seeds"
	"campusdesk/internal/interfaces/cli/bootstrap"
	"campusdesk/internal/shared/logger"
)

var (
	opts  bootstrap.Options
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the database schema: apply or roll back migrations, show status, and load reference data.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newSeedCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations. Not available for sqlite.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
		Long:  `Insert the default issue categories and campus locations. Existing rows are kept.`,
		RunE:  runSeed,
	}
}

func setup() (*migration.Manager, logger.Interface, error) {
	cfg, log, err := bootstrap.Setup(opts)
	if err != nil {
		return nil, nil, err
	}

	mgr, err := migration.NewManager(cfg.Database.Driver, log)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	return mgr, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	mgr, log, err := setup()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", opts.ResolveEnv())

	if err := mgr.Up(database.Get()); err != nil {
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	mgr, log, err := setup()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("rolling back migrations", "steps", steps)

	if err := mgr.Down(database.Get(), steps); err != nil {
		log.Errorw("rollback failed", "error", err)
		return fmt.Errorf("rollback failed: %w", err)
	}

	log.Infow("rollback completed successfully", "steps", steps)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr, log, err := setup()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := mgr.Status(database.Get()); err != nil {
		if errors.Is(err, migration.ErrUnversioned) {
			log.Infow("schema is managed by auto-migration, no version to report",
				"strategy", mgr.GetStrategy().GetName())
			return nil
		}
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	version, err := mgr.Version(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	log.Infow("current migration version", "version", version)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	_, log, err := setup()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := seeds.SeedReferenceData(database.Get()); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}
	log.Infow("reference data seeded")
	return nil
}
