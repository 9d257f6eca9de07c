package outbox

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"campusdesk/internal/infrastructure/database"
	"campusdesk/internal/interfaces/cli/bootstrap"
	httpRouter "campusdesk/internal/interfaces/http"
)

var opts bootstrap.Options

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Notification outbox tools",
	}

	cmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "drain",
		Short: "Deliver pending notifications once and exit",
		Long:  `Push every undelivered notification to the configured sinks. Rows that fail keep their retry budget.`,
		RunE:  runDrain,
	})

	return cmd
}

func runDrain(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Setup(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	delivered, err := container.Relay().Drain(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "delivered %d notification(s)\n", delivered)
	return err
}
