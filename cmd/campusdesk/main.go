package main

import (
	"os"

	"github.com/spf13/cobra"

	"campusdesk/internal/interfaces/cli/migrate"
	"campusdesk/internal/interfaces/cli/outbox"
	"campusdesk/internal/interfaces/cli/reconcile"
	"campusdesk/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "campusdesk",
		Short: "Campus Desk - campus issue reporting service",
		Long:  `Campus Desk tracks facility issues reported on campus: status workflow, upvotes, threaded comments and notifications.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		reconcile.NewCommand(),
		outbox.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
