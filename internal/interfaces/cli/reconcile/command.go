package reconcile

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"campusdesk/internal/application/issue/usecases"
	"campusdesk/internal/infrastructure/database"
	"campusdesk/internal/infrastructure/repository"
	"campusdesk/internal/interfaces/cli/bootstrap"
	"campusdesk/internal/shared/db"
)

var (
	opts        bootstrap.Options
	issueID     uint
	onlyDrifted bool
	output      string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recount issue upvotes and comments",
		Long: `Recompute the denormalized upvote and comment counters from the underlying rows
and overwrite any that drifted. Without --issue every issue is checked.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().UintVar(&issueID, "issue", 0, "Reconcile a single issue")
	cmd.Flags().BoolVar(&onlyDrifted, "only-drifted", false, "Report only issues whose counters were corrected")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if output != "text" && output != "yaml" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	_, log, err := bootstrap.Setup(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	gdb := database.Get()
	issues := repository.NewIssueRepository(gdb)
	counters := usecases.NewCounterKeeper(issues, repository.NewUpvoteRepository(gdb), repository.NewCommentRepository(gdb))
	uc := usecases.NewReconcileCountersUseCase(db.NewTransactionManager(gdb), issues, counters, nil, log.Named("reconcile_counters"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := execute(ctx, uc, issueID, onlyDrifted)
	if result != nil {
		if renderErr := render(cmd.OutOrStdout(), result, output); renderErr != nil {
			return renderErr
		}
	}
	return err
}

func execute(ctx context.Context, uc usecases.ReconcileCountersExecutor, id uint, drifted bool) (*usecases.ReconcileCountersResult, error) {
	command := usecases.ReconcileCountersCommand{OnlyDrifted: drifted}
	if id != 0 {
		command.IssueID = &id
	}
	return uc.Execute(ctx, command)
}

func render(w io.Writer, result *usecases.ReconcileCountersResult, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintf(w, "checked %d issue(s), %d drifted\n", result.Checked, result.Drifted)
	if len(result.Reports) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ISSUE\tUPVOTES\tCOMMENTS\tDRIFTED")
	for _, r := range result.Reports {
		fmt.Fprintf(tw, "%d\t%d -> %d\t%d -> %d\t%t\n",
			r.IssueID, r.UpvotesBefore, r.UpvotesAfter, r.CommentsBefore, r.CommentsAfter, r.Drifted)
	}
	return tw.Flush()
}
