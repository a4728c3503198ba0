package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_e2e/application/todo"
	"todo_e2e/infrastructure/config"
	"todo_e2e/infrastructure/storage"

	"github.com/spf13/cobra"
)

var version = "dev"

// ErrCasesFailed is returned by the run command when any case failed
var ErrCasesFailed = errors.New("one or more cases failed")

// NewRootCommand - builds the todo-e2e command tree writing to out
func NewRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "todo-e2e",
		Short:         "End-to-end browser suite for the Todo application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(newRunCommand(out), newListCommand(out), newReportCommand(out), newVersionCommand(out))
	return root
}

func newRunCommand(out io.Writer) *cobra.Command {
	var cases []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the suite, or the cases named with --case",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			ti, err := NewTerminalInterface(cfg, out)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := ti.Run(ctx, cases)
			if err != nil {
				return err
			}
			if !report.OK() {
				return ErrCasesFailed
			}
			return nil
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringSliceVar(&cases, "case", nil, "Case to run (repeatable); see 'todo-e2e list'")
	return cmd
}

func newListCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available cases",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printCases(out, newStyles(), todo.Cases())
		},
	}
}

func newReportCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "report <artifacts-dir>",
		Short: "Print the report of a previous run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := storage.LoadReport(args[0])
			if err != nil {
				return fmt.Errorf("failed to load report: %w", err)
			}
			fmt.Fprintf(out, "Run of %s with %s at %s\n\n", report.BaseURL, report.Driver, report.StartedAt.Format(time.RFC3339))
			printReport(out, newStyles(), report)
			if !report.OK() {
				return ErrCasesFailed
			}
			return nil
		},
	}
}

func newVersionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "todo-e2e %s\n", version)
		},
	}
}
