package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/keepdataflow/sqlbox/internal/bootstrap"
)

// LogsOptions holds flags for the logs command
type LogsOptions struct {
	Name   string // Instance name (empty = configured default)
	Follow bool   // Keep streaming until interrupted
}

// NewLogsCmd creates the logs command
func NewLogsCmd(app *App) *cobra.Command {
	var opts LogsOptions

	cmd := &cobra.Command{
		Use:   "logs [name]",
		Short: "Print an instance's engine logs",
		Long: `Logs prints the engine's stdout and stderr. Startup failures (rejected
password, missing license acceptance) only surface here.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return app.Logs(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Follow log output")

	return cmd
}

// Logs streams engine logs to stdout.
func (a *App) Logs(cmd *cobra.Command, opts LogsOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := bootstrap.Wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	rc, err := b.Logs(ctx, opts.Name, opts.Follow)
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(cmd.OutOrStdout(), rc)
	if err != nil && (errors.Is(err, io.ErrClosedPipe) || ctx.Err() != nil) {
		// Interrupting a follow is a clean exit, not a failure.
		return nil
	}
	return err
}
