package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keepdataflow/sqlbox/internal/bootstrap"
)

// WaitOptions holds flags for the wait command
type WaitOptions struct {
	Name    string        // Instance name (empty = configured default)
	Timeout time.Duration // Readiness wait bound
}

// NewWaitCmd creates the wait command
func NewWaitCmd(app *App) *cobra.Command {
	var opts WaitOptions

	cmd := &cobra.Command{
		Use:   "wait [name]",
		Short: "Wait until an instance's engine accepts logins",
		Long: `Wait blocks until the engine accepts an sa login on the instance's
mapped port, or until the timeout. A running container is not a ready
engine; use this before pointing tools at it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return app.Wait(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Wait bound (default from config)")

	return cmd
}

// Wait blocks until the engine is ready.
func (a *App) Wait(cmd *cobra.Command, opts WaitOptions) error {
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

	if err := b.WaitReady(ctx, opts.Name, opts.Timeout); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Engine ready")
	return nil
}
