package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keepdataflow/sqlbox/internal/bootstrap"
)

// DownOptions holds flags for the down command
type DownOptions struct {
	Name    string        // Instance name (empty = configured default)
	All     bool          // Remove every owned instance
	Timeout time.Duration // Stop grace period
}

// NewDownCmd creates the down command
func NewDownCmd(app *App) *cobra.Command {
	var opts DownOptions

	cmd := &cobra.Command{
		Use:   "down [name]",
		Short: "Stop and remove an engine container",
		Long: `Down stops a running instance (grace period, then SIGKILL) and removes
its container. Only containers sqlbox created are touched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return app.Down(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "Remove all sqlbox instances")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Stop grace period (default from config)")

	return cmd
}

// Down stops and removes instances.
func (a *App) Down(cmd *cobra.Command, opts DownOptions) error {
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

	removed, err := b.Down(ctx, bootstrap.DownOptions{
		Name:        opts.Name,
		All:         opts.All,
		StopTimeout: opts.Timeout,
	})

	for _, name := range removed {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
	}
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove")
	}
	return nil
}
