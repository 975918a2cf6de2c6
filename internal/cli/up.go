package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keepdataflow/sqlbox/internal/bootstrap"
	"github.com/keepdataflow/sqlbox/internal/config"
	"github.com/keepdataflow/sqlbox/internal/engine"
)

// UpOptions holds flags for the up command
type UpOptions struct {
	Name       string        // Container name
	Engine     string        // Engine variant: server or edge
	Image      string        // Base image override
	Port       int           // Host port mapped to the engine port
	SAPassword string        // Administrator credential
	Wait       bool          // Block until the engine accepts logins
	Timeout    time.Duration // Readiness wait bound
}

// NewUpCmd creates the up command
func NewUpCmd(app *App) *cobra.Command {
	var opts UpOptions

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Pull, create, and start an engine container",
		Long: `Up pulls the base image, creates a named container with the license
acceptance flag and administrator password, maps the engine port to the
host, and starts it. With --wait, up blocks until the engine accepts an
sa login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Up(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Container name (default from config)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "Engine variant: server or edge")
	cmd.Flags().StringVar(&opts.Image, "image", "", "Base image override")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Host port for the engine (default 1433)")
	cmd.Flags().StringVar(&opts.SAPassword, "sa-password", "", "Administrator password (prefer SQLBOX_SA_PASSWORD)")
	cmd.Flags().BoolVar(&opts.Wait, "wait", false, "Wait until the engine accepts logins")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Readiness wait bound (default from config)")

	return cmd
}

// Up runs the up operation with flag overrides applied over the config.
func (a *App) Up(cmd *cobra.Command, opts UpOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	applyInstanceOverrides(cfg, opts.Name, opts.Engine, opts.Image, opts.Port, opts.SAPassword)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := bootstrap.Wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	if a.verbose {
		pullRef := cfg.Image
		if pullRef == "" {
			if v, err := engine.ParseVariant(cfg.Engine); err == nil {
				pullRef = v.DefaultImage()
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pulling %s...\n", pullRef)
	}

	inst, err := b.Up(ctx, bootstrap.UpOptions{
		Wait:        opts.Wait,
		WaitTimeout: opts.Timeout,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Started %s (%s) on port %d\n",
		inst.Name, inst.Image, inst.HostPort)
	if opts.Wait {
		fmt.Fprintf(cmd.OutOrStdout(), "Engine ready: sqlserver://sa@localhost:%d\n", inst.HostPort)
	}
	return nil
}

// applyInstanceOverrides layers non-empty flag values over the config.
func applyInstanceOverrides(cfg *config.Config, name, engine, image string, port int, saPassword string) {
	if name != "" {
		cfg.Name = name
	}
	if engine != "" {
		cfg.Engine = engine
	}
	if image != "" {
		cfg.Image = image
	}
	if port != 0 {
		cfg.Port = port
	}
	if saPassword != "" {
		cfg.SAPassword = saPassword
	}
}
