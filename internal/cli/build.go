package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keepdataflow/sqlbox/internal/bootstrap"
	"github.com/keepdataflow/sqlbox/internal/config"
)

// BuildOptions holds flags for the build command
type BuildOptions struct {
	Tag        string // Derived image tag
	Engine     string // Engine variant: server or edge
	Image      string // Base image override
	SAPassword string // Administrator credential baked into the image
	Print      bool   // Print the Dockerfile instead of building
}

// NewBuildCmd creates the build command
func NewBuildCmd(app *App) *cobra.Command {
	var opts BuildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a derived engine image",
		Long: `Build derives an image from the base engine image: the required
environment variables baked in, the engine port declared, and the server
executable as the default command. --print writes the Dockerfile to
stdout instead of building.

Note: the baked-in administrator password is plaintext in the image
layers. Derived images are for local development only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Build(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Tag for the derived image (default from config)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "Engine variant: server or edge")
	cmd.Flags().StringVar(&opts.Image, "image", "", "Base image override")
	cmd.Flags().StringVar(&opts.SAPassword, "sa-password", "", "Administrator password (prefer SQLBOX_SA_PASSWORD)")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "Print the rendered Dockerfile and exit")

	return cmd
}

// Build renders and builds the derived image.
func (a *App) Build(cmd *cobra.Command, opts BuildOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	applyInstanceOverrides(cfg, "", opts.Engine, opts.Image, 0, opts.SAPassword)
	if opts.Tag != "" {
		cfg.Build.Tag = opts.Tag
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// --print needs no runtime or state; render and exit.
	if opts.Print {
		dockerfile, err := bootstrap.RenderDockerfile(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), dockerfile)
		return nil
	}

	ctx := cmd.Context()
	b, err := bootstrap.Wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	tag, err := b.Build(ctx, bootstrap.BuildOptions{Tag: opts.Tag})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Built %s\n", tag)
	return nil
}
