package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keepdataflow/sqlbox/internal/config"
)

// VersionInfo holds build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime state
	configDir string
	verbose   bool

	// Version information
	versionInfo VersionInfo
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application. SIGINT/SIGTERM cancel the command
// context so in-flight runtime calls unwind cleanly.
func (a *App) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version strings for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "sqlbox",
		Short: "Deterministic SQL Server dev container bootstrapper",
		Long: `sqlbox builds, runs, and removes local SQL Server / Azure SQL Edge
containers with the engine's required environment, a fixed port mapping,
and validation of the administrator credential before the engine sees it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	a.rootCmd.PersistentFlags().StringVar(&a.configDir, "config", "",
		"Directory containing .sqlbox.yaml (default: working directory)")
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")

	a.rootCmd.AddCommand(
		NewUpCmd(a),
		NewDownCmd(a),
		NewBuildCmd(a),
		NewStatusCmd(a),
		NewLogsCmd(a),
		NewWaitCmd(a),
		NewVersionCmd(a),
	)
}

// loadConfig loads configuration from the configured directory, defaulting
// to the working directory.
func (a *App) loadConfig() (*config.Config, error) {
	dir := a.configDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	}
	return config.LoadConfig(dir)
}
