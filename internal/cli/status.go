package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keepdataflow/sqlbox/internal/bootstrap"
)

// StatusOptions holds flags for the status command
type StatusOptions struct {
	JSON bool // Output as JSON instead of formatted text
}

// NewStatusCmd creates the status command
func NewStatusCmd(app *App) *cobra.Command {
	var opts StatusOptions

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sqlbox instances and their container state",
		Long:  `Display every live instance in the ledger, reconciled against the container runtime.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ShowStatus(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON instead of formatted text")

	return cmd
}

// statusRow is the JSON shape for one instance.
type statusRow struct {
	Name        string    `json:"name"`
	Engine      string    `json:"engine"`
	Image       string    `json:"image"`
	Port        int       `json:"port"`
	Status      string    `json:"status"`
	ContainerID string    `json:"container_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShowStatus displays instance status.
func (a *App) ShowStatus(cmd *cobra.Command, opts StatusOptions) error {
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

	statuses, err := b.Status(ctx)
	if err != nil {
		return err
	}

	if opts.JSON {
		rows := make([]statusRow, 0, len(statuses))
		for _, st := range statuses {
			rows = append(rows, statusRow{
				Name:        st.Instance.Name,
				Engine:      st.Instance.Engine,
				Image:       st.Instance.Image,
				Port:        st.Instance.HostPort,
				Status:      liveStatus(st),
				ContainerID: st.Instance.ContainerID,
				CreatedAt:   st.Instance.CreatedAt,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(statuses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No instances. 'sqlbox up' starts one.")
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderStatusTable(statuses))
	return nil
}

// liveStatus prefers the runtime's view; a container deleted outside
// sqlbox reports as "missing".
func liveStatus(st bootstrap.InstanceStatus) string {
	if !st.Found {
		return "missing"
	}
	return st.Live.Status
}
