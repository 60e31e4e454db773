package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
	"github.com/haivivi/opusstream/pkg/audio/opusstream"
	"github.com/haivivi/opusstream/pkg/cli"
)

var (
	backendsRefresh bool
	backendsFormat  string
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List codec backends and which one loads",
	Long: `List every codec backend in preference order with its load status.

Backends after the selected one are not tried. --refresh discards the
cached selection and scans again, which picks up a libopus installed
since the last scan.`,
	Args: cobra.NoArgs,
	RunE: runBackends,
}

func init() {
	backendsCmd.Flags().BoolVar(&backendsRefresh, "refresh", false, "rescan instead of using the cached selection")
	backendsCmd.Flags().StringVar(&backendsFormat, "format", "table", "output format: table, yaml or json")
	rootCmd.AddCommand(backendsCmd)
}

// backendStatus is one entry of the backends listing.
type backendStatus struct {
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Control string `json:"control" yaml:"control"`
}

func runBackends(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd.Context())
	if err != nil {
		return err
	}
	applyLibPath(s)

	statuses, loadErr := backendStatuses(opusstream.DefaultRegistry(), backendsRefresh)
	if loadErr != nil && !errors.Is(loadErr, backend.ErrBackendUnavailable) {
		return loadErr
	}

	if backendsFormat == "table" {
		rows := make([]cli.Row, len(statuses))
		for i, st := range statuses {
			rows[i] = cli.Row{Name: st.Name, Detail: st.Error}
			switch st.Status {
			case "selected":
				rows[i].State = cli.RowSelected
			case "failed":
				rows[i].State = cli.RowFailed
			}
		}
		if _, err := cmd.OutOrStdout().Write([]byte(cli.DefaultStyles.RenderTable("Opus backends", rows))); err != nil {
			return err
		}
	} else if err := cli.Output(statuses, cli.OutputOptions{
		Format: cli.OutputFormat(backendsFormat),
		Writer: cmd.OutOrStdout(),
	}); err != nil {
		return err
	}
	return loadErr
}

// backendStatuses loads reg and reports every candidate as selected, failed
// or untried.
func backendStatuses(reg *backend.Registry, refresh bool) ([]backendStatus, error) {
	active, err := reg.Load(refresh)

	failed := make(map[string]error)
	for _, a := range reg.Attempts() {
		failed[a.Name] = a.Err
	}

	var out []backendStatus
	for _, d := range reg.Candidates() {
		st := backendStatus{
			Name:    d.Name,
			Status:  "untried",
			Control: d.Traits.Control.String(),
		}
		if ferr, ok := failed[d.Name]; ok {
			st.Status = "failed"
			st.Error = ferr.Error()
		} else if active != nil && active.Name() == d.Name {
			st.Status = "selected"
		}
		out = append(out, st)
	}
	return out, err
}
