package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
	"depsync/internal/types"
)

type reconcileOptions struct {
	Manifest string
	Ledger   string
	Force    bool
	Workers  int
}

func newReconcileCommand() *cobra.Command {
	opts := reconcileOptions{}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Bring installed packages in line with the manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReconcile(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest path")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "Ledger path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Install even in externally managed environments")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent version lookups")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("ledger", cmd.Flags().Lookup("ledger"))
	_ = viper.BindPFlag("force", cmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runReconcile(ctx context.Context, cmd *cobra.Command, opts reconcileOptions) error {
	service := newAppService()
	result, err := service.Reconcile(ctx, app.ReconcileRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		LedgerPath:   resolveString(cmd, opts.Ledger, "ledger", "ledger"),
		Force:        resolveBool(cmd, opts.Force, "force", "force"),
		Workers:      resolveInt(cmd, opts.Workers, "workers", "workers"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("reconciled %s on %s/%s\n", result.ManifestName, result.Environment.OS, result.Environment.Backend)
	renderRecordTable(result.Records)
	fmt.Printf("applied: %d  blocked: %d  failed: %d\n", result.Applied, result.Blocked, result.Failed)
	fmt.Printf("ledger written to %s\n", result.LedgerPath)

	if result.Failed > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("%d package(s) failed to reconcile", result.Failed))
	}
	return nil
}

func renderRecordTable(records []types.ReconcileRecord) {
	data := pterm.TableData{{"PACKAGE", "STATUS", "ACTION", "OUTCOME", "DETAIL"}}
	for _, record := range records {
		data = append(data, []string{
			record.Package,
			statusCell(record.Status),
			actionCell(record.Action),
			string(record.Outcome),
			orDash(record.Detail),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func statusCell(status types.Status) string {
	if status == "" {
		return "-"
	}
	return statusStyle(status).Sprint(string(status))
}

func statusStyle(status types.Status) *pterm.Style {
	switch status {
	case types.StatusMatched, types.StatusLatest:
		return pterm.NewStyle(pterm.FgGreen)
	case types.StatusUpgraded, types.StatusDowngraded:
		return pterm.NewStyle(pterm.FgCyan)
	case types.StatusMissing, types.StatusOutdated:
		return pterm.NewStyle(pterm.FgYellow)
	case types.StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

func actionCell(action types.Action) string {
	if action.Kind == "" || action.Kind == types.ActionNone {
		return "-"
	}
	if action.Version == "" {
		return string(action.Kind)
	}
	return fmt.Sprintf("%s %s", action.Kind, action.Version)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
