package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
	"depsync/internal/types"
)

type statusOptions struct {
	Manifest string
	Ledger   string
}

func newStatusCommand() *cobra.Command {
	opts := statusOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show declared packages against the last reconciliation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest path")
	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "Ledger path")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("ledger", cmd.Flags().Lookup("ledger"))
	return cmd
}

func runStatus(cmd *cobra.Command, opts statusOptions) error {
	service := newAppService()
	result, err := service.Status(app.StatusRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		LedgerPath:   resolveString(cmd, opts.Ledger, "ledger", "ledger"),
	})
	if err != nil {
		return err
	}

	if result.UpdatedAt == "" {
		fmt.Printf("%s: never reconciled\n", result.ManifestName)
	} else {
		fmt.Printf("%s: last reconciled %s\n", result.ManifestName, result.UpdatedAt)
	}
	renderLedgerTable(result.Entries)

	if len(result.Orphans) > 0 {
		fmt.Println("no longer declared:")
		for _, orphan := range result.Orphans {
			fmt.Printf("- %s %s\n", orphan.Package, orDash(orphan.Installed))
		}
	}
	return nil
}

func renderLedgerTable(entries []types.LedgerEntry) {
	data := pterm.TableData{{"PACKAGE", "POLICY", "TARGET", "INSTALLED", "LATEST", "STATUS"}}
	for _, entry := range entries {
		data = append(data, []string{
			entry.Package,
			string(entry.Policy),
			orDash(entry.Target),
			orDash(entry.Installed),
			orDash(entry.Latest),
			statusCell(entry.Status),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
