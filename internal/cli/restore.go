package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
	"depsync/internal/types"
)

type restoreOptions struct {
	Backup string
	Force  bool
}

func newRestoreCommand() *cobra.Command {
	opts := restoreOptions{}
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Reinstall the exact package set from a backup file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRestore(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Backup, "backup", "", "Backup file path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Install even in externally managed environments")
	_ = viper.BindPFlag("backup", cmd.Flags().Lookup("backup"))
	_ = viper.BindPFlag("force", cmd.Flags().Lookup("force"))
	return cmd
}

func runRestore(ctx context.Context, cmd *cobra.Command, opts restoreOptions) error {
	service := newAppService()
	result, err := service.Restore(ctx, app.RestoreRequest{
		BackupPath: resolveString(cmd, opts.Backup, "backup", "backup"),
		Force:      resolveBool(cmd, opts.Force, "force", "force"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("restoring with %s\n", result.Runtime)
	printRecordLines(result.Records)
	fmt.Printf("restored: %d  blocked: %d  failed: %d\n", result.Restored, result.Blocked, result.Failed)

	if result.Failed > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("%d package(s) failed to restore", result.Failed))
	}
	return nil
}

func printRecordLines(records []types.ReconcileRecord) {
	for _, record := range records {
		line := fmt.Sprintf("- %s %s %s", record.Package, actionCell(record.Action), record.Outcome)
		if record.Detail != "" {
			line += ": " + record.Detail
		}
		fmt.Println(line)
	}
}
