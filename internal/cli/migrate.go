package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
)

type migrateOptions struct {
	Backup string
	Force  bool
}

func newMigrateCommand() *cobra.Command {
	opts := migrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply a backup from another machine, skipping satisfied packages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Backup, "backup", "", "Backup file path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Install even in externally managed environments")
	_ = viper.BindPFlag("backup", cmd.Flags().Lookup("backup"))
	_ = viper.BindPFlag("force", cmd.Flags().Lookup("force"))
	return cmd
}

func runMigrate(ctx context.Context, cmd *cobra.Command, opts migrateOptions) error {
	service := newAppService()
	result, err := service.Migrate(ctx, app.MigrateRequest{
		BackupPath: resolveString(cmd, opts.Backup, "backup", "backup"),
		Force:      resolveBool(cmd, opts.Force, "force", "force"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("migrating with %s\n", result.Runtime)
	printRecordLines(result.Records)
	fmt.Printf("installed: %d  skipped: %d  blocked: %d  failed: %d\n",
		result.Installed, result.Skipped, result.Blocked, result.Failed)

	if result.Failed > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("%d package(s) failed to migrate", result.Failed))
	}
	return nil
}
