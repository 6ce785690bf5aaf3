package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
)

type backupOptions struct {
	Manifest  string
	Output    string
	BackupDir string
	KeepLast  int
	KeepDays  int
	DryRun    bool
}

func newBackupCommand() *cobra.Command {
	opts := backupOptions{}
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Capture the installed package set to a backup file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBackup(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest path")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Backup file path")
	cmd.Flags().StringVar(&opts.BackupDir, "backup-dir", "", "Directory for backups and retention")
	cmd.Flags().IntVar(&opts.KeepLast, "keep-last", 0, "Keep at most this many backups")
	cmd.Flags().IntVar(&opts.KeepDays, "keep-days", 0, "Keep backups newer than this many days")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report retention deletions without removing files")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("backup_dir", cmd.Flags().Lookup("backup-dir"))
	_ = viper.BindPFlag("keep_last", cmd.Flags().Lookup("keep-last"))
	_ = viper.BindPFlag("keep_days", cmd.Flags().Lookup("keep-days"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func runBackup(ctx context.Context, cmd *cobra.Command, opts backupOptions) error {
	service := newAppService()
	dryRun := resolveBool(cmd, opts.DryRun, "dry_run", "dry-run")
	result, err := service.Backup(ctx, app.BackupRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		OutputPath:   resolveString(cmd, opts.Output, "output", "output"),
		BackupDir:    resolveString(cmd, opts.BackupDir, "backup_dir", "backup-dir"),
		KeepLast:     resolveInt(cmd, opts.KeepLast, "keep_last", "keep-last"),
		KeepDays:     resolveInt(cmd, opts.KeepDays, "keep_days", "keep-days"),
		DryRun:       dryRun,
	})
	if err != nil {
		return err
	}

	fmt.Printf("backed up %d packages to %s\n", result.Packages, result.Path)
	label := "pruned"
	if dryRun {
		label = "would prune"
	}
	for _, path := range result.Pruned {
		fmt.Printf("%s: %s\n", label, path)
	}
	return nil
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}
