package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
	"depsync/internal/types"
)

type envOptions struct {
	Manifest string
	Runtime  string
}

func newEnvCommand() *cobra.Command {
	opts := envOptions{}
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Detect the host environment and install method",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnv(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest path")
	cmd.Flags().StringVar(&opts.Runtime, "runtime", "", "Runtime binary to probe")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("runtime", cmd.Flags().Lookup("runtime"))
	return cmd
}

func runEnv(ctx context.Context, cmd *cobra.Command, opts envOptions) error {
	service := newAppService()
	result, err := service.Env(ctx, app.EnvRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		Runtime:      resolveString(cmd, opts.Runtime, "runtime", "runtime"),
	})
	if err != nil {
		return err
	}

	env := result.Environment
	fmt.Printf("os: %s\n", env.OS)
	fmt.Printf("install method: %s\n", env.InstallMethod)
	fmt.Printf("backend: %s\n", env.Backend)
	fmt.Printf("externally managed: %t\n", env.ExternallyManaged)
	if env.OS == types.OSDarwin {
		fmt.Printf("formula manager available: %t\n", env.FormulaManagerAvailable)
	}
	if env.RuntimePath != "" {
		fmt.Printf("runtime: %s (%s)\n", env.Runtime, env.RuntimePath)
	} else {
		fmt.Printf("runtime: %s (not on PATH)\n", env.Runtime)
	}
	return nil
}
