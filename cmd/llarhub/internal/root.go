package internal

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/goplus/llarhub/internal/env"
)

var (
	verbose   bool
	workspace string
)

var rootCmd = &cobra.Command{
	Use:          "llarhub",
	Short:        "llarhub builds C/C++ packages from recipes",
	Long:         `llarhub fetches, builds and packages C/C++ libraries from recipes, and describes the result to consumers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		if workspace == "" {
			dir, err := env.WorkDir()
			if err != nil {
				return err
			}
			workspace = dir
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging and build output")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "workspace directory (default $"+env.WorkspaceEnv+" or the user cache dir)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
