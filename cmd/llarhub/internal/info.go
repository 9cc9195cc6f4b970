package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/llarhub/internal/build"
	"github.com/goplus/llarhub/recipes"
)

var (
	infoProfile string
	infoOptions []string
)

var infoCmd = &cobra.Command{
	Use:   "info name[/version]",
	Short: "Describe a cached package",
	Long:  `Info prints the package description of a package previously built with create for the same profile.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoProfile, "profile", "p", "", "build profile (TOML)")
	infoCmd.Flags().StringArrayVarP(&infoOptions, "option", "o", nil, "option override, [name:]option=value")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	name, version := parseRefArg(args[0])
	r, err := recipes.Lookup(name)
	if err != nil {
		return err
	}
	prof, err := loadProfile(infoProfile, infoOptions)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	result, err := build.NewBuilder(build.Options{
		WorkspaceDir: workspace,
		Profile:      prof,
		Logger:       loggerFromContext(ctx),
	}).Info(ctx, r, version)
	if err != nil {
		return fmt.Errorf("failed to describe %s: %w", args[0], err)
	}
	return printJSON(cmd.OutOrStdout(), result)
}
