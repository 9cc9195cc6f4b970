package internal

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/goplus/llarhub/pkgs/buildinfo"
	"github.com/goplus/llarhub/recipes/clang"
)

var (
	buildinfoRules string
	buildinfoDOT   bool
)

// ruleSets are the extraction rules selectable with --rules.
var ruleSets = map[string]*buildinfo.Rules{
	"clang": &clang.Rules,
}

var buildinfoCmd = &cobra.Command{
	Use:   "buildinfo targets.cmake",
	Short: "Extract the component graph of a CMake targets file",
	Long: `Buildinfo parses the add_library and INTERFACE_LINK_LIBRARIES declarations of
a <Pkg>Targets.cmake file and prints the components with their requires and
system libraries as JSON, or as a Graphviz digraph with --dot.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuildinfo,
}

func init() {
	buildinfoCmd.Flags().StringVar(&buildinfoRules, "rules", "clang", "rule set to classify link libraries with")
	buildinfoCmd.Flags().BoolVar(&buildinfoDOT, "dot", false, "print a Graphviz digraph")
	rootCmd.AddCommand(buildinfoCmd)
}

func runBuildinfo(cmd *cobra.Command, args []string) error {
	rules, ok := ruleSets[buildinfoRules]
	if !ok {
		return fmt.Errorf("unknown rule set %q (have %v)", buildinfoRules, slices.Sorted(maps.Keys(ruleSets)))
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	table := buildinfo.Extract(string(data), rules)
	loggerFromContext(cmd.Context()).Debug("extracted components", "file", args[0], "count", len(table))

	out := cmd.OutOrStdout()
	if buildinfoDOT {
		_, err := fmt.Fprint(out, buildinfo.ToDOT(table))
		return err
	}
	enc, err := buildinfo.Marshal(table)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(enc))
	return err
}
