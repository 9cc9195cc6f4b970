package internal

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/recipes"
)

var inspectProfile string

var inspectCmd = &cobra.Command{
	Use:   "inspect name",
	Short: "Print the metadata and options of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := recipes.Lookup(args[0])
		if err != nil {
			return err
		}
		prof, err := loadProfile(inspectProfile, nil)
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), r, prof.FormulaSettings())
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectProfile, "profile", "p", "", "build profile (TOML) whose settings size the matrix")
	rootCmd.AddCommand(inspectCmd)
}

func inspect(w io.Writer, r *formula.Recipe, s formula.Settings) error {
	fmt.Fprintf(w, "name: %s\n", r.Name)
	fmt.Fprintf(w, "package_type: %s\n", r.PackageType)
	fmt.Fprintf(w, "description: %s\n", r.Description)
	fmt.Fprintf(w, "license: %s\n", r.License)
	fmt.Fprintf(w, "homepage: %s\n", r.Homepage)
	if len(r.Topics) > 0 {
		fmt.Fprintf(w, "topics: %s\n", strings.Join(r.Topics, ", "))
	}
	if len(r.Settings) > 0 {
		fmt.Fprintf(w, "settings: %s\n", strings.Join(r.Settings, ", "))
	}
	if len(r.Options) > 0 {
		fmt.Fprintln(w, "options:")
		for _, name := range slices.Sorted(maps.Keys(r.Options)) {
			fmt.Fprintf(w, "  %s: [%s] default %s\n", name, strings.Join(r.Options[name], ", "), r.DefaultOptions[name])
		}
	}
	for _, dep := range slices.Sorted(maps.Keys(r.DependencyOptions)) {
		for _, opt := range slices.Sorted(maps.Keys(r.DependencyOptions[dep])) {
			fmt.Fprintf(w, "requires %s:%s=%s\n", dep, opt, r.DependencyOptions[dep][opt])
		}
	}
	m := r.Matrix(s)
	if n := m.CombinationCount(); n >= 0 {
		_, err := fmt.Fprintf(w, "matrix: %d combinations\n", n)
		return err
	}
	_, err := fmt.Fprintln(w, "matrix: too many combinations to count")
	return err
}
