package internal

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goplus/llarhub/pkgs/mod/versions"
	"github.com/goplus/llarhub/recipes"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recipes and their versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tVERSIONS")
		for _, name := range recipes.Names() {
			r, err := recipes.Lookup(name)
			if err != nil {
				return err
			}
			vf, err := versions.Parse(name+"/versions.yml", r.Versions)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, r.PackageType, strings.Join(vf.Versions(), ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
