package internal

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/llarhub/internal/build"
	"github.com/goplus/llarhub/internal/profile"
	"github.com/goplus/llarhub/recipes"
)

var (
	createProfile string
	createOptions []string
	createForce   bool
	createOutput  string
)

var createCmd = &cobra.Command{
	Use:   "create name[/version]",
	Short: "Build a package into the workspace",
	Long: `Create runs a recipe against a build profile: it fetches the sources, builds
and packages them, and prints the package description as JSON. Packages
already in the workspace cache are reused unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createProfile, "profile", "p", "", "build profile (TOML)")
	createCmd.Flags().StringArrayVarP(&createOptions, "option", "o", nil, "option override, [name:]option=value")
	createCmd.Flags().BoolVar(&createForce, "force", false, "rebuild even if the package is cached")
	createCmd.Flags().StringVar(&createOutput, "output", "", "copy the package to a directory or .zip file")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name, version := parseRefArg(args[0])
	r, err := recipes.Lookup(name)
	if err != nil {
		return err
	}
	prof, err := loadProfile(createProfile, createOptions)
	if err != nil {
		return err
	}

	// Resolve output relative to the invocation directory.
	if createOutput != "" {
		abs, err := filepath.Abs(createOutput)
		if err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
		createOutput = abs
	}

	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts := build.Options{
		WorkspaceDir: workspace,
		Profile:      prof,
		Logger:       logger,
		Force:        createForce,
	}
	if !verbose {
		opts.Stdout = io.Discard
		opts.Stderr = io.Discard
	}
	result, err := build.NewBuilder(opts).Create(ctx, r, version)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[0], err)
	}

	if createOutput != "" {
		if err := outputResult(result.PackageDir, createOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("package written", "output", createOutput)
	}
	return printJSON(cmd.OutOrStdout(), result)
}

// parseRefArg splits "name/version" or "name".
func parseRefArg(arg string) (name, version string) {
	name, version, _ = strings.Cut(arg, "/")
	return name, version
}

// loadProfile reads the profile at path, or detects the host when path is
// empty, and applies the key=value overrides.
func loadProfile(path string, overrides []string) (*profile.Profile, error) {
	prof := profile.Default()
	if path != "" {
		var err error
		if prof, err = profile.Load(path); err != nil {
			return nil, err
		}
	}
	if len(overrides) == 0 {
		return prof, nil
	}
	opts, err := parseOptions(overrides)
	if err != nil {
		return nil, err
	}
	return prof.WithOptions(opts), nil
}

func parseOptions(args []string) (map[string]string, error) {
	opts := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid option %q, expected key=value", arg)
		}
		opts[k] = v
	}
	return opts, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputResult writes the build output to dest.
// If dest ends with ".zip", creates a zip archive; otherwise copies the directory.
func outputResult(srcDir, dest string) error {
	if strings.HasSuffix(dest, ".zip") {
		return zipDir(srcDir, dest)
	}
	return os.CopyFS(dest, os.DirFS(srcDir))
}

// zipDir creates a zip archive at dest from the contents of srcDir.
func zipDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		return copyInto(writer, path)
	})
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func copyInto(w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return err
}
