// Package gn drives GN based builds: it renders build arguments, runs
// "gn gen" and then ninja on the generated directory.
package gn

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/pkgs/buildsys"
)

// Args are GN build arguments. Values may be bool, int, string or []string.
type Args map[string]any

// String renders args the way "gn gen --args" expects them, keys sorted.
func (a Args) String() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(a[k]))
	}
	return strings.Join(parts, " ")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case string:
		return quote(v)
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = quote(s)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return quote(fmt.Sprint(v))
}

// GN strings know only the \", \$ and \\ escapes; everything else,
// non-ASCII text included, is taken literally.
var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

func quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

// GN runs gn and ninja for one source tree.
type GN struct {
	sourceDir string
	outDir    string
	jobs      int
	env       map[string]string
	stdout    io.Writer
	stderr    io.Writer

	// Args are passed to "gn gen" by Configure.
	Args Args
}

var _ buildsys.BuildSystem = (*GN)(nil)

// New returns a GN helper generating into out/Default under the source dir
// of ctx.
func New(ctx *formula.Context) *GN {
	return &GN{
		sourceDir: ctx.SourceDir,
		outDir:    filepath.Join("out", "Default"),
		jobs:      runtime.NumCPU(),
		env:       map[string]string{},
		stdout:    ctx.Stdout,
		stderr:    ctx.Stderr,
		Args:      Args{},
	}
}

func (g *GN) Source(dir string) { g.sourceDir = dir }

// InstallDir sets the output directory, relative to the source dir unless
// absolute. GN trees have no install step.
func (g *GN) InstallDir(dir string) { g.outDir = dir }

func (g *GN) Env(key, value string) { g.env[key] = value }

// Use exposes an installed dependency rooted at dir.
func (g *GN) Use(dir string) { buildsys.UseDir(dir) }

// Jobs overrides the ninja parallelism.
func (g *GN) Jobs(n int) *GN {
	g.jobs = n
	return g
}

// Configure runs "gn gen <out> --args=<Args>" followed by args.
func (g *GN) Configure(ctx context.Context, args ...string) error {
	return g.Gen(ctx, g.outDir, args...)
}

// Gen runs "gn gen" into outDir.
func (g *GN) Gen(ctx context.Context, outDir string, args ...string) error {
	g.outDir = outDir
	gnArgs := []string{"gen", outDir}
	if len(g.Args) > 0 {
		gnArgs = append(gnArgs, "--args="+g.Args.String())
	}
	gnArgs = append(gnArgs, args...)
	return g.run(ctx, "gn", gnArgs)
}

// Build runs "ninja -C <out> -j<jobs>" followed by args, such as targets.
func (g *GN) Build(ctx context.Context, args ...string) error {
	ninjaArgs := []string{"-C", g.outDir, "-j" + strconv.Itoa(g.jobs)}
	ninjaArgs = append(ninjaArgs, args...)
	return g.run(ctx, "ninja", ninjaArgs)
}

// Install is a no-op: GN trees are packaged from OutputDir.
func (g *GN) Install(ctx context.Context, args ...string) error {
	return nil
}

// OutputDir returns the generated directory.
func (g *GN) OutputDir() string {
	if filepath.IsAbs(g.outDir) {
		return g.outDir
	}
	return filepath.Join(g.sourceDir, g.outDir)
}

func (g *GN) run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = g.sourceDir
	cmd.Stdout = os.Stdout
	if g.stdout != nil {
		cmd.Stdout = g.stdout
	}
	cmd.Stderr = os.Stderr
	if g.stderr != nil {
		cmd.Stderr = g.stderr
	}
	if len(g.env) > 0 {
		cmd.Env = buildsys.MergeEnv(os.Environ(), g.env)
	}
	return cmd.Run()
}

// OSName maps the os setting to a GN target_os value.
func OSName(goos string) string {
	switch goos {
	case "Macos":
		return "mac"
	case "iOS", "watchOS", "tvOS", "visionOS":
		return "ios"
	case "Windows":
		return "win"
	}
	return strings.ToLower(goos)
}

// CPUName maps the arch setting to a GN target_cpu value.
func CPUName(arch string) string {
	switch arch {
	case "x86_64":
		return "x64"
	case "armv8":
		return "aarch64"
	case "x86":
		return "x86"
	}
	return strings.ToLower(arch)
}
