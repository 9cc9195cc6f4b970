// Package cmake drives the cmake configure/build/install workflow of a
// recipe and generates the toolchain file the configure step consumes.
package cmake

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/pkgs/buildsys"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake wraps common CMake build steps with chainable configuration.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	defines    map[string]defineValue
	env        map[string]string
	stdout     io.Writer
	stderr     io.Writer
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New returns a CMake helper for the phase described by ctx. When a toolchain
// generated by Toolchain.Generate is present in ctx.GeneratorsDir, its
// generator and toolchain file are picked up.
func New(ctx *formula.Context) *CMake {
	c := &CMake{
		sourceDir:  ctx.SourceDir,
		buildDir:   ctx.BuildDir,
		installDir: ctx.PackageDir,
		buildType:  ctx.Settings().BuildType,
		defines:    map[string]defineValue{},
		env:        map[string]string{},
		stdout:     ctx.Stdout,
		stderr:     ctx.Stderr,
	}
	if ctx.GeneratorsDir != "" {
		if p, err := loadPresets(ctx.GeneratorsDir); err == nil {
			c.generator = p.Generator
			c.toolchain = p.ToolchainFile
		}
	}
	return c
}

func (c *CMake) Source(dir string) { c.sourceDir = dir }

func (c *CMake) InstallDir(dir string) { c.installDir = dir }

// BuildDir overrides the binary directory.
func (c *CMake) BuildDir(dir string) *CMake {
	c.buildDir = dir
	return c
}

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) *CMake {
	c.toolchain = path
	return c
}

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) *CMake {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) *CMake {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
	return c
}

// Env sets key=value for every cmake command spawned later.
func (c *CMake) Env(key, value string) {
	c.env[key] = value
}

// Use exposes an installed dependency rooted at dir.
func (c *CMake) Use(dir string) {
	buildsys.UseDir(dir)
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// Build runs "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// Install runs "cmake --install <build>" with optional extra arguments.
func (c *CMake) Install(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--install", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	if c.installDir != "" {
		cmakeArgs = append(cmakeArgs, "--prefix", c.installDir)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.defines[k]
		if def.typeName != "" {
			args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+k+"="+def.value)
	}
	return args
}

func (c *CMake) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "cmake", args...)
	cmd.Stdout = writerOr(c.stdout, os.Stdout)
	cmd.Stderr = writerOr(c.stderr, os.Stderr)
	if len(c.env) > 0 {
		cmd.Env = buildsys.MergeEnv(os.Environ(), c.env)
	}
	return cmd.Run()
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

// TargetsFile returns the path of the <pkg>Targets.cmake file that
// "cmake --install" writes under <installDir>/lib/cmake/<dir>.
func TargetsFile(installDir, dir, pkg string) string {
	return filepath.Join(installDir, "lib", "cmake", dir, pkg+"Targets.cmake")
}
