package buildsys

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// BuildSystem captures shared capabilities of build helpers (CMake, etc).
// It keeps the common lifecycle and dependency/env setup; implementations add their own extras.
type BuildSystem interface {
	// Use exposes an installed dependency rooted at dir to the build.
	Use(dir string)

	// Basic paths.
	Source(dir string)
	InstallDir(dir string)

	// Environment helper.
	Env(key, val string)

	// Lifecycle.
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error
	Install(ctx context.Context, args ...string) error

	// Where artifacts land.
	OutputDir() string
}

// ConfigureAndBuild runs Configure with args followed by Build.
func ConfigureAndBuild(ctx context.Context, bs BuildSystem, args ...string) error {
	if err := bs.Configure(ctx, args...); err != nil {
		return err
	}
	return bs.Build(ctx)
}

// UseDir exposes the include, lib and pkg-config directories of an installed
// package at root through the variables compilers, CMake and pkg-config read.
func UseDir(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if exists(pkgconfigDir) {
		PrependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}
	if exists(root) {
		PrependPath("CMAKE_PREFIX_PATH", root)
	}
	if exists(includeDir) {
		PrependPath("CMAKE_INCLUDE_PATH", includeDir)
	}
	if exists(libDir) {
		PrependPath("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if exists(includeDir) {
			PrependPath("INCLUDE", includeDir)
		}
		if exists(libDir) {
			PrependPath("LIB", libDir)
		}
		return
	}
	if exists(includeDir) {
		AppendFlag("CPPFLAGS", "-I"+includeDir)
	}
	if exists(libDir) {
		AppendFlag("LDFLAGS", "-L"+libDir)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Run executes bin with args in dir. env overrides entries of the process
// environment.
func Run(ctx context.Context, dir, bin string, args []string, env map[string]string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), env)
	}
	return cmd.Run()
}

// MergeEnv applies override to a KEY=VALUE list and returns it sorted by key.
func MergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// PrependPath prepends a value to a path-list variable using the platform separator.
func PrependPath(key, value string) {
	current := os.Getenv(key)
	if current == "" {
		os.Setenv(key, value)
		return
	}
	os.Setenv(key, value+string(os.PathListSeparator)+current)
}

// AppendFlag appends a flag to a space-separated variable.
func AppendFlag(key, flag string) {
	current := os.Getenv(key)
	if current == "" {
		os.Setenv(key, flag)
		return
	}
	os.Setenv(key, strings.TrimSpace(current+" "+flag))
}
