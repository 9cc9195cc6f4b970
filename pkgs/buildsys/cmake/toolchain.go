package cmake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/llarhub/formula"
)

const (
	// ToolchainFile is the name of the generated toolchain file.
	ToolchainFile = "llar_toolchain.cmake"
	presetsFile   = "llar_cmake.json"
)

// Toolchain generates a CMake toolchain file from a recipe configuration.
type Toolchain struct {
	// Generator is passed to cmake -G by helpers created with New.
	Generator string

	// CacheVariables are written as set(<name> <value> CACHE STRING "" FORCE).
	CacheVariables map[string]string

	// Variables are written as plain set(<name> <value>).
	Variables map[string]string

	// PrefixPath lists directories appended to CMAKE_PREFIX_PATH.
	PrefixPath []string

	cfg formula.Config
}

// NewToolchain returns a toolchain for ctx with one CMAKE_PREFIX_PATH entry
// per dependency.
func NewToolchain(ctx *formula.Context) *Toolchain {
	tc := &Toolchain{
		CacheVariables: map[string]string{},
		Variables:      map[string]string{},
		cfg:            ctx.Config,
	}
	names := make([]string, 0, len(ctx.Dependencies))
	for name := range ctx.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if dir := ctx.Dependencies[name].PackageDir; dir != "" {
			tc.PrefixPath = append(tc.PrefixPath, dir)
		}
	}
	return tc
}

type presets struct {
	Generator      string            `json:"generator,omitempty"`
	ToolchainFile  string            `json:"toolchain_file"`
	CacheVariables map[string]string `json:"cache_variables,omitempty"`
}

// Generate writes the toolchain file and the preset helpers read back into
// dir, returning the toolchain path.
func (tc *Toolchain) Generate(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ToolchainFile)
	if err := os.WriteFile(path, tc.Content(), 0o644); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(presets{
		Generator:      tc.Generator,
		ToolchainFile:  path,
		CacheVariables: tc.CacheVariables,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, presetsFile), data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Content renders the toolchain file.
func (tc *Toolchain) Content() []byte {
	var b bytes.Buffer
	b.WriteString("# Generated by llarhub. Do not edit.\n")
	b.WriteString("include_guard()\n\n")

	s := tc.cfg.Settings
	opts := tc.cfg.Options
	if s.BuildType != "" {
		fmt.Fprintf(&b, "set(CMAKE_BUILD_TYPE %q CACHE STRING \"\" FORCE)\n", s.BuildType)
	}
	if opts.Has("shared") {
		fmt.Fprintf(&b, "set(BUILD_SHARED_LIBS %s CACHE BOOL \"\" FORCE)\n", onOff(opts.Bool("shared")))
	}
	if opts.Has("fPIC") {
		fmt.Fprintf(&b, "set(CMAKE_POSITION_INDEPENDENT_CODE %s CACHE BOOL \"\" FORCE)\n", onOff(opts.Bool("fPIC")))
	}
	if std, ext := cxxStandard(s.CppStd); std != "" {
		fmt.Fprintf(&b, "set(CMAKE_CXX_STANDARD %s)\n", std)
		fmt.Fprintf(&b, "set(CMAKE_CXX_EXTENSIONS %s)\n", onOff(ext))
	}
	if rt := msvcRuntime(s); rt != "" {
		b.WriteString("cmake_policy(SET CMP0091 NEW)\n")
		fmt.Fprintf(&b, "set(CMAKE_MSVC_RUNTIME_LIBRARY %q)\n", rt)
	}

	for _, k := range sortedKeys(tc.Variables) {
		fmt.Fprintf(&b, "set(%s %s)\n", k, quote(tc.Variables[k]))
	}
	for _, k := range sortedKeys(tc.CacheVariables) {
		fmt.Fprintf(&b, "set(%s %s CACHE STRING \"\" FORCE)\n", k, quote(tc.CacheVariables[k]))
	}
	if len(tc.PrefixPath) > 0 {
		paths := make([]string, len(tc.PrefixPath))
		for i, p := range tc.PrefixPath {
			paths[i] = quote(filepath.ToSlash(p))
		}
		fmt.Fprintf(&b, "list(PREPEND CMAKE_PREFIX_PATH %s)\n", strings.Join(paths, " "))
	}
	return b.Bytes()
}

func loadPresets(dir string) (*presets, error) {
	data, err := os.ReadFile(filepath.Join(dir, presetsFile))
	if err != nil {
		return nil, err
	}
	var p presets
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", presetsFile, err)
	}
	return &p, nil
}

// cxxStandard maps compiler.cppstd ("17", "gnu20") to CMAKE_CXX_STANDARD and
// whether GNU extensions are on.
func cxxStandard(cppstd string) (string, bool) {
	if cppstd == "" {
		return "", false
	}
	if std, ok := strings.CutPrefix(cppstd, "gnu"); ok {
		return std, true
	}
	return cppstd, false
}

// msvcRuntime maps compiler.runtime to a CMAKE_MSVC_RUNTIME_LIBRARY value.
func msvcRuntime(s formula.Settings) string {
	if !s.IsMSVC() || s.Runtime == "" {
		return ""
	}
	debug := ""
	if s.BuildType == "Debug" {
		debug = "Debug"
	}
	switch s.Runtime {
	case "static", "MT", "MTd":
		return "MultiThreaded" + debug
	case "dynamic", "MD", "MDd":
		return "MultiThreaded" + debug + "DLL"
	}
	return ""
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
