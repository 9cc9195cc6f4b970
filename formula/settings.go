package formula

import (
	"maps"
	"slices"
	"strings"
)

// Settings describe the target platform and toolchain of a build.
type Settings struct {
	OS              string
	Arch            string
	Compiler        string
	CompilerVersion string
	CppStd          string
	Libcxx          string
	Runtime         string
	BuildType       string
}

// Get returns a setting by its recipe-facing name ("os", "compiler.version", ...).
func (s Settings) Get(name string) string {
	switch name {
	case "os":
		return s.OS
	case "arch":
		return s.Arch
	case "compiler":
		return s.Compiler
	case "compiler.version":
		return s.CompilerVersion
	case "compiler.cppstd":
		return s.CppStd
	case "compiler.libcxx":
		return s.Libcxx
	case "compiler.runtime":
		return s.Runtime
	case "build_type":
		return s.BuildType
	}
	return ""
}

// IsApple reports whether OS is one of Apple's platforms.
func (s Settings) IsApple() bool {
	switch s.OS {
	case "Macos", "iOS", "watchOS", "tvOS", "visionOS":
		return true
	}
	return false
}

// IsMSVC reports whether the compiler is Microsoft's.
func (s Settings) IsMSVC() bool {
	return s.Compiler == "msvc" || s.Compiler == "Visual Studio"
}

// Options are the resolved option values of a recipe. An Options value is
// never modified in place; With and Without return copies.
type Options struct {
	m map[string]string
}

// NewOptions copies m into an Options value.
func NewOptions(m map[string]string) Options {
	return Options{m: maps.Clone(m)}
}

// Get returns the value of name, or "" when the option is not set.
func (o Options) Get(name string) string { return o.m[name] }

// Has reports whether name is set.
func (o Options) Has(name string) bool {
	_, ok := o.m[name]
	return ok
}

// Bool interprets the value of name as a boolean. Unset options are false.
func (o Options) Bool(name string) bool {
	return parseBool(o.m[name])
}

// With returns a copy of o with name set to value.
func (o Options) With(name, value string) Options {
	m := maps.Clone(o.m)
	if m == nil {
		m = make(map[string]string)
	}
	m[name] = value
	return Options{m: m}
}

// Without returns a copy of o with name removed.
func (o Options) Without(name string) Options {
	if !o.Has(name) {
		return o
	}
	m := maps.Clone(o.m)
	delete(m, name)
	return Options{m: m}
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	return slices.Sorted(maps.Keys(o.m))
}

// Map returns a copy of the option values.
func (o Options) Map() map[string]string {
	return maps.Clone(o.m)
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// FormatBool spells b the way option values are written.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Config is the immutable configuration handed to every phase of a recipe.
type Config struct {
	Settings Settings
	Options  Options
}
