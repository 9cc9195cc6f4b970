package formula

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// PackageType tells consumers what kind of artifacts a package carries.
type PackageType string

const (
	Library       PackageType = "library"
	HeaderLibrary PackageType = "header-library"
	Application   PackageType = "application"
)

// Recipe describes how to fetch, build and package one third-party library.
// Metadata fields are set directly; phases are registered with the On*
// methods and run in this order:
//
//	configure, validate, require, source, generate, build, package, package info
type Recipe struct {
	Name        string
	Description string
	License     string
	Homepage    string
	URL         string
	Topics      []string
	PackageType PackageType

	// Settings lists the settings the binary depends on
	// ("os", "arch", "compiler", "build_type", ...).
	Settings []string

	// Options maps each option to its allowed values.
	Options map[string][]string

	// DefaultOptions holds the value of every option when not overridden.
	DefaultOptions map[string]string

	// DependencyOptions are option values this recipe expects of its
	// dependencies, keyed by dependency name.
	DependencyOptions map[string]map[string]string

	// Versions is the raw versions.yml manifest.
	Versions []byte

	// Exports holds files shipped with the recipe, such as patches.
	Exports fs.FS

	fConfigure   func(cfg Config) Options
	fRequire     func(cfg Config, deps *ModuleDeps)
	fValidate    func(cfg Config, logger *log.Logger) error
	fSource      func(ctx *Context) error
	fGenerate    func(ctx *Context) error
	fBuild       func(ctx *Context) error
	fPackage     func(ctx *Context) error
	fPackageInfo func(ctx *Context, info *CppInfo) error
}

// BoolOption is the value domain of an on/off option.
var BoolOption = []string{"True", "False"}

// OnConfigure registers the hook that prunes options which make no sense for
// the settings, such as fPIC on Windows.
func (r *Recipe) OnConfigure(f func(cfg Config) Options) { r.fConfigure = f }

// OnRequire registers the hook declaring dependencies.
func (r *Recipe) OnRequire(f func(cfg Config, deps *ModuleDeps)) { r.fRequire = f }

// OnValidate registers the hook rejecting unsupported configurations. It runs
// before any external tool.
func (r *Recipe) OnValidate(f func(cfg Config, logger *log.Logger) error) { r.fValidate = f }

// OnSource registers the hook laying out the fetched sources.
func (r *Recipe) OnSource(f func(ctx *Context) error) { r.fSource = f }

// OnGenerate registers the hook writing toolchain files for the build.
func (r *Recipe) OnGenerate(f func(ctx *Context) error) { r.fGenerate = f }

// OnBuild registers the hook invoking the native build system.
func (r *Recipe) OnBuild(f func(ctx *Context) error) { r.fBuild = f }

// OnPackage registers the hook staging artifacts into the package dir.
func (r *Recipe) OnPackage(f func(ctx *Context) error) { r.fPackage = f }

// OnPackageInfo registers the hook describing the package to consumers.
func (r *Recipe) OnPackageInfo(f func(ctx *Context, info *CppInfo) error) { r.fPackageInfo = f }

// ResolveOptions applies overrides on top of DefaultOptions. Override keys
// are either "option" or "name:option"; keys scoped to another package are
// ignored. Unknown options and values outside an option's domain are
// rejected.
func (r *Recipe) ResolveOptions(overrides map[string]string) (Options, error) {
	vals := make(map[string]string, len(r.DefaultOptions))
	for k, v := range r.DefaultOptions {
		vals[k] = v
	}
	for key, v := range overrides {
		if pkg, opt, ok := strings.Cut(key, ":"); ok {
			if pkg != r.Name {
				continue
			}
			key = opt
		}
		domain, ok := r.Options[key]
		if !ok {
			return Options{}, invalidf(r.Name, "option %q does not exist", key)
		}
		i := slices.IndexFunc(domain, func(d string) bool { return strings.EqualFold(d, v) })
		if i < 0 {
			return Options{}, invalidf(r.Name, "%q is not a valid value for option %q (possible values: %s)",
				v, key, strings.Join(domain, ", "))
		}
		vals[key] = domain[i]
	}
	return NewOptions(vals), nil
}

// Configure runs the configure hook and returns the final options.
func (r *Recipe) Configure(cfg Config) Config {
	if r.fConfigure != nil {
		cfg.Options = r.fConfigure(cfg)
	}
	return cfg
}

// Validate runs the validate hook.
func (r *Recipe) Validate(cfg Config, logger *log.Logger) error {
	if r.fValidate == nil {
		return nil
	}
	return r.fValidate(cfg, logger)
}

// Requirements runs the require hook for version.
func (r *Recipe) Requirements(cfg Config, version string) []Requirement {
	deps := &ModuleDeps{Version: version}
	if r.fRequire != nil {
		r.fRequire(cfg, deps)
	}
	return deps.Deps()
}

// Source runs the source hook.
func (r *Recipe) Source(ctx *Context) error { return call(r.fSource, ctx) }

// Generate runs the generate hook.
func (r *Recipe) Generate(ctx *Context) error { return call(r.fGenerate, ctx) }

// Build runs the build hook.
func (r *Recipe) Build(ctx *Context) error { return call(r.fBuild, ctx) }

// Package runs the package hook.
func (r *Recipe) Package(ctx *Context) error { return call(r.fPackage, ctx) }

// PackageInfo runs the package info hook and returns what it declared.
func (r *Recipe) PackageInfo(ctx *Context) (*CppInfo, error) {
	info := NewCppInfo()
	if r.fPackageInfo == nil {
		return info, nil
	}
	if err := r.fPackageInfo(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func call(f func(*Context) error, ctx *Context) error {
	if f == nil {
		return nil
	}
	return f(ctx)
}

// Matrix returns the option space of the recipe on the given settings.
func (r *Recipe) Matrix(s Settings) Matrix {
	m := Matrix{Options: r.Options}
	if len(r.Settings) > 0 {
		m.Require = make(map[string][]string, len(r.Settings))
		for _, name := range r.Settings {
			m.Require[name] = []string{s.Get(name)}
		}
	}
	if len(r.DefaultOptions) > 0 {
		m.DefaultOptions = make(map[string][]string, len(r.DefaultOptions))
		for k, v := range r.DefaultOptions {
			m.DefaultOptions[k] = []string{v}
		}
	}
	return m
}

// PackageID identifies the binary produced for cfg. Header-only packages
// have the same id on every configuration.
func (r *Recipe) PackageID(cfg Config) string {
	require := map[string]string{}
	options := map[string]string{}
	if r.PackageType != HeaderLibrary {
		for _, name := range r.Settings {
			require[name] = name + "=" + cfg.Settings.Get(name)
		}
		for _, k := range cfg.Options.Keys() {
			options[k] = k + "=" + cfg.Options.Get(k)
		}
	}
	m := Single(require, options)
	sum := sha256.Sum256([]byte(m.String()))
	return hex.EncodeToString(sum[:8])
}

func (r *Recipe) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.PackageType)
}
