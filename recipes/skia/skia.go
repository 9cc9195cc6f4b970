// Package skia is the recipe of the Skia 2D graphics library, built with GN
// and ninja from a depot_tools checkout.
package skia

import (
	_ "embed"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/internal/files"
	"github.com/goplus/llarhub/pkgs/buildsys/autotools"
	"github.com/goplus/llarhub/pkgs/buildsys/gn"
)

//go:embed versions.yml
var versionsYML []byte

// New returns the skia recipe.
func New() *formula.Recipe {
	options := map[string][]string{"shared": formula.BoolOption}
	defaults := map[string]string{"shared": "False"}
	for name, def := range gnOptions {
		options[name] = formula.BoolOption
		defaults[name] = formula.FormatBool(def)
	}
	r := &formula.Recipe{
		Name:           "skia",
		Description:    "The 2D Graphics Library",
		License:        "BSD-3-Clause",
		Homepage:       "https://skia.org",
		URL:            "https://github.com/conan-io/conan-center-index",
		Topics:         []string{"skia", "chromium"},
		PackageType:    formula.Library,
		Settings:       []string{"os", "arch", "compiler", "build_type"},
		Options:        options,
		DefaultOptions: defaults,
		Versions:       versionsYML,
	}
	r.OnRequire(func(cfg formula.Config, deps *formula.ModuleDeps) {
		for _, d := range systemDeps {
			if cfg.Options.Bool(d.option) {
				deps.Require(d.ref)
			}
		}
		deps.ToolRequire("depot_tools/cci.20201009")
	})
	r.OnSource(source)
	r.OnBuild(build)
	r.OnPackage(func(ctx *formula.Context) error {
		if _, err := files.Copy("LICENSE", ctx.SourceDir, filepath.Join(ctx.PackageDir, "licenses"), false); err != nil {
			return err
		}
		_, err := files.Copy("*", ctx.SourceDir, filepath.Join(ctx.PackageDir, "bin"), true)
		return err
	})
	r.OnPackageInfo(func(ctx *formula.Context, info *formula.CppInfo) error {
		ctx.Log().Info("appending PATH", "dir", filepath.Join(ctx.PackageDir, "bin"))
		info.EnvPath = append(info.EnvPath, "bin")
		info.SetEnv("DEPOT_TOOLS_UPDATE", "0")
		return nil
	})
	return r
}

// source pulls the third-party trees skia pins in its DEPS file.
func source(ctx *formula.Context) error {
	python := "python2"
	if _, err := exec.LookPath(python); err != nil {
		ctx.Log().Warn("python2 not found, falling back to python3")
		python = "python3"
	}
	return ctx.Command(python, filepath.Join("tools", "git-sync-deps")).Run()
}

func build(ctx *formula.Context) error {
	g := gn.New(ctx)
	g.Args = Args(ctx)
	for k, v := range toolEnv(ctx.Settings().Compiler) {
		g.Env(k, v)
	}
	if dep, ok := ctx.Dependencies["depot_tools"]; ok && dep.PackageDir != "" {
		g.Env("PATH", filepath.Join(dep.PackageDir, "bin")+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
	if ctx.Settings().IsMSVC() {
		ctx.Log().Warn("MSVC builds expect the Visual Studio developer environment to be active")
	}
	if err := g.Gen(ctx.Context(), filepath.Join("out", "Default")); err != nil {
		return err
	}
	return g.Build(ctx.Context())
}

// Args returns the GN arguments of the build described by ctx.
func Args(ctx *formula.Context) gn.Args {
	s := ctx.Settings()
	opts := ctx.Options()
	env := autotools.NewEnvironment(ctx)

	args := gn.Args{}
	for _, name := range opts.Keys() {
		if strings.HasPrefix(name, "skia_") {
			args[name] = opts.Bool(name)
		}
	}

	cflags := append([]string{}, env.Flags...)
	for _, d := range env.Defines {
		cflags = append(cflags, "-D"+d)
	}
	if opts.Bool("fPIC") {
		cflags = append(cflags, "-fPIC")
	}
	for _, inc := range env.IncludePaths {
		cflags = append(cflags, "-I"+inc)
	}
	cxxflags := append([]string{}, env.CxxFlags...)

	var ldflags []string
	for _, f := range env.LinkFlags {
		ldflags = append(ldflags, strings.Fields(f)...)
	}
	for _, dir := range env.LibraryPaths {
		if s.IsMSVC() {
			ldflags = append(ldflags, "-LIBPATH:"+dir)
		} else {
			ldflags = append(ldflags, "-L", dir)
		}
	}
	if s.Compiler == "clang" && s.Libcxx != "" {
		stdlib := s.Libcxx
		if stdlib == "libstdc++11" {
			stdlib = "libstdc++"
		}
		ldflags = append(ldflags, "-stdlib="+stdlib)
	}

	args["host_os"] = gn.OSName(s.OS)
	args["host_cpu"] = gn.CPUName(s.Arch)
	args["is_debug"] = s.BuildType == "Debug"
	args["extra_cflags"] = cflags
	args["extra_cflags_c"] = []string{}
	args["extra_cflags_cc"] = cxxflags
	args["extra_ldflags"] = ldflags
	return args
}

// toolEnv returns the compiler variables to set for compiler, leaving those
// already present in the environment alone.
func toolEnv(compiler string) map[string]string {
	var defaults map[string]string
	switch compiler {
	case "gcc":
		defaults = map[string]string{"CC": "gcc", "CXX": "g++", "LD": "g++"}
	case "clang", "apple-clang":
		defaults = map[string]string{"CC": "clang", "CXX": "clang++", "LD": "clang++"}
	}
	env := map[string]string{}
	for k, v := range defaults {
		if os.Getenv(k) == "" {
			env[k] = v
		}
	}
	return env
}
