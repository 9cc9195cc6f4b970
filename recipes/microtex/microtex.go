// Package microtex is the recipe of MicroTeX, a LaTeX rendering library
// built here with its Qt backend.
package microtex

import (
	_ "embed"
	"path/filepath"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/internal/files"
	"github.com/goplus/llarhub/pkgs/buildsys/cmake"
)

//go:embed versions.yml
var versionsYML []byte

// New returns the microtex recipe.
func New() *formula.Recipe {
	r := &formula.Recipe{
		Name:        "microtex",
		Description: "A dynamic, cross-platform, and embeddable LaTeX rendering library",
		License:     "MIT",
		Homepage:    "https://github.com/NanoMichael/MicroTeX",
		URL:         "https://github.com/NanoMichael/MicroTeX",
		Topics:      []string{"android", "latex", "cross-platform", "ubuntu", "macros"},
		PackageType: formula.Library,
		Settings:    []string{"os", "arch", "compiler", "build_type"},
		DependencyOptions: map[string]map[string]string{
			"qt": {"shared": "True"},
		},
		Versions: versionsYML,
	}
	r.OnRequire(func(cfg formula.Config, deps *formula.ModuleDeps) {
		deps.Require("tinyxml2/9.0.0")
		deps.Require("qt/6.2.3")
	})
	r.OnGenerate(generate)
	r.OnBuild(func(ctx *formula.Context) error {
		c := cmake.New(ctx).DefineBool("QT", true)
		if err := c.Configure(ctx.Context()); err != nil {
			return err
		}
		return c.Build(ctx.Context())
	})
	r.OnPackage(pkg)
	r.OnPackageInfo(func(ctx *formula.Context, info *formula.CppInfo) error {
		ctx.Log().Info("appending PATH", "dir", filepath.Join(ctx.PackageDir, "bin"))
		info.EnvPath = append(info.EnvPath, "bin")
		info.Libs = []string{"LaTeX"}
		info.Defines = []string{"BUILD_QT"}
		return nil
	})
	return r
}

// generate writes the toolchain and puts the runtime DLLs of the
// dependencies next to the built executables.
func generate(ctx *formula.Context) error {
	if _, err := cmake.NewToolchain(ctx).Generate(ctx.GeneratorsDir); err != nil {
		return err
	}
	bin := filepath.Join(ctx.BuildDir, "bin")
	for _, dep := range ctx.Dependencies {
		platforms := filepath.Join(dep.PackageDir, "bin", "archdatadir", "plugins", "platforms")
		if _, err := files.Copy("*.dll", platforms, filepath.Join(bin, "platforms"), true); err != nil {
			return err
		}
		if _, err := files.Copy("glib*.dll", filepath.Join(dep.PackageDir, "bin"), bin, true); err != nil {
			return err
		}
	}
	return nil
}

func pkg(ctx *formula.Context) error {
	copies := []struct {
		pattern, src, dst string
		keepPath          bool
	}{
		{"*.dll", filepath.Join(ctx.BuildDir, "bin"), "bin", false},
		{"*.lib", filepath.Join(ctx.BuildDir, "lib"), "lib", false},
		{"*.so*", ctx.BuildDir, "lib", false},
		{"*.a", ctx.BuildDir, "lib", false},
		{"*.h", filepath.Join(ctx.SourceDir, "src"), "include", true},
		{"*.ttf", filepath.Join(ctx.SourceDir, "res"), "res", true},
	}
	for _, c := range copies {
		if _, err := files.Copy(c.pattern, c.src, filepath.Join(ctx.PackageDir, c.dst), c.keepPath); err != nil {
			return err
		}
	}
	return nil
}
