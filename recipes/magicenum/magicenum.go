// Package magicenum is the recipe of magic_enum, a single-header enum
// reflection library.
package magicenum

import (
	_ "embed"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/internal/files"
)

//go:embed versions.yml
var versionsYML []byte

// Compiler is the C++17 support magic_enum needs.
var Compiler = formula.CompilerRequirement{
	CppStd: 17,
	Minimums: map[string]string{
		"clang":         "5",
		"gcc":           "9",
		"Visual Studio": "14.11",
	},
	Unknown: formula.AssumeSupported,
}

// New returns the magic_enum recipe.
func New() *formula.Recipe {
	r := &formula.Recipe{
		Name:        "magic_enum",
		Description: "Static reflection for enums (to string, from string, iteration) for modern C++, work with any enum type without any macro or boilerplate code",
		License:     "MIT",
		Homepage:    "https://github.com/Neargye/magic_enum",
		URL:         "https://github.com/conan-io/conan-center-index",
		Topics: []string{
			"cplusplus", "cplusplus-17", "c-plus-plus", "c-plus-plus-17", "cpp", "cpp17",
			"enum-to-string", "string-to-enum", "serialization", "reflection",
			"metaprogramming", "header-only", "single-file", "no-dependencies",
		},
		PackageType: formula.HeaderLibrary,
		Settings:    []string{"compiler"},
		Versions:    versionsYML,
	}
	r.OnValidate(func(cfg formula.Config, logger *log.Logger) error {
		return Compiler.Check(r.Name, cfg.Settings, logger)
	})
	r.OnSource(func(ctx *formula.Context) error {
		extracted := filepath.Join(ctx.SourceDir, "magic_enum-"+ctx.Version)
		if _, err := files.Copy("*", extracted, ctx.SourceDir, true); err != nil {
			return err
		}
		return files.Rmdir(extracted)
	})
	r.OnPackage(func(ctx *formula.Context) error {
		if _, err := files.Copy("magic_enum.hpp", filepath.Join(ctx.SourceDir, "include"), filepath.Join(ctx.PackageDir, "include"), false); err != nil {
			return err
		}
		_, err := files.Copy("LICENSE", ctx.SourceDir, filepath.Join(ctx.PackageDir, "licenses"), false)
		return err
	})
	r.OnPackageInfo(func(ctx *formula.Context, info *formula.CppInfo) error {
		info.LibDirs = nil
		info.BinDirs = nil
		return nil
	})
	return r
}
