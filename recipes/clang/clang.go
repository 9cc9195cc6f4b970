// Package clang is the recipe of the Clang C/C++ front-end libraries. It
// exposes every static library exported by ClangTargets.cmake as a
// component, with the link dependencies recovered by the build-info
// extractor.
package clang

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/internal/files"
	"github.com/goplus/llarhub/pkgs/buildinfo"
	"github.com/goplus/llarhub/pkgs/buildsys/cmake"
)

//go:embed versions.yml
var versionsYML []byte

// Compiler is the C++ support clang needs to build.
var Compiler = formula.CompilerRequirement{
	CppStd: 17,
	Minimums: map[string]string{
		"apple-clang":   "10",
		"clang":         "7",
		"gcc":           "7",
		"msvc":          "191",
		"Visual Studio": "15",
	},
	Unknown: formula.SkipUnknown,
}

var (
	cmakeDir        = filepath.Join("lib", "cmake", "clang")
	componentsFile  = filepath.Join(cmakeDir, "components.json")
	buildModuleFile = filepath.Join(cmakeDir, "conan-official-clang-variables.cmake")
)

// New returns the clang recipe.
func New() *formula.Recipe {
	r := &formula.Recipe{
		Name:        "clang",
		Description: "The Clang project provides a language front-end and tooling infrastructure for languages in the C language family",
		License:     "Apache-2 with LLVM-exception",
		Homepage:    "https://clang.llvm.org/",
		URL:         "https://github.com/conan-io/conan-center-index",
		Topics:      []string{"clang", "llvm", "compiler"},
		PackageType: formula.Library,
		Settings:    []string{"os", "arch", "compiler", "build_type"},
		Options: map[string][]string{
			"shared":    formula.BoolOption,
			"fPIC":      formula.BoolOption,
			"with_xml2": formula.BoolOption,
		},
		DefaultOptions: map[string]string{
			"shared":    "False",
			"fPIC":      "True",
			"with_xml2": "True",
		},
		Versions: versionsYML,
	}
	r.OnConfigure(configure)
	r.OnRequire(require)
	r.OnValidate(func(cfg formula.Config, logger *log.Logger) error {
		return Compiler.Check("clang", cfg.Settings, logger)
	})
	r.OnSource(source)
	r.OnGenerate(generate)
	r.OnBuild(build)
	r.OnPackage(pkg)
	r.OnPackageInfo(packageInfo)
	return r
}

func configure(cfg formula.Config) formula.Options {
	opts := cfg.Options
	if cfg.Settings.OS == "Windows" || opts.Bool("shared") {
		opts = opts.Without("fPIC")
	}
	return opts
}

func require(cfg formula.Config, deps *formula.ModuleDeps) {
	deps.Require("llvm-core/"+deps.Version, formula.TransitiveHeaders(), formula.TransitiveLibs())
	deps.ToolRequire("ninja/[>=1.10.2 <2]")
	// c-index-test needs libxml2, no component does.
	if cfg.Options.Bool("with_xml2") {
		deps.TestRequire("libxml2/[>=2.5.3 <3]")
	}
}

// source flattens clang-<version>.src into the source root, next to the
// shared LLVM cmake modules.
func source(ctx *formula.Context) error {
	modules := filepath.Join(ctx.SourceDir, "cmake", "Modules")
	if err := files.Rename(modules, filepath.Join(ctx.SourceDir, "cmake", "modules")); err != nil {
		return err
	}
	clangDir := filepath.Join(ctx.SourceDir, fmt.Sprintf("clang-%s.src", ctx.Version))
	if _, err := files.Copy("*", clangDir, ctx.SourceDir, true); err != nil {
		return err
	}
	return files.Rmdir(clangDir)
}

func generate(ctx *formula.Context) error {
	llvm, err := ctx.Dependency("llvm-core")
	if err != nil {
		return err
	}
	tc := cmake.NewToolchain(ctx)
	tc.Generator = "Ninja"
	tc.CacheVariables["CMAKE_MODULE_PATH"] = filepath.ToSlash(filepath.Join(llvm.PackageDir, "lib", "cmake", "llvm"))
	tc.CacheVariables["CLANG_INCLUDE_DOCS"] = "OFF"
	_, err = tc.Generate(ctx.GeneratorsDir)
	return err
}

func build(ctx *formula.Context) error {
	c := cmake.New(ctx)
	if err := c.Configure(ctx.Context(), "--graphviz=graph/clang.dot"); err != nil {
		return err
	}
	return c.Build(ctx.Context())
}

func pkg(ctx *formula.Context) error {
	if _, err := files.Copy("LICENSE.TXT", ctx.SourceDir, filepath.Join(ctx.PackageDir, "licenses"), false); err != nil {
		return err
	}
	if err := cmake.New(ctx).Install(ctx.Context()); err != nil {
		return err
	}
	if err := WriteBuildInfo(ctx.PackageDir); err != nil {
		return err
	}
	return writeBuildModule(ctx.PackageDir)
}

// WriteBuildInfo extracts the component table from the installed
// ClangTargets.cmake into components.json.
func WriteBuildInfo(packageDir string) error {
	targets, err := files.Load(cmake.TargetsFile(packageDir, "clang", "Clang"))
	if err != nil {
		return err
	}
	return buildinfo.WriteFile(filepath.Join(packageDir, componentsFile), buildinfo.Extract(targets, &Rules))
}

func writeBuildModule(packageDir string) error {
	content := fmt.Sprintf(`set(CLANG_INSTALL_PREFIX "%s")
set(CLANG_CMAKE_DIR "%s")
if (NOT TARGET clang-tablegen-targets)
  add_custom_target(clang-tablegen-targets)
endif()
list(APPEND CMAKE_MODULE_PATH "${LLVM_CMAKE_DIR}")
# AddClang uses AddLLVM without including it.
include(AddLLVM)
`, filepath.ToSlash(packageDir), filepath.ToSlash(filepath.Join(packageDir, cmakeDir)))
	return files.Save(filepath.Join(packageDir, buildModuleFile), content)
}

func packageInfo(ctx *formula.Context, info *formula.CppInfo) error {
	info.SetProperty("cmake_file_name", "Clang")
	info.SetProperty("cmake_build_modules", []string{
		filepath.ToSlash(buildModuleFile),
		filepath.ToSlash(filepath.Join(cmakeDir, "AddClang.cmake")),
	})
	info.BuildDirs = append(info.BuildDirs, filepath.ToSlash(cmakeDir))

	llvm, err := ctx.Dependency("llvm-core")
	if err != nil {
		return err
	}
	noRTTI := llvm.Options.Has("rtti") && !llvm.Options.Bool("rtti")
	noRTTIFlag := "-fno-rtti"
	if ctx.Settings().IsMSVC() {
		noRTTIFlag = "/GS-"
	}
	if noRTTI {
		info.CxxFlags = append(info.CxxFlags, noRTTIFlag)
	}

	if ctx.Options().Bool("shared") {
		info.SetProperty("cmake_target_name", "Clang")
		libs, err := files.CollectLibs(filepath.Join(ctx.PackageDir, "lib"))
		if err != nil {
			return err
		}
		info.Libs = libs
		return nil
	}

	table, err := buildinfo.ReadFile(filepath.Join(ctx.PackageDir, componentsFile))
	if err != nil {
		return err
	}
	for _, name := range table.Names() {
		c := table[name]
		comp := info.Comp(name)
		comp.SetProperty("cmake_target_name", name)
		comp.Libs = []string{name}
		comp.Requires = append(comp.Requires, c.Requires...)
		comp.SystemLibs = append(comp.SystemLibs, c.SystemLibs...)
		if noRTTI {
			comp.CxxFlags = append(comp.CxxFlags, noRTTIFlag)
		}
	}
	return nil
}
