package clang

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/pkgs/buildinfo"
	"github.com/goplus/llarhub/pkgs/mod/versions"
)

const targets = `add_library(clangBasic STATIC IMPORTED)
add_library(clangLex STATIC IMPORTED)
add_library(libclang SHARED IMPORTED)

set_target_properties(clangBasic PROPERTIES
  INTERFACE_LINK_LIBRARIES "LLVMSupport;LLVMTargetParser;-lpthread;m"
)

set_target_properties(clangLex PROPERTIES
  INTERFACE_LINK_LIBRARIES "clangBasic;\$<LINK_ONLY:LLVMSupport>;LibXml2::LibXml2;psapi"
)

set_target_properties(clangTool PROPERTIES
  INTERFACE_LINK_LIBRARIES "clangLex"
)
`

func writeTargets(t *testing.T, pkgDir string) {
	t.Helper()
	dir := filepath.Join(pkgDir, cmakeDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ClangTargets.cmake"), []byte(targets), 0644); err != nil {
		t.Fatal(err)
	}
}

func newContext(t *testing.T, opts map[string]string, rtti string) *formula.Context {
	t.Helper()
	r := New()
	o, err := r.ResolveOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	cfg := r.Configure(formula.Config{
		Settings: formula.Settings{OS: "Linux", Arch: "x86_64", Compiler: "gcc", CompilerVersion: "13", BuildType: "Release"},
		Options:  o,
	})
	llvmOpts := map[string]string{}
	if rtti != "" {
		llvmOpts["rtti"] = rtti
	}
	return &formula.Context{
		Name:       "clang",
		Version:    "19.1.7",
		Config:     cfg,
		SourceDir:  t.TempDir(),
		PackageDir: t.TempDir(),
		Logger:     log.New(os.Stderr),
		Dependencies: map[string]formula.Dependency{
			"llvm-core": {PackageDir: t.TempDir(), Options: formula.NewOptions(llvmOpts)},
		},
	}
}

func TestVersionsManifest(t *testing.T) {
	f, err := versions.Parse("versions.yml", New().Versions)
	if err != nil {
		t.Fatal(err)
	}
	srcs, _, err := f.Lookup("19.1.7")
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 2 || srcs[1].Destination != "cmake" || !srcs[1].StripRoot {
		t.Errorf("sources = %+v", srcs)
	}
}

func TestConfigureDropsFPIC(t *testing.T) {
	r := New()
	for _, tt := range []struct {
		os     string
		shared string
		want   bool
	}{
		{"Linux", "False", true},
		{"Linux", "True", false},
		{"Windows", "False", false},
	} {
		o, err := r.ResolveOptions(map[string]string{"shared": tt.shared})
		if err != nil {
			t.Fatal(err)
		}
		cfg := r.Configure(formula.Config{Settings: formula.Settings{OS: tt.os}, Options: o})
		if got := cfg.Options.Has("fPIC"); got != tt.want {
			t.Errorf("os=%s shared=%s: has fPIC = %v, want %v", tt.os, tt.shared, got, tt.want)
		}
	}
}

func TestRequirements(t *testing.T) {
	r := New()
	o, _ := r.ResolveOptions(nil)
	deps := r.Requirements(formula.Config{Options: o}, "17.0.6")
	var got []string
	for _, d := range deps {
		got = append(got, d.Kind.String()+" "+d.Ref.String())
	}
	want := []string{"host llvm-core/17.0.6", "tool ninja/[>=1.10.2 <2]", "test libxml2/[>=2.5.3 <3]"}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %q, want %q", got, want)
	}
	if !deps[0].TransitiveHeaders || !deps[0].TransitiveLibs {
		t.Error("llvm-core should be transitive")
	}

	o, _ = r.ResolveOptions(map[string]string{"with_xml2": "False"})
	if deps := r.Requirements(formula.Config{Options: o}, "17.0.6"); len(deps) != 2 {
		t.Errorf("without xml2: %d requirements, want 2", len(deps))
	}
}

func TestValidate(t *testing.T) {
	r := New()
	tests := []struct {
		settings formula.Settings
		ok       bool
	}{
		{formula.Settings{Compiler: "gcc", CompilerVersion: "7"}, true},
		{formula.Settings{Compiler: "gcc", CompilerVersion: "6.3"}, false},
		{formula.Settings{Compiler: "msvc", CompilerVersion: "190"}, false},
		{formula.Settings{Compiler: "gcc", CompilerVersion: "13", CppStd: "14"}, false},
		{formula.Settings{Compiler: "intel-cc", CompilerVersion: "1"}, true},
	}
	for _, tt := range tests {
		err := r.Validate(formula.Config{Settings: tt.settings}, log.New(os.Stderr))
		if (err == nil) != tt.ok {
			t.Errorf("%+v: err = %v", tt.settings, err)
		}
		if err != nil && !errors.Is(err, formula.ErrInvalidConfiguration) {
			t.Errorf("%+v: %v is not an invalid configuration", tt.settings, err)
		}
	}
}

func TestSourceFlattens(t *testing.T) {
	ctx := newContext(t, nil, "")
	src := ctx.SourceDir
	for _, p := range []string{
		"clang-19.1.7.src/CMakeLists.txt",
		"clang-19.1.7.src/lib/Basic/Version.cpp",
		"cmake/Modules/GNUInstallDirs.cmake",
	} {
		p = filepath.Join(src, p)
		os.MkdirAll(filepath.Dir(p), 0755)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := source(ctx); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"CMakeLists.txt", "lib/Basic/Version.cpp", "cmake/modules/GNUInstallDirs.cmake"} {
		if _, err := os.Stat(filepath.Join(src, p)); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(src, "clang-19.1.7.src")); !os.IsNotExist(err) {
		t.Errorf("clang-19.1.7.src should be removed, stat err = %v", err)
	}
}

func TestWriteBuildInfo(t *testing.T) {
	pkgDir := t.TempDir()
	writeTargets(t, pkgDir)
	if err := WriteBuildInfo(pkgDir); err != nil {
		t.Fatal(err)
	}
	table, err := buildinfo.ReadFile(filepath.Join(pkgDir, componentsFile))
	if err != nil {
		t.Fatal(err)
	}
	if names := table.Names(); !slices.Equal(names, []string{"clangBasic", "clangLex"}) {
		t.Fatalf("components = %q", names)
	}
	basic := table["clangBasic"]
	if !slices.Equal(basic.Requires, []string{"llvm-core::LLVMSupport", "llvm-core::LLVMTargetParser"}) {
		t.Errorf("clangBasic requires = %q", basic.Requires)
	}
	if !slices.Equal(basic.SystemLibs, []string{"pthread", "m"}) {
		t.Errorf("clangBasic system_libs = %q", basic.SystemLibs)
	}
	lex := table["clangLex"]
	if !slices.Equal(lex.Requires, []string{"clangBasic", "LLVMSupport", "libxml2::libxml2"}) {
		t.Errorf("clangLex requires = %q", lex.Requires)
	}
	if len(lex.SystemLibs) != 0 {
		t.Errorf("clangLex system_libs = %q", lex.SystemLibs)
	}
}

func TestBuildModule(t *testing.T) {
	pkgDir := t.TempDir()
	if err := writeBuildModule(pkgDir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(pkgDir, buildModuleFile))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{
		`set(CLANG_INSTALL_PREFIX "` + filepath.ToSlash(pkgDir) + `")`,
		`add_custom_target(clang-tablegen-targets)`,
		`list(APPEND CMAKE_MODULE_PATH "${LLVM_CMAKE_DIR}")`,
		"include(AddLLVM)\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("build module lacks %q:\n%s", want, content)
		}
	}
}

func TestPackageInfoStatic(t *testing.T) {
	ctx := newContext(t, nil, "False")
	writeTargets(t, ctx.PackageDir)
	if err := WriteBuildInfo(ctx.PackageDir); err != nil {
		t.Fatal(err)
	}
	info, err := New().PackageInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := info.Property("cmake_file_name"); v != "Clang" {
		t.Errorf("cmake_file_name = %v", v)
	}
	if !slices.Equal(info.BuildDirs, []string{"lib/cmake/clang"}) {
		t.Errorf("builddirs = %q", info.BuildDirs)
	}
	if !slices.Equal(info.CxxFlags, []string{"-fno-rtti"}) {
		t.Errorf("cxxflags = %q", info.CxxFlags)
	}
	if names := info.ComponentNames(); !slices.Equal(names, []string{"clangBasic", "clangLex"}) {
		t.Fatalf("components = %q", names)
	}
	lex := info.Components["clangLex"]
	if !slices.Equal(lex.Libs, []string{"clangLex"}) || !slices.Equal(lex.CxxFlags, []string{"-fno-rtti"}) {
		t.Errorf("clangLex = %+v", lex)
	}
	if v, _ := lex.Property("cmake_target_name"); v != "clangLex" {
		t.Errorf("clangLex cmake_target_name = %v", v)
	}
}

func TestPackageInfoShared(t *testing.T) {
	ctx := newContext(t, map[string]string{"shared": "True"}, "True")
	lib := filepath.Join(ctx.PackageDir, "lib")
	os.MkdirAll(lib, 0755)
	for _, f := range []string{"libclang-cpp.so.19.1", "libclang.so"} {
		if err := os.WriteFile(filepath.Join(lib, f), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	info, err := New().PackageInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := info.Property("cmake_target_name"); v != "Clang" {
		t.Errorf("cmake_target_name = %v", v)
	}
	if !slices.Equal(info.Libs, []string{"clang", "clang-cpp"}) {
		t.Errorf("libs = %q", info.Libs)
	}
	if len(info.Components) != 0 || len(info.CxxFlags) != 0 {
		t.Errorf("info = %+v", info)
	}
}
