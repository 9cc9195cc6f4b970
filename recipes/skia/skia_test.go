package skia

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/llarhub/formula"
)

func newContext(t *testing.T, s formula.Settings, overrides map[string]string) *formula.Context {
	t.Helper()
	r := New()
	opts, err := r.ResolveOptions(overrides)
	if err != nil {
		t.Fatal(err)
	}
	return &formula.Context{
		Name:   "skia",
		Config: formula.Config{Settings: s, Options: opts},
		Dependencies: map[string]formula.Dependency{
			"libpng": {PackageDir: "/deps/libpng"},
		},
	}
}

func TestDefaults(t *testing.T) {
	r := New()
	if len(r.Options) != len(gnOptions)+1 {
		t.Fatalf("%d options, want %d", len(r.Options), len(gnOptions)+1)
	}
	for name, want := range map[string]string{
		"shared":                   "False",
		"skia_enable_gpu":          "True",
		"skia_enable_pdf":          "False",
		"skia_use_system_libpng":   "True",
		"skia_use_fonthost_mac":    "True",
		"skia_enable_graphite":     "False",
		"skia_use_system_harfbuzz": "True",
	} {
		if got := r.DefaultOptions[name]; got != want {
			t.Errorf("default %s = %q, want %q", name, got, want)
		}
	}
}

func TestRequirements(t *testing.T) {
	r := New()
	refs := func(overrides map[string]string) []string {
		opts, err := r.ResolveOptions(overrides)
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, d := range r.Requirements(formula.Config{Options: opts}, "chrome-m99") {
			out = append(out, d.Kind.String()+" "+d.Ref.String())
		}
		return out
	}

	want := []string{
		"host icu/69.1",
		"host libjpeg-turbo/2.1.1",
		"host harfbuzz/3.0.0",
		"host libpng/1.6.37",
		"host libwebp/1.2.1",
		"tool depot_tools/cci.20201009",
	}
	if got := refs(nil); !slices.Equal(got, want) {
		t.Errorf("default requirements = %q, want %q", got, want)
	}

	got := refs(map[string]string{"skia_use_system_icu": "False", "skia_use_system_libwebp": "False"})
	want = []string{
		"host libjpeg-turbo/2.1.1",
		"host harfbuzz/3.0.0",
		"host libpng/1.6.37",
		"tool depot_tools/cci.20201009",
	}
	if !slices.Equal(got, want) {
		t.Errorf("requirements = %q, want %q", got, want)
	}
}

func TestArgsGCC(t *testing.T) {
	ctx := newContext(t, formula.Settings{
		OS: "Linux", Arch: "x86_64", Compiler: "gcc", BuildType: "Release", Libcxx: "libstdc++11",
	}, map[string]string{"skia_enable_pdf": "True"})
	args := Args(ctx)

	if args["skia_enable_pdf"] != true || args["skia_enable_tools"] != false {
		t.Errorf("skia options not forwarded: pdf=%v tools=%v", args["skia_enable_pdf"], args["skia_enable_tools"])
	}
	if _, ok := args["shared"]; ok {
		t.Error("shared must not be a GN argument")
	}
	if args["host_os"] != "linux" || args["host_cpu"] != "x64" || args["is_debug"] != false {
		t.Errorf("host args = %v %v %v", args["host_os"], args["host_cpu"], args["is_debug"])
	}
	inc := "-I" + filepath.Join("/deps/libpng", "include")
	wantC := []string{"-m64", "-O3", "-DNDEBUG", "-D_GLIBCXX_USE_CXX11_ABI=1", inc}
	if got := args["extra_cflags"].([]string); !slices.Equal(got, wantC) {
		t.Errorf("extra_cflags = %q, want %q", got, wantC)
	}
	if got := args["extra_cflags_cc"].([]string); len(got) != 0 {
		t.Errorf("extra_cflags_cc = %q", got)
	}
	wantLD := []string{"-s", "-L", filepath.Join("/deps/libpng", "lib")}
	if got := args["extra_ldflags"].([]string); !slices.Equal(got, wantLD) {
		t.Errorf("extra_ldflags = %q, want %q", got, wantLD)
	}

	s := args.String()
	for _, want := range []string{`host_os="linux"`, `extra_cflags_c=[]`, `skia_enable_pdf=true`, `is_debug=false`} {
		if !strings.Contains(s, want) {
			t.Errorf("rendered args lack %s", want)
		}
	}
}

func TestArgsClangAndMSVC(t *testing.T) {
	clang := Args(newContext(t, formula.Settings{
		OS: "Macos", Arch: "armv8", Compiler: "clang", BuildType: "Debug", Libcxx: "libc++",
	}, nil))
	if clang["host_os"] != "mac" || clang["host_cpu"] != "aarch64" || clang["is_debug"] != true {
		t.Errorf("host args = %v %v %v", clang["host_os"], clang["host_cpu"], clang["is_debug"])
	}
	if got := clang["extra_cflags_cc"].([]string); !slices.Equal(got, []string{"-stdlib=libc++"}) {
		t.Errorf("extra_cflags_cc = %q", got)
	}
	if got := clang["extra_ldflags"].([]string); got[len(got)-1] != "-stdlib=libc++" {
		t.Errorf("extra_ldflags = %q", got)
	}

	msvc := Args(newContext(t, formula.Settings{
		OS: "Windows", Arch: "x86_64", Compiler: "msvc", BuildType: "Release",
	}, nil))
	want := []string{"-LIBPATH:" + filepath.Join("/deps/libpng", "lib")}
	if got := msvc["extra_ldflags"].([]string); !slices.Equal(got, want) {
		t.Errorf("extra_ldflags = %q, want %q", got, want)
	}
	if msvc["host_os"] != "win" {
		t.Errorf("host_os = %v", msvc["host_os"])
	}
}

func TestToolEnv(t *testing.T) {
	t.Setenv("CC", "")
	t.Setenv("CXX", "/opt/bin/g++-13")
	t.Setenv("LD", "")

	env := toolEnv("gcc")
	if env["CC"] != "gcc" || env["LD"] != "g++" {
		t.Errorf("env = %v", env)
	}
	if _, ok := env["CXX"]; ok {
		t.Errorf("CXX is set by the caller and must be kept, env = %v", env)
	}
	if env := toolEnv("apple-clang"); env["CC"] != "clang" {
		t.Errorf("apple-clang env = %v", env)
	}
	if env := toolEnv("msvc"); len(env) != 0 {
		t.Errorf("msvc env = %v", env)
	}
}

func TestPackageInfo(t *testing.T) {
	ctx := newContext(t, formula.Settings{}, nil)
	info, err := New().PackageInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(info.EnvPath, []string{"bin"}) || info.Env["DEPOT_TOOLS_UPDATE"] != "0" {
		t.Errorf("info = %+v", info)
	}
}
