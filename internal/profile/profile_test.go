package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const clangProfile = `
[settings]
os = "Linux"
arch = "x86_64"
compiler = "gcc"
compiler_version = "13"
cppstd = "17"
build_type = "Release"

[options]
"clang:shared" = "False"

[dependencies.llvm-core]
version = "19.1.7"
package_dir = "/opt/llvm-core"
[dependencies.llvm-core.options]
rtti = "False"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linux.toml")
	if err := os.WriteFile(path, []byte(clangProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := p.FormulaSettings()
	if s.OS != "Linux" || s.Arch != "x86_64" || s.Compiler != "gcc" || s.CompilerVersion != "13" || s.CppStd != "17" {
		t.Fatalf("settings = %+v", s)
	}
	if got := p.Options["clang:shared"]; got != "False" {
		t.Fatalf("clang:shared = %q", got)
	}
	dep, ok := p.Dependencies["llvm-core"]
	if !ok {
		t.Fatal("llvm-core dependency missing")
	}
	if dep.Version != "19.1.7" || dep.PackageDir != "/opt/llvm-core" || dep.Options["rtti"] != "False" {
		t.Fatalf("llvm-core = %+v", dep)
	}
}

func TestParseFillsDefaults(t *testing.T) {
	p, err := Parse("empty.toml", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Settings.OS == "" || p.Settings.Arch == "" || p.Settings.Compiler == "" {
		t.Fatalf("defaults not filled: %+v", p.Settings)
	}
	if p.Settings.BuildType != "Release" {
		t.Fatalf("build_type = %q, want Release", p.Settings.BuildType)
	}
	if p.Options == nil || p.Dependencies == nil {
		t.Fatal("maps not initialized")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[settings\n", "parse bad.toml"},
		{"unknown key", "[settings]\nos_name = \"Linux\"\n", "unknown key"},
		{"missing package_dir", "[dependencies.zlib]\nversion = \"1.3\"\n", "package_dir is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.toml", []byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Parse error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestWithOptions(t *testing.T) {
	p := Default()
	p.Options["shared"] = "False"
	p2 := p.WithOptions(map[string]string{"shared": "True", "fPIC": "False"})
	if p2.Options["shared"] != "True" || p2.Options["fPIC"] != "False" {
		t.Fatalf("overrides not applied: %v", p2.Options)
	}
	if p.Options["shared"] != "False" {
		t.Fatal("WithOptions modified the original profile")
	}
}

func TestContainsBase(t *testing.T) {
	tests := []struct {
		cc   string
		name string
		want bool
	}{
		{"/usr/bin/x86_64-linux-gnu-gcc-13", "gcc", true},
		{"clang-17", "clang", true},
		{"clang++", "clang", true},
		{"cl.exe", "cl", true},
		{"clang", "cl", false},
		{"gcc", "clang", false},
	}
	for _, tt := range tests {
		if got := containsBase(tt.cc, tt.name); got != tt.want {
			t.Errorf("containsBase(%q, %q) = %v, want %v", tt.cc, tt.name, got, tt.want)
		}
	}
}

func TestHostCompilerFromCC(t *testing.T) {
	t.Setenv("CC", "/usr/bin/gcc-13")
	if got := hostCompiler(); got != "gcc" {
		t.Fatalf("hostCompiler() = %q, want gcc", got)
	}
}
