package magicenum

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goplus/llarhub/formula"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings formula.Settings
		ok       bool
		warn     bool
	}{
		{"gcc9", formula.Settings{Compiler: "gcc", CompilerVersion: "9"}, true, false},
		{"gcc8", formula.Settings{Compiler: "gcc", CompilerVersion: "8.5"}, false, false},
		{"vs", formula.Settings{Compiler: "Visual Studio", CompilerVersion: "14.10"}, false, false},
		{"cppstd", formula.Settings{Compiler: "clang", CompilerVersion: "15", CppStd: "14"}, false, false},
		{"unknown", formula.Settings{Compiler: "apple-clang", CompilerVersion: "14"}, true, true},
	}
	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := r.Validate(formula.Config{Settings: tt.settings}, log.New(&buf))
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if got := strings.Contains(buf.String(), "unknown compiler"); got != tt.warn {
				t.Errorf("warning logged = %v, want %v: %q", got, tt.warn, buf.String())
			}
		})
	}
}

func TestPackageIDIgnoresSettings(t *testing.T) {
	r := New()
	a := r.PackageID(formula.Config{Settings: formula.Settings{Compiler: "gcc"}})
	b := r.PackageID(formula.Config{Settings: formula.Settings{Compiler: "msvc"}})
	if a != b {
		t.Errorf("package ids differ: %s != %s", a, b)
	}
}

func TestSourceAndPackage(t *testing.T) {
	ctx := &formula.Context{
		Name:       "magic_enum",
		Version:    "0.8.2",
		SourceDir:  t.TempDir(),
		PackageDir: t.TempDir(),
	}
	root := filepath.Join(ctx.SourceDir, "magic_enum-0.8.2")
	for _, p := range []string{"include/magic_enum.hpp", "include/magic_enum_fuse.hpp", "LICENSE", "test/LICENSE"} {
		p = filepath.Join(root, p)
		os.MkdirAll(filepath.Dir(p), 0755)
		if err := os.WriteFile(p, []byte(p), 0644); err != nil {
			t.Fatal(err)
		}
	}
	r := New()
	if err := r.Source(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.Package(ctx); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"include/magic_enum.hpp", "licenses/LICENSE"} {
		if _, err := os.Stat(filepath.Join(ctx.PackageDir, p)); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(ctx.PackageDir, "include", "magic_enum_fuse.hpp")); !os.IsNotExist(err) {
		t.Errorf("only magic_enum.hpp should be packaged, stat err = %v", err)
	}

	info, err := r.PackageInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.LibDirs) != 0 || len(info.IncludeDirs) != 1 {
		t.Errorf("info = %+v", info)
	}
}
