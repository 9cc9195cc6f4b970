package internal

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goplus/llarhub/internal/profile"
)

func TestParseRefArg(t *testing.T) {
	tests := []struct {
		arg         string
		wantName    string
		wantVersion string
	}{
		{"clang/19.1.7", "clang", "19.1.7"},
		{"clang", "clang", ""},
		{"skia/chrome-m99", "skia", "chrome-m99"},
		{"magic_enum/", "magic_enum", ""},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			name, version := parseRefArg(tt.arg)
			if name != tt.wantName {
				t.Errorf("parseRefArg(%q) name = %q, want %q", tt.arg, name, tt.wantName)
			}
			if version != tt.wantVersion {
				t.Errorf("parseRefArg(%q) version = %q, want %q", tt.arg, version, tt.wantVersion)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"clang:shared=True", "fPIC=False"})
	if err != nil {
		t.Fatal(err)
	}
	if opts["clang:shared"] != "True" || opts["fPIC"] != "False" {
		t.Errorf("opts = %v", opts)
	}
	for _, bad := range []string{"shared", "=True"} {
		if _, err := parseOptions([]string{bad}); err == nil {
			t.Errorf("parseOptions(%q) should fail", bad)
		}
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	data := `[settings]
os = "Linux"
arch = "x86_64"
compiler = "gcc"

[options]
"clang:shared" = "False"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	prof, err := loadProfile(path, []string{"clang:shared=True"})
	if err != nil {
		t.Fatal(err)
	}
	if prof.Options["clang:shared"] != "True" {
		t.Errorf("override lost: %v", prof.Options)
	}
	if prof.Settings.BuildType != "Release" {
		t.Errorf("build_type = %q, want Release", prof.Settings.BuildType)
	}

	def, err := loadProfile("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if def.Settings.OS != profile.Default().Settings.OS {
		t.Errorf("default os = %q", def.Settings.OS)
	}
}

func TestOutputResult(t *testing.T) {
	src := t.TempDir()
	os.MkdirAll(filepath.Join(src, "include"), 0755)
	if err := os.WriteFile(filepath.Join(src, "include", "magic_enum.hpp"), []byte("#pragma once\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err := outputResult(src, dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "include", "magic_enum.hpp")); err != nil {
		t.Errorf("copied file missing: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	if err := outputResult(src, zipPath); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if len(zr.File) != 1 || zr.File[0].Name != "include/magic_enum.hpp" {
		t.Errorf("zip entries = %v", zr.File)
	}
}

func TestZipDir(t *testing.T) {
	src := t.TempDir()
	names := []string{"a.txt", "lib/b.a", "lib/c.a", "include/d.h"}
	for _, name := range names {
		p := filepath.Join(src, name)
		os.MkdirAll(filepath.Dir(p), 0755)
		if err := os.WriteFile(p, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	dest := filepath.Join(t.TempDir(), "pkg.zip")
	if err := zipDir(src, dest); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if len(zr.File) != len(names) {
		t.Fatalf("%d entries, want %d", len(zr.File), len(names))
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil || string(data) != f.Name {
			t.Errorf("%s = %q, %v", f.Name, data, err)
		}
	}

	if err := zipDir(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "x.zip")); err == nil {
		t.Error("zipDir of a missing dir succeeded")
	}
	if err := zipDir(src, filepath.Join(t.TempDir(), "no", "such", "x.zip")); err == nil {
		t.Error("zipDir into a missing dir succeeded")
	}
}
