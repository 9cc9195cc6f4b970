// Package profile loads build profiles: the settings a package is built for,
// option overrides and the pre-built dependencies it may consume.
package profile

import (
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/goplus/llarhub/formula"
)

// Settings mirrors formula.Settings in the profile file.
type Settings struct {
	OS              string `toml:"os"`
	Arch            string `toml:"arch"`
	Compiler        string `toml:"compiler"`
	CompilerVersion string `toml:"compiler_version"`
	CppStd          string `toml:"cppstd"`
	Libcxx          string `toml:"libcxx"`
	Runtime         string `toml:"runtime"`
	BuildType       string `toml:"build_type"`
}

// Dependency is a pre-built package the profile provides.
type Dependency struct {
	Version    string            `toml:"version"`
	PackageDir string            `toml:"package_dir"`
	Options    map[string]string `toml:"options"`
}

// Profile is the content of a profile file.
type Profile struct {
	Settings     Settings              `toml:"settings"`
	Options      map[string]string     `toml:"options"`
	Dependencies map[string]Dependency `toml:"dependencies"`
}

// Load reads the profile at path. Settings missing from the file are
// filled in from Default.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse decodes a profile; file is used in error messages.
func Parse(file string, data []byte) (*Profile, error) {
	var p Profile
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", file, undecoded[0].String())
	}
	for name, dep := range p.Dependencies {
		if dep.PackageDir == "" {
			return nil, fmt.Errorf("parse %s: dependency %s: package_dir is required", file, name)
		}
	}
	p.fillDefaults()
	return &p, nil
}

// Default returns the profile of the host: its OS and architecture, the
// compiler named by $CC when set, Release builds and no dependencies.
func Default() *Profile {
	p := &Profile{}
	p.fillDefaults()
	return p
}

func (p *Profile) fillDefaults() {
	s := &p.Settings
	if s.OS == "" {
		s.OS = hostOS()
	}
	if s.Arch == "" {
		s.Arch = hostArch()
	}
	if s.Compiler == "" {
		s.Compiler = hostCompiler()
	}
	if s.BuildType == "" {
		s.BuildType = "Release"
	}
	if p.Options == nil {
		p.Options = map[string]string{}
	}
	if p.Dependencies == nil {
		p.Dependencies = map[string]Dependency{}
	}
}

// FormulaSettings converts the profile settings.
func (p *Profile) FormulaSettings() formula.Settings {
	s := p.Settings
	return formula.Settings{
		OS:              s.OS,
		Arch:            s.Arch,
		Compiler:        s.Compiler,
		CompilerVersion: s.CompilerVersion,
		CppStd:          s.CppStd,
		Libcxx:          s.Libcxx,
		Runtime:         s.Runtime,
		BuildType:       s.BuildType,
	}
}

// WithOptions returns a copy of p whose option overrides are extended by
// overrides, which win over the profile's own.
func (p *Profile) WithOptions(overrides map[string]string) *Profile {
	p2 := *p
	p2.Options = make(map[string]string, len(p.Options)+len(overrides))
	for k, v := range p.Options {
		p2.Options[k] = v
	}
	for k, v := range overrides {
		p2.Options[k] = v
	}
	return &p2
}

func hostOS() string {
	switch runtime.GOOS {
	case "darwin":
		return "Macos"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	}
	return runtime.GOOS
}

func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	case "arm":
		return "armv7"
	}
	return runtime.GOARCH
}

func hostCompiler() string {
	switch cc := os.Getenv("CC"); {
	case cc == "":
	case containsBase(cc, "clang"):
		if runtime.GOOS == "darwin" {
			return "apple-clang"
		}
		return "clang"
	case containsBase(cc, "gcc"), containsBase(cc, "cc"):
		return "gcc"
	case containsBase(cc, "cl"):
		return "msvc"
	}
	switch runtime.GOOS {
	case "darwin":
		return "apple-clang"
	case "windows":
		return "msvc"
	}
	return "gcc"
}
