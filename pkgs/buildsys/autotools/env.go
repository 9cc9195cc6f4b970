package autotools

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/llarhub/formula"
)

// Environment holds the compiler and linker flags an autotools-style build
// reads from CFLAGS, CXXFLAGS, CPPFLAGS and LDFLAGS. New derives them from
// the settings and the dependencies of the build; recipes may append more
// before calling Vars.
type Environment struct {
	Flags        []string
	CxxFlags     []string
	LinkFlags    []string
	Defines      []string
	IncludePaths []string
	LibraryPaths []string
}

// NewEnvironment returns the environment for ctx.
func NewEnvironment(ctx *formula.Context) *Environment {
	s := ctx.Settings()
	e := &Environment{
		Flags:    archFlags(s),
		CxxFlags: libcxxFlags(s),
	}
	if !s.IsMSVC() {
		switch s.BuildType {
		case "Debug":
			e.Flags = append(e.Flags, "-g")
		case "Release":
			e.Flags = append(e.Flags, "-O3")
			e.LinkFlags = append(e.LinkFlags, "-s")
		case "RelWithDebInfo":
			e.Flags = append(e.Flags, "-O2", "-g")
		case "MinSizeRel":
			e.Flags = append(e.Flags, "-Os")
		}
	}
	if s.BuildType != "" && s.BuildType != "Debug" {
		e.Defines = append(e.Defines, "NDEBUG")
	}
	if s.Libcxx == "libstdc++11" {
		e.Defines = append(e.Defines, "_GLIBCXX_USE_CXX11_ABI=1")
	} else if s.Libcxx == "libstdc++" {
		e.Defines = append(e.Defines, "_GLIBCXX_USE_CXX11_ABI=0")
	}

	names := make([]string, 0, len(ctx.Dependencies))
	for name := range ctx.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dir := ctx.Dependencies[name].PackageDir
		if dir == "" {
			continue
		}
		e.IncludePaths = append(e.IncludePaths, filepath.Join(dir, "include"))
		e.LibraryPaths = append(e.LibraryPaths, filepath.Join(dir, "lib"))
	}
	return e
}

// Vars renders the environment as variables for the build tool.
func (e *Environment) Vars() map[string]string {
	cppflags := make([]string, 0, len(e.Defines)+len(e.IncludePaths))
	for _, d := range e.Defines {
		cppflags = append(cppflags, "-D"+d)
	}
	for _, p := range e.IncludePaths {
		cppflags = append(cppflags, "-I"+p)
	}
	ldflags := make([]string, 0, len(e.LinkFlags)+len(e.LibraryPaths))
	ldflags = append(ldflags, e.LinkFlags...)
	for _, p := range e.LibraryPaths {
		ldflags = append(ldflags, "-L"+p)
	}
	ldflags = append(ldflags, e.Flags...)

	cxxflags := append(append([]string{}, e.Flags...), e.CxxFlags...)
	return map[string]string{
		"CFLAGS":   strings.Join(e.Flags, " "),
		"CXXFLAGS": strings.Join(cxxflags, " "),
		"CPPFLAGS": strings.Join(cppflags, " "),
		"LDFLAGS":  strings.Join(ldflags, " "),
	}
}

func archFlags(s formula.Settings) []string {
	if s.IsMSVC() {
		return nil
	}
	switch s.Arch {
	case "x86_64":
		return []string{"-m64"}
	case "x86":
		return []string{"-m32"}
	}
	return nil
}

func libcxxFlags(s formula.Settings) []string {
	if s.Compiler != "clang" && s.Compiler != "apple-clang" {
		return nil
	}
	switch s.Libcxx {
	case "libc++":
		return []string{"-stdlib=libc++"}
	case "libstdc++", "libstdc++11":
		return []string{"-stdlib=libstdc++"}
	}
	return nil
}
