package formula

import (
	"slices"

	"github.com/goplus/llarhub/pkgs/mod/module"
)

// RequireKind tells how a dependency is used.
type RequireKind int

const (
	// Host dependencies are linked into the package.
	Host RequireKind = iota
	// Tool dependencies run on the build machine during the build.
	Tool
	// Test dependencies are only needed to build tests.
	Test
)

func (k RequireKind) String() string {
	switch k {
	case Tool:
		return "tool"
	case Test:
		return "test"
	}
	return "host"
}

// Requirement is one declared dependency.
type Requirement struct {
	Ref               module.Ref
	Kind              RequireKind
	TransitiveHeaders bool
	TransitiveLibs    bool
}

// RequireOption adjusts a Requirement.
type RequireOption func(*Requirement)

// TransitiveHeaders exposes the dependency's headers to consumers.
func TransitiveHeaders() RequireOption {
	return func(r *Requirement) { r.TransitiveHeaders = true }
}

// TransitiveLibs exposes the dependency's libraries to consumers.
func TransitiveLibs() RequireOption {
	return func(r *Requirement) { r.TransitiveLibs = true }
}

// ModuleDeps collects the dependencies declared by a recipe.
type ModuleDeps struct {
	// Version is the version of the recipe being built.
	Version string

	deps []Requirement
}

// Deps returns the collected dependencies in declaration order.
func (p *ModuleDeps) Deps() []Requirement {
	return slices.Clone(p.deps)
}

// Require declares a host dependency, ref being "name/version".
func (p *ModuleDeps) Require(ref string, opts ...RequireOption) {
	p.add(ref, Host, opts)
}

// ToolRequire declares a build-machine tool.
func (p *ModuleDeps) ToolRequire(ref string) {
	p.add(ref, Tool, nil)
}

// TestRequire declares a dependency needed only by tests.
func (p *ModuleDeps) TestRequire(ref string) {
	p.add(ref, Test, nil)
}

func (p *ModuleDeps) add(ref string, kind RequireKind, opts []RequireOption) {
	r, err := module.ParseRef(ref)
	if err != nil {
		panic(err)
	}
	req := Requirement{Ref: r, Kind: kind}
	for _, opt := range opts {
		opt(&req)
	}
	p.deps = append(p.deps, req)
}
