package formula

import (
	"maps"
	"slices"
)

// Component is one linkable unit of a package as seen by consumers.
type Component struct {
	Libs        []string       `json:"libs,omitempty"`
	SystemLibs  []string       `json:"system_libs,omitempty"`
	Requires    []string       `json:"requires,omitempty"`
	Defines     []string       `json:"defines,omitempty"`
	CFlags      []string       `json:"cflags,omitempty"`
	CxxFlags    []string       `json:"cxxflags,omitempty"`
	LinkFlags   []string       `json:"linkflags,omitempty"`
	IncludeDirs []string       `json:"includedirs,omitempty"`
	LibDirs     []string       `json:"libdirs,omitempty"`
	BinDirs     []string       `json:"bindirs,omitempty"`
	BuildDirs   []string       `json:"builddirs,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// SetProperty records a build-system specific property, such as
// "cmake_target_name".
func (c *Component) SetProperty(key string, value any) {
	if c.Properties == nil {
		c.Properties = make(map[string]any)
	}
	c.Properties[key] = value
}

// Property returns a property set with SetProperty.
func (c *Component) Property(key string) (any, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// CppInfo is the consumer-facing description of a package: a root component,
// optional named components, and environment for running its tools.
type CppInfo struct {
	Component
	Components map[string]*Component `json:"components,omitempty"`

	// EnvPath lists directories consumers append to PATH.
	EnvPath []string `json:"env_path,omitempty"`
	// Env lists variables consumers set.
	Env map[string]string `json:"env,omitempty"`
}

// NewCppInfo returns the default layout: headers in include, libraries in
// lib, executables in bin.
func NewCppInfo() *CppInfo {
	return &CppInfo{
		Component: Component{
			IncludeDirs: []string{"include"},
			LibDirs:     []string{"lib"},
			BinDirs:     []string{"bin"},
		},
	}
}

// Comp returns the component called name, creating it with the default
// layout on first use.
func (c *CppInfo) Comp(name string) *Component {
	if c.Components == nil {
		c.Components = make(map[string]*Component)
	}
	comp, ok := c.Components[name]
	if !ok {
		comp = &Component{
			IncludeDirs: []string{"include"},
			LibDirs:     []string{"lib"},
		}
		c.Components[name] = comp
	}
	return comp
}

// ComponentNames returns the component names in sorted order.
func (c *CppInfo) ComponentNames() []string {
	return slices.Sorted(maps.Keys(c.Components))
}

// SetEnv records a variable for consumers.
func (c *CppInfo) SetEnv(key, value string) {
	if c.Env == nil {
		c.Env = make(map[string]string)
	}
	c.Env[key] = value
}
