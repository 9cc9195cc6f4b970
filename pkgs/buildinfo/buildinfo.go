// Package buildinfo recovers the component graph of a CMake package from the
// targets file written by "cmake --install".
//
// A targets file declares each imported library with add_library and its
// link interface with set_target_properties(... INTERFACE_LINK_LIBRARIES "a;b").
// Extract turns those declarations into a Table, which is persisted next to
// the installed package and read back when describing the package to
// consumers.
package buildinfo

import (
	"regexp"
	"slices"
)

// Component is the dependency record of one installed library.
type Component struct {
	Requires   []string `json:"requires"`
	SystemLibs []string `json:"system_libs"`
}

// Table maps component names to their dependency records.
type Table map[string]Component

var (
	matchLibraries    = regexp.MustCompile(`(?m)^add_library\((\S+).*\)$`)
	matchDependencies = regexp.MustCompile(`(?m)^set_target_properties\((\S+).*\n?\s*INTERFACE_LINK_LIBRARIES\s+"(\S+)"`)
)

// Libraries returns the set of library names declared by add_library.
func Libraries(text string) map[string]bool {
	libs := make(map[string]bool)
	for _, m := range matchLibraries.FindAllStringSubmatch(text, -1) {
		libs[m[1]] = true
	}
	return libs
}

// Parse builds the Component for one link-libraries string.
func (r *Rules) Parse(libs string) Component {
	c := Component{Requires: []string{}, SystemLibs: []string{}}
	for _, tok := range r.split(libs) {
		switch kind, name := r.Classify(tok); kind {
		case SystemLib:
			c.SystemLibs = append(c.SystemLibs, name)
		case Require:
			c.Requires = append(c.Requires, name)
		}
	}
	return c
}

// Extract returns the components declared in a CMake targets file. Link
// statements for targets that are not declared libraries are ignored, and
// repeated statements for one target are merged. Input without any match
// yields an empty table.
func Extract(text string, r *Rules) Table {
	libs := Libraries(text)
	t := make(Table)
	for _, m := range matchDependencies.FindAllStringSubmatch(text, -1) {
		name, deps := m[1], m[2]
		if !libs[name] {
			continue
		}
		c := r.Parse(deps)
		if prev, ok := t[name]; ok {
			c = Component{
				Requires:   union(prev.Requires, c.Requires),
				SystemLibs: union(prev.SystemLibs, c.SystemLibs),
			}
		}
		t[name] = c
	}
	return t
}

// union appends the entries of b that a does not already hold.
func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, s := range b {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Names returns the component names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
