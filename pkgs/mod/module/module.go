package module

import (
	"fmt"
	"strings"

	"golang.org/x/mod/module"
)

// Ref names a recipe at a version, written "name/version". The version part
// may be a range such as "[>=1.10.2 <2]" when the ref appears in a
// requirement.
type Ref struct {
	Name    string
	Version string
}

// ParseRef parses "name/version" or a bare "name".
func ParseRef(s string) (Ref, error) {
	name, version, _ := strings.Cut(s, "/")
	if name == "" {
		return Ref{}, fmt.Errorf("invalid reference %q: empty name", s)
	}
	if strings.ContainsAny(name, " \t@:") {
		return Ref{}, fmt.Errorf("invalid reference %q: bad name", s)
	}
	return Ref{Name: name, Version: version}, nil
}

func (r Ref) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "/" + r.Version
}

// IsRange reports whether the version is a range expression rather than
// a pinned version.
func (r Ref) IsRange() bool {
	return strings.HasPrefix(r.Version, "[")
}

// EscapeVersion returns a form of the version safe to use as a single path
// element on case-insensitive file systems.
func EscapeVersion(version string) (string, error) {
	return module.EscapeVersion(version)
}

// MarshalText encodes r as "name/version".
func (r Ref) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes the form produced by MarshalText.
func (r *Ref) UnmarshalText(data []byte) error {
	ref, err := ParseRef(string(data))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}
