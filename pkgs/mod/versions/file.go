package versions

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/goplus/llarhub/pkgs/gnu"
)

// Source is one archive or git checkout making up the sources of a version.
type Source struct {
	URL         string `yaml:"url,omitempty"`
	SHA256      string `yaml:"sha256,omitempty"`
	Git         string `yaml:"git,omitempty"`
	Ref         string `yaml:"ref,omitempty"`
	Destination string `yaml:"destination,omitempty"`
	StripRoot   bool   `yaml:"strip_root,omitempty"`
}

// Sources accepts either a single mapping or a list of mappings.
type Sources []Source

func (s *Sources) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var one Source
		if err := node.Decode(&one); err != nil {
			return err
		}
		*s = Sources{one}
		return nil
	case yaml.SequenceNode:
		var many []Source
		if err := node.Decode(&many); err != nil {
			return err
		}
		*s = many
		return nil
	}
	return fmt.Errorf("line %d: sources must be a mapping or a list", node.Line)
}

// Patch is a patch file shipped with the recipe.
type Patch struct {
	File        string `yaml:"patch_file"`
	Description string `yaml:"patch_description,omitempty"`
	Type        string `yaml:"patch_type,omitempty"`
}

// File is the per-recipe versions manifest.
type File struct {
	Sources map[string]Sources `yaml:"sources"`
	Patches map[string][]Patch `yaml:"patches,omitempty"`
}

// Parse decodes the manifest in data, or in file when data is nil.
func Parse(file string, data []byte) (*File, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var v File
	if err := yaml.NewDecoder(reader).Decode(&v); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	for ver, srcs := range v.Sources {
		for i, src := range srcs {
			if (src.URL == "") == (src.Git == "") {
				return nil, fmt.Errorf("parse %s: version %s source %d: exactly one of url or git is required", file, ver, i)
			}
		}
	}
	return &v, nil
}

// Versions lists the versions with sources from oldest to newest.
func (f *File) Versions() []string {
	vers := make([]string, 0, len(f.Sources))
	for v := range f.Sources {
		vers = append(vers, v)
	}
	slices.SortFunc(vers, Compare)
	return vers
}

// Latest returns the newest version, or "" when there are none.
func (f *File) Latest() string {
	vers := f.Versions()
	if len(vers) == 0 {
		return ""
	}
	return vers[len(vers)-1]
}

// Lookup returns the sources and patches of version.
func (f *File) Lookup(version string) (Sources, []Patch, error) {
	srcs, ok := f.Sources[version]
	if !ok {
		return nil, nil, fmt.Errorf("version %s not found (have %s)", version, strings.Join(f.Versions(), ", "))
	}
	return srcs, f.Patches[version], nil
}

// Compare orders two recipe versions. Versions that are valid semver once
// prefixed with "v" compare as semver; anything else falls back to GNU
// version ordering.
func Compare(a, b string) int {
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		if c := semver.Compare(va, vb); c != 0 {
			return c
		}
	}
	return gnu.Compare(a, b)
}
