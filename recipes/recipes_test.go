package recipes

import (
	"slices"
	"testing"

	"github.com/goplus/llarhub/pkgs/mod/versions"
)

func TestNames(t *testing.T) {
	want := []string{"clang", "magic_enum", "microtex", "skia"}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			if r.Name != name {
				t.Errorf("recipe name = %q", r.Name)
			}
			f, err := versions.Parse(name+"/versions.yml", r.Versions)
			if err != nil {
				t.Fatal(err)
			}
			if f.Latest() == "" {
				t.Error("no versions")
			}
			if _, err := r.ResolveOptions(nil); err != nil {
				t.Errorf("default options: %v", err)
			}
			for opt, def := range r.DefaultOptions {
				if !slices.Contains(r.Options[opt], def) {
					t.Errorf("default %s=%s is outside %v", opt, def, r.Options[opt])
				}
			}
		})
	}
	if _, err := Lookup("zlib"); err == nil {
		t.Error("Lookup(zlib) should fail")
	}
}
