// Package recipes registers the recipes shipped with llarhub.
package recipes

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/recipes/clang"
	"github.com/goplus/llarhub/recipes/magicenum"
	"github.com/goplus/llarhub/recipes/microtex"
	"github.com/goplus/llarhub/recipes/skia"
)

var registry = map[string]func() *formula.Recipe{
	"clang":      clang.New,
	"magic_enum": magicenum.New,
	"microtex":   microtex.New,
	"skia":       skia.New,
}

// Lookup returns a fresh copy of the recipe called name.
func Lookup(name string) (*formula.Recipe, error) {
	newRecipe, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown recipe %q (have %v)", name, Names())
	}
	return newRecipe(), nil
}

// Names returns the registered recipe names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}
