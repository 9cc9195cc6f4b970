package files

import (
	"bytes"
	"fmt"

	"github.com/goplus/llarhub/formula"
)

// ApplyPatches applies the patches the manifest lists for ctx.Version to
// ctx.SourceDir with "patch -p1", in manifest order. Patch files are read
// from the recipe exports.
func ApplyPatches(ctx *formula.Context) error {
	if ctx.Versions == nil {
		return nil
	}
	for _, p := range ctx.Versions.Patches[ctx.Version] {
		data, err := ctx.ReadExport(p.File)
		if err != nil {
			return fmt.Errorf("read patch %s: %w", p.File, err)
		}
		if p.Description != "" {
			ctx.Log().Info("applying patch", "file", p.File, "description", p.Description)
		} else {
			ctx.Log().Info("applying patch", "file", p.File)
		}
		cmd := ctx.Command("patch", "-p1", "--forward", "--batch")
		cmd.Stdin = bytes.NewReader(data)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("apply patch %s: %w", p.File, err)
		}
	}
	return nil
}
