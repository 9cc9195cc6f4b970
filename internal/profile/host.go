package profile

import (
	"path/filepath"
	"strings"
)

// containsBase reports whether the executable named by cc is a flavour of
// name, such as "/usr/bin/x86_64-linux-gnu-gcc-13" for "gcc".
func containsBase(cc, name string) bool {
	base := strings.TrimSuffix(filepath.Base(cc), ".exe")
	for _, part := range strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' }) {
		if part == name || strings.TrimRight(part, "0123456789.+") == name {
			return true
		}
	}
	return false
}
