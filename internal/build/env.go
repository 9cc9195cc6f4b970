package build

import (
	"os"
	"strings"
)

// saveEnv snapshots the process environment and returns a function that
// restores it.
func saveEnv() (restore func()) {
	saved := os.Environ()
	return func() {
		os.Clearenv()
		for _, e := range saved {
			if k, v, ok := strings.Cut(e, "="); ok {
				os.Setenv(k, v)
			}
		}
	}
}
