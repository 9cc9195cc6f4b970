package buildinfo

import (
	"regexp"
	"strings"
)

// Kind tells where a sanitized link token ends up in a Component.
type Kind int

const (
	// Dropped tokens are linked implicitly by the platform and are not recorded.
	Dropped Kind = iota
	// SystemLib tokens are operating-system libraries.
	SystemLib
	// Require tokens are components of this or another package.
	Require
)

func (k Kind) String() string {
	switch k {
	case Dropped:
		return "dropped"
	case SystemLib:
		return "system_libs"
	case Require:
		return "requires"
	}
	return "unknown"
}

var linkOnly = regexp.MustCompile(`\\?\$<LINK_ONLY:(.+)>`)

// Rules holds the lookup tables used to rewrite and partition the raw tokens
// of an INTERFACE_LINK_LIBRARIES string.
type Rules struct {
	// Separator splits a link-libraries string into tokens.
	Separator string

	// Renames maps an exported CMake target to its package-manager name.
	Renames map[string]string

	// LibFlagPrefix is the linker flag that names a bare library ("-l").
	LibFlagPrefix string

	// Namespaces maps a target name prefix to the upstream package owning
	// targets with that prefix. A matching token becomes "<package>::<token>".
	Namespaces map[string]string

	// Excluded tokens are dropped entirely.
	Excluded map[string]bool

	// SystemLibs tokens go to Component.SystemLibs.
	SystemLibs map[string]bool
}

// Sanitize rewrites a raw token. The first matching rule wins: link-only
// unwrap, rename table, library flag prefix, upstream namespace, identity.
func (r *Rules) Sanitize(token string) string {
	if m := linkOnly.FindStringSubmatch(token); m != nil {
		return m[1]
	}
	if to, ok := r.Renames[token]; ok {
		return to
	}
	if r.LibFlagPrefix != "" && strings.HasPrefix(token, r.LibFlagPrefix) {
		return token[len(r.LibFlagPrefix):]
	}
	if pkg, ok := r.namespaceOf(token); ok {
		return pkg + "::" + token
	}
	return token
}

// namespaceOf picks the longest matching prefix so that overlapping
// prefixes resolve the same way on every run.
func (r *Rules) namespaceOf(token string) (string, bool) {
	best, pkg := -1, ""
	for prefix, p := range r.Namespaces {
		if strings.HasPrefix(token, prefix) && len(prefix) > best {
			best, pkg = len(prefix), p
		}
	}
	return pkg, best >= 0
}

// Classify sanitizes token and reports which list it belongs to. Every token
// maps to exactly one Kind.
func (r *Rules) Classify(token string) (Kind, string) {
	name := r.Sanitize(token)
	switch {
	case r.Excluded[name]:
		return Dropped, name
	case r.SystemLibs[name]:
		return SystemLib, name
	}
	return Require, name
}

// split returns the tokens of a link-libraries string in declared order.
// Empty tokens produced by doubled separators are skipped.
func (r *Rules) split(libs string) []string {
	sep := r.Separator
	if sep == "" {
		sep = ";"
	}
	parts := strings.Split(libs, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
