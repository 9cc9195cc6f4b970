// Package gnu compares version strings the way GNU filevercmp does.
//
// Compiler and package versions in recipes are free-form ("14.11", "191",
// "cci.20201009", "1.0~rc1"), so they cannot be compared as semver. The
// comparison walks both strings in alternating runs of non-digits and digits:
// non-digit runs compare by character rank, digit runs compare numerically.
//
// Ported from gnulib filevercmp.c, which is
//
//	Copyright (C) 1995 Ian Jackson <iwj10@cus.cam.ac.uk>
//	Copyright (C) 2001 Anthony Towns <aj@azure.humbug.org.au>
//	Copyright (C) 2008-2025 Free Software Foundation, Inc.
//
// and distributed under the GNU Lesser General Public License version 3 or later.
package gnu

import "slices"

// Compare returns a negative number when a sorts before b, zero when they
// are equivalent, and a positive number otherwise.
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if d := compareText(a, b, &i, &j); d != 0 {
			return d
		}
		if d := compareNumber(a, b, &i, &j); d != 0 {
			return d
		}
	}
	return 0
}

// Less reports whether a sorts strictly before b.
func Less(a, b string) bool { return Compare(a, b) < 0 }

// Sort orders versions from oldest to newest in place.
func Sort(versions []string) {
	slices.SortStableFunc(versions, Compare)
}

// compareText consumes the leading non-digit runs of a[*i:] and b[*j:].
func compareText(a, b string, i, j *int) int {
	for (*i < len(a) && !isDigit(a[*i])) || (*j < len(b) && !isDigit(b[*j])) {
		ra, rb := rank(at(a, *i)), rank(at(b, *j))
		if ra != rb {
			return ra - rb
		}
		*i++
		*j++
	}
	return 0
}

// compareNumber consumes the leading digit runs of a[*i:] and b[*j:]
// and compares them by value.
func compareNumber(a, b string, i, j *int) int {
	for *i < len(a) && a[*i] == '0' {
		*i++
	}
	for *j < len(b) && b[*j] == '0' {
		*j++
	}
	first := 0
	for *i < len(a) && *j < len(b) && isDigit(a[*i]) && isDigit(b[*j]) {
		if first == 0 {
			first = int(a[*i]) - int(b[*j])
		}
		*i++
		*j++
	}
	switch {
	case *i < len(a) && isDigit(a[*i]):
		return 1
	case *j < len(b) && isDigit(b[*j]):
		return -1
	}
	return first
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// rank orders characters inside a non-digit run: '~' first, then the end of
// the string and digits, then letters, then everything else.
func rank(c byte) int {
	switch {
	case c == '~':
		return -1
	case c == 0 || isDigit(c):
		return 0
	case isAlpha(c):
		return int(c)
	}
	return int(c) + 256
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
