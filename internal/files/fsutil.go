package files

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Copy copies the files under src whose slash-separated path relative to src
// matches pattern into dst, and returns the copied destination paths. A '*'
// in pattern matches across directories, so "*.h" selects headers at any
// depth while "LICENSE" selects only the top-level file. With keepPath false
// every file lands directly in dst. A missing src copies nothing.
func Copy(pattern, src, dst string, keepPath bool) ([]string, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil, nil
	}
	var copied []string
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !match(pattern, rel) {
			return nil
		}
		target := filepath.Join(dst, filepath.Base(p))
		if keepPath {
			target = filepath.Join(dst, filepath.FromSlash(rel))
		}
		if err := copyEntry(p, target, d); err != nil {
			return err
		}
		copied = append(copied, target)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("copy %s from %s: %w", pattern, src, err)
	}
	return copied, nil
}

// match reports whether rel matches the shell pattern, '*' also matching
// path separators.
func match(pattern, rel string) bool {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			if j := strings.IndexByte(pattern[i:], ']'); j > 0 {
				class := pattern[i+1 : i+j]
				if strings.HasPrefix(class, "!") {
					class = "^" + class[1:]
				}
				b.WriteString("[" + class + "]")
				i += j
				continue
			}
			b.WriteString(`\[`)
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	return err == nil && re.MatchString(rel)
}

func copyEntry(src, dst string, d fs.DirEntry) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if d.Type()&fs.ModeSymlink != 0 {
		link, err := os.Readlink(src)
		if err != nil {
			return err
		}
		os.Remove(dst)
		return os.Symlink(link, dst)
	}
	info, err := d.Info()
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return writeFile(dst, in, info.Mode().Perm())
}

// Rename moves src to dst, replacing dst if it exists.
func Rename(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	}
	return os.Rename(src, dst)
}

// Rmdir removes dir and everything in it. A missing dir is not an error.
func Rmdir(dir string) error {
	return os.RemoveAll(dir)
}

// Rm removes the files under dir whose base name matches pattern.
func Rm(pattern, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := path.Match(pattern, d.Name()); ok {
			return os.Remove(p)
		}
		return nil
	})
}

// Save writes content to path, creating parent directories.
func Save(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Load returns the content of path.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReplaceInFile replaces every occurrence of search in the file at path. It
// fails when search does not occur.
func ReplaceInFile(path, search, replace string) error {
	content, err := Load(path)
	if err != nil {
		return err
	}
	if !strings.Contains(content, search) {
		return fmt.Errorf("%s: pattern %q not found", path, search)
	}
	return Save(path, strings.ReplaceAll(content, search, replace))
}

// CollectLibs returns the sorted names of the libraries in libDir, as passed
// to the linker: "libfoo.a", "libfoo.so.1" and "foo.lib" all yield "foo".
func CollectLibs(libDir string) ([]string, error) {
	entries, err := os.ReadDir(libDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var libs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := libName(e.Name()); ok && !slices.Contains(libs, name) {
			libs = append(libs, name)
		}
	}
	slices.Sort(libs)
	return libs, nil
}

func libName(file string) (string, bool) {
	switch {
	case strings.HasSuffix(file, ".lib"):
		return strings.TrimSuffix(file, ".lib"), true
	case strings.HasPrefix(file, "lib"):
		base := strings.TrimPrefix(file, "lib")
		for _, ext := range []string{".a", ".dylib", ".so"} {
			if i := strings.Index(base, ext); i > 0 && (len(base) == i+len(ext) || base[i+len(ext)] == '.') {
				return base[:i], true
			}
		}
	}
	return "", false
}

// CopyFile copies a single file, creating dst's parent directories.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	return writeFile(dst, in, info.Mode().Perm())
}
