package files

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Extract unpacks the archive at src into dir. The format is chosen from the
// file name: .tar.gz/.tgz, .tar.xz/.txz, .tar.zst, .tar or .zip. With
// stripRoot the top-level directory every entry lives in is dropped.
func Extract(src, dir string, stripRoot bool) error {
	name := strings.ToLower(filepath.Base(src))
	if strings.HasSuffix(name, ".zip") {
		return extractZip(src, dir, stripRoot)
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		x, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		r = x
	case strings.HasSuffix(name, ".tar.zst"):
		z, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer z.Close()
		r = z
	case strings.HasSuffix(name, ".tar"):
		r = f
	default:
		return fmt.Errorf("%s: unsupported archive format", src)
	}
	return extractTar(r, dir, stripRoot)
}

func extractTar(r io.Reader, dir string, stripRoot bool) error {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}
		if header.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		target, ok, err := entryPath(dir, header.Name, stripRoot)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s -> %s: %w", target, header.Linkname, err)
			}
		case tar.TypeLink:
			linked, ok, err := entryPath(dir, header.Linkname, stripRoot)
			if err != nil || !ok {
				return fmt.Errorf("invalid hard link %s -> %s", header.Name, header.Linkname)
			}
			os.Remove(target)
			if err := os.Link(linked, target); err != nil {
				return fmt.Errorf("creating hard link %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		}
	}
}

func extractZip(src, dir string, stripRoot bool) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		target, ok, err := entryPath(dir, f.Name, stripRoot)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// entryPath maps an archive entry name to its location under dir. It
// reports false for entries that vanish after stripping the root.
func entryPath(dir, name string, stripRoot bool) (string, bool, error) {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	if stripRoot {
		_, rest, _ := strings.Cut(name, "/")
		name = rest
	}
	name = strings.Trim(name, "/")
	if name == "" || name == "." {
		return "", false, nil
	}
	target := filepath.Join(dir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", false, fmt.Errorf("archive entry %q escapes the destination", name)
	}
	return target, true, nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing file %s: %w", target, err)
	}
	return out.Close()
}
