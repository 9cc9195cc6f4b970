// Package files fetches, unpacks and lays out the files recipes work on.
package files

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goplus/llarhub/internal/vcs"
	"github.com/goplus/llarhub/pkgs/mod/versions"
)

// ErrChecksum is returned when a download does not match its sha256.
var ErrChecksum = errors.New("checksum mismatch")

// Client is the HTTP client used for downloads.
var Client = http.DefaultClient

// Get fetches src into dir. Archives are downloaded into cacheDir once,
// verified against src.SHA256 when set and extracted; git sources are
// checked out at src.Ref.
func Get(ctx context.Context, src versions.Source, dir, cacheDir string) error {
	if src.Destination != "" {
		dir = filepath.Join(dir, src.Destination)
	}
	if src.Git != "" {
		ref := src.Ref
		if ref == "" {
			ref = "HEAD"
		}
		_, err := new(vcs.Git).Sync(ctx, src.Git, ref, dir)
		return err
	}
	archive, err := Download(ctx, src.URL, src.SHA256, cacheDir)
	if err != nil {
		return err
	}
	return Extract(archive, dir, src.StripRoot)
}

// Fetch lays out srcs in dir one at a time in manifest order and stops at
// the first failure.
func Fetch(ctx context.Context, srcs versions.Sources, dir, cacheDir string) error {
	for _, src := range srcs {
		if err := Get(ctx, src, dir, cacheDir); err != nil {
			return err
		}
	}
	return nil
}

// Download stores rawURL under cacheDir and returns the local path. A cached
// file is reused when it matches sum; an empty sum skips verification.
func Download(ctx context.Context, rawURL, sum, cacheDir string) (string, error) {
	name, err := fileName(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(cacheDir, name)
	if sum != "" {
		if err := VerifySHA256(dest, sum); err == nil {
			return dest, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(cacheDir, name+".*.part")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if sum != "" {
		if actual := hex.EncodeToString(h.Sum(nil)); !strings.EqualFold(actual, sum) {
			return "", fmt.Errorf("%s: %w: expected %s, got %s", rawURL, ErrChecksum, sum, actual)
		}
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}
	return dest, nil
}

// VerifySHA256 checks the sha256 of the file at path.
func VerifySHA256(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%s: %w: expected %s, got %s", path, ErrChecksum, expected, actual)
	}
	return nil
}

func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid source url %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid source url %q: no file name", rawURL)
	}
	return name, nil
}
