package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Workspace directory layout:
//
//	workspaceDir/
//	  downloads/                     # fetched source archives
//	  <name>/                        # recipe-level dir (cacheDir)
//	    .cache.json                  # package cache: "version-packageID" -> packageEntry
//	    <version>/
//	      src/                       # sources, fetched once per version
//	      build/<packageID>/
//	      generators/<packageID>/
//	      package/<packageID>/       # install dir, package_info.json
const cacheFile = ".cache.json"

// packageEntry contains metadata about a single successful package.
type packageEntry struct {
	PackageDir string    `json:"package_dir"`
	BuildTime  time.Time `json:"build_time"`
}

// packageCache maps "version-packageID" keys to their package entries.
type packageCache struct {
	Cache map[string]*packageEntry `json:"cache"`
}

func cacheKey(version, packageID string) string {
	return version + "-" + packageID
}

func (c *packageCache) get(version, packageID string) (*packageEntry, bool) {
	entry, ok := c.Cache[cacheKey(version, packageID)]
	return entry, ok
}

func (c *packageCache) set(version, packageID string, entry *packageEntry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*packageEntry)
	}
	c.Cache[cacheKey(version, packageID)] = entry
}

// cacheDir returns the recipe-level directory: workspaceDir/<name>.
func (b *Builder) cacheDir(name string) string {
	return filepath.Join(b.opts.WorkspaceDir, name)
}

// loadCache reads the cache file of a recipe. A missing file yields an
// empty cache.
func (b *Builder) loadCache(name string) (*packageCache, error) {
	data, err := os.ReadFile(filepath.Join(b.cacheDir(name), cacheFile))
	if os.IsNotExist(err) {
		return &packageCache{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cache packageCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}
	return &cache, nil
}

// saveCache writes the cache file of a recipe.
func (b *Builder) saveCache(name string, cache *packageCache) error {
	dir := b.cacheDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}
