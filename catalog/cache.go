package catalog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// fileStamp identifies one version of the product file.
type fileStamp struct {
	path    string
	modTime time.Time
	size    int64
}

func (f fileStamp) key() string {
	return fmt.Sprintf("%s|%d|%d", f.path, f.modTime.UnixNano(), f.size)
}

func stampOf(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return fileStamp{}, &LoadError{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}
	return fileStamp{path: path, modTime: info.ModTime(), size: info.Size()}, nil
}

type catalogCache struct {
	mu sync.RWMutex
	m  map[string]*Catalog
}

func newCatalogCache() *catalogCache {
	return &catalogCache{m: make(map[string]*Catalog)}
}

func (c *catalogCache) get(stamp fileStamp) (*Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[stamp.key()]
	return v, ok
}

// put stores the catalog and drops older versions of the same file.
func (c *catalogCache) put(stamp fileStamp, cat *Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.m {
		if v.Path == stamp.path {
			delete(c.m, k)
		}
	}
	c.m[stamp.key()] = cat
}

func (c *catalogCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]*Catalog)
}

func (c *catalogCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
