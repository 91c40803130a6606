package course

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog loads and caches course definitions from a directory of YAML
// files. Courses are keyed by slug.
type Catalog struct {
	rootDir string
	courses map[string]Course
	mu      sync.RWMutex
}

// NewCatalog creates a catalog and loads all courses under rootDir.
func NewCatalog(rootDir string) (*Catalog, error) {
	c := &Catalog{
		rootDir: rootDir,
		courses: make(map[string]Course),
	}

	if err := c.loadAll(); err != nil {
		return nil, fmt.Errorf("loading course catalog: %w", err)
	}

	slog.Info("course catalog loaded", "courses", len(c.courses))
	return c, nil
}

// Course returns a course by slug.
func (c *Catalog) Course(slug string) (Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	crs, ok := c.courses[slug]
	return crs, ok
}

// Live returns all courses open for learning.
func (c *Catalog) Live() []Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Course, 0, len(c.courses))
	for _, crs := range c.courses {
		if crs.Status == StatusLive {
			out = append(out, crs)
		}
	}
	return out
}

// All returns every loaded course regardless of status.
func (c *Catalog) All() []Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Course, 0, len(c.courses))
	for _, crs := range c.courses {
		out = append(out, crs)
	}
	return out
}

func (c *Catalog) loadAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		return c.loadCourse(path)
	})
}

func (c *Catalog) loadCourse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw rawCourse
	if err := yaml.Unmarshal(data, &raw); err != nil {
		slog.Warn("skipping invalid course YAML", "path", path, "error", err)
		return nil
	}

	if raw.ID == "" {
		return nil // Not a course file
	}

	crs := raw.normalize()

	c.mu.Lock()
	c.courses[crs.Slug] = crs
	c.mu.Unlock()

	return nil
}
