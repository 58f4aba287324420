package app

import (
	"os"
	"path/filepath"
	"sync"
)

// SearchPaths is an ordered set of directories used to locate auxiliary
// theme files such as pixmaps.
type SearchPaths struct {
	mu   sync.RWMutex
	dirs []string
}

// NewSearchPaths creates a search path list seeded with dirs.
func NewSearchPaths(dirs ...string) *SearchPaths {
	sp := &SearchPaths{}
	for _, d := range dirs {
		sp.Add(d)
	}
	return sp
}

// Add appends dir unless it is already present. Empty dirs are ignored.
func (sp *SearchPaths) Add(dir string) {
	if dir == "" {
		return
	}
	dir = filepath.Clean(dir)
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for _, d := range sp.dirs {
		if d == dir {
			return
		}
	}
	sp.dirs = append(sp.dirs, dir)
}

// Remove deletes dir if present.
func (sp *SearchPaths) Remove(dir string) {
	if dir == "" {
		return
	}
	dir = filepath.Clean(dir)
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for i, d := range sp.dirs {
		if d == dir {
			sp.dirs = append(sp.dirs[:i], sp.dirs[i+1:]...)
			return
		}
	}
}

// List returns a copy of the directories in search order.
func (sp *SearchPaths) List() []string {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	out := make([]string, len(sp.dirs))
	copy(out, sp.dirs)
	return out
}

// Find returns the first existing dir/file. Absolute paths are checked as-is.
func (sp *SearchPaths) Find(file string) (string, bool) {
	if file == "" {
		return "", false
	}
	if filepath.IsAbs(file) {
		if isFile(file) {
			return file, true
		}
		return "", false
	}
	for _, d := range sp.List() {
		p := filepath.Join(d, file)
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
