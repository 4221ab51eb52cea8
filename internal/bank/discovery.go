package bank

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreRules holds the compiled ignore patterns for one walk. Patterns come
// from .gitignore files met during the walk plus any configured extras.
type ignoreRules struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
	dirOnly bool
}

func newIgnoreRules(extra []string) *ignoreRules {
	rules := &ignoreRules{}
	for _, pattern := range extra {
		rules.add(pattern)
	}
	return rules
}

// add compiles one ignore pattern. Invalid patterns are dropped; ignore
// files are advisory, not part of the input contract.
func (r *ignoreRules) add(pattern string) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || strings.HasPrefix(pattern, "#") {
		return
	}
	dirOnly := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")
	g, err := glob.Compile(pattern)
	if err != nil {
		return
	}
	r.patterns = append(r.patterns, compiledPattern{pattern: pattern, glob: g, dirOnly: dirOnly})
}

// loadIgnoreFile reads a .gitignore-style file into the rule set.
func (r *ignoreRules) loadIgnoreFile(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		r.add(scanner.Text())
	}
}

// match reports whether a slash-separated relative path is ignored. A
// pattern without a slash matches any path segment; a pattern with slashes
// matches the whole relative path.
func (r *ignoreRules) match(relPath string, isDir bool) bool {
	segments := strings.Split(relPath, "/")
	for _, p := range r.patterns {
		if p.dirOnly && !isDir {
			// a directory pattern still ignores files beneath the
			// directory, which the walk handles by pruning
			continue
		}
		if strings.Contains(p.pattern, "/") {
			if p.glob.Match(relPath) {
				return true
			}
			continue
		}
		for _, segment := range segments {
			if p.glob.Match(segment) {
				return true
			}
		}
	}
	return false
}

// discoverFiles walks the root and returns the relative paths of candidate
// files in lexicographic order. Hidden directories and ignored paths are
// pruned; the caller filters by extension.
func discoverFiles(rootDir string, extraIgnores []string) ([]string, error) {
	rules := newIgnoreRules(extraIgnores)
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if path == rootDir {
				return err
			}
			// descendant IO errors skip the entry, not the walk
			return nil
		}
		if path == rootDir {
			rules.loadIgnoreFile(filepath.Join(path, ".gitignore"))
			return nil
		}

		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if rules.match(relPath, true) {
				return filepath.SkipDir
			}
			rules.loadIgnoreFile(filepath.Join(path, ".gitignore"))
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if rules.match(relPath, false) {
			return nil
		}
		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
