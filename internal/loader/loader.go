// Package loader discovers skill tree source files and turns them into
// source bundles ready for merging.
//
// # Discovery
//
// Files are matched with doublestar globs relative to a root directory, so
// patterns such as "trees/**/*.yaml" work as expected. Matches are read in
// lexical order; primary sources are moved to the front so their
// declarations are registered first.
//
// # Problems
//
// A file that cannot be parsed does not abort the load. It is reported as a
// problem and skipped, the same way structural issues inside a document are.
package loader

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"skilltree/internal/codec"
	"skilltree/internal/domain"
	"skilltree/internal/merge"

	"github.com/bmatcuk/doublestar/v4"
)

// Result is the outcome of one load
type Result struct {
	Files    []string
	Bundles  []domain.SourceBundle
	Styles   map[string]domain.Color
	Problems []domain.Problem
}

// Merge merges the loaded bundles into a graph. Load problems come first in
// the returned list.
func (r *Result) Merge() (*domain.Graph, []domain.Problem) {
	g, problems := merge.Merge(r.Bundles)
	all := make([]domain.Problem, 0, len(r.Problems)+len(problems))
	all = append(all, r.Problems...)
	all = append(all, problems...)
	return g, all
}

// Loader reads source files below a root directory
type Loader struct {
	root    string
	include []string
	primary []string
}

// New creates a loader. Include patterns select the files to read; primary
// patterns mark files whose nodes are shown in the tree view even when the
// document itself does not say primary.
func New(root string, include, primary []string) (*Loader, error) {
	for _, p := range append(append([]string{}, include...), primary...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid source pattern %q", p)
		}
	}
	if root == "" {
		root = "."
	}
	return &Loader{root: root, include: include, primary: primary}, nil
}

// Root returns the directory patterns are resolved against
func (l *Loader) Root() string {
	return l.root
}

// Files returns the matched files, relative to root, sorted and deduplicated
func (l *Loader) Files() ([]string, error) {
	fsys := os.DirFS(l.root)
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range l.include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every matched file
func (l *Loader) Load() (*Result, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("loader: no source files match %v under %s", l.include, l.root)
	}

	result := &Result{Files: files, Styles: make(map[string]domain.Color)}
	var primary, secondary []domain.SourceBundle

	for _, rel := range files {
		doc, err := ParseFile(filepath.Join(l.root, filepath.FromSlash(rel)))
		key := SourceKey(rel)
		if err != nil {
			result.Problems = append(result.Problems, domain.Errorf(key, rel, "%v", err))
			continue
		}

		bundle, problems := doc.Bundle(key)
		result.Problems = append(result.Problems, problems...)
		if !bundle.Primary && l.isPrimary(rel) {
			bundle.Primary = true
		}
		if bundle.Primary {
			primary = append(primary, bundle)
		} else {
			secondary = append(secondary, bundle)
		}

		styles, problems := doc.StyleColors(key)
		result.Problems = append(result.Problems, problems...)
		for id, c := range styles {
			if prev, ok := result.Styles[id]; ok && prev != c {
				result.Problems = append(result.Problems, domain.Warnf(bundle.Key, id, "style overrides %s with %s", prev, c))
			}
			result.Styles[id] = c
		}
	}

	result.Bundles = append(primary, secondary...)
	log.Printf("loader: read %d files (%d primary), %d problems", len(files), len(primary), len(result.Problems))
	return result, nil
}

func (l *Loader) isPrimary(rel string) bool {
	for _, p := range l.primary {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// ParseFile reads one source document, picking the codec from the extension
func ParseFile(filename string) (*codec.Document, error) {
	c, err := codec.ForPath(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	return c.Parse(f)
}

// SourceKey derives the default source key from a slash separated relative
// path: "classes/swordsman.yaml" becomes "classes/swordsman".
func SourceKey(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, path.Ext(rel))
}
