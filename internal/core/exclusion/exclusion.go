// Package exclusion holds the process-wide set of excluded paths. The set is
// configured once before a scan starts and is read concurrently by scanners
// and import extractors afterwards.
package exclusion

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"fence/internal/core/errors"
)

var (
	mu          sync.RWMutex
	projectRoot string
	globs       []glob.Glob
	regexps     []*regexp.Regexp
)

// Set compiles the exclusion patterns and installs them for the project
// rooted at projectRoot, replacing any previous configuration. Patterns are
// glob expressions with ** support, or unanchored regular expressions when
// useRegex is set. Either way they are matched against slash-separated paths
// relative to the project root.
func Set(root string, patterns []string, useRegex bool) error {
	var compiledGlobs []glob.Glob
	var compiledRegexps []*regexp.Regexp

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if useRegex {
			re, err := regexp.Compile(p)
			if err != nil {
				return errors.AddContext(
					errors.Wrap(err, errors.CodeExclusion, "invalid exclude regex"),
					errors.CtxPattern, p,
				)
			}
			compiledRegexps = append(compiledRegexps, re)
		} else {
			g, err := glob.Compile(p, '/')
			if err != nil {
				return errors.AddContext(
					errors.Wrap(err, errors.CodeExclusion, "invalid exclude pattern"),
					errors.CtxPattern, p,
				)
			}
			compiledGlobs = append(compiledGlobs, g)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	projectRoot = root
	globs = compiledGlobs
	regexps = compiledRegexps
	return nil
}

// IsExcluded reports whether absPath matches any configured exclusion
// pattern. A matching directory excludes everything beneath it. Paths outside
// the project root are never excluded.
func IsExcluded(absPath string) (bool, error) {
	mu.RLock()
	defer mu.RUnlock()

	if projectRoot == "" {
		return false, nil
	}

	rel, err := filepath.Rel(projectRoot, absPath)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeExclusion,
			fmt.Sprintf("cannot relativize %q against the project root", absPath))
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	rel = filepath.ToSlash(rel)

	if matchesAny(rel) {
		return true, nil
	}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if matchesAny(dir) {
			return true, nil
		}
	}
	return false, nil
}

func matchesAny(relPath string) bool {
	for _, g := range globs {
		if g.Match(relPath) {
			return true
		}
	}
	for _, re := range regexps {
		if re.MatchString(relPath) {
			return true
		}
	}
	return false
}
