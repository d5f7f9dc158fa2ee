package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultPatterns are path fragments excluded from every scan: VCS metadata,
// dependency and cache directories, minified bundles, lockfiles and images.
// Directory fragments end in "/" and only match when a directory is queried
// with a trailing slash or a descendant path is queried.
var DefaultPatterns = []string{
	`(^|/)\.git/`,
	`(^|/)\.svn/`,
	`(^|/)\.hg/`,
	`(^|/)node_modules/`,
	`(^|/)vendor/`,
	`(^|/)bower_components/`,
	`(^|/)__pycache__/`,
	`(^|/)\.venv/`,
	`\.pyc$`,
	`\.class$`,
	`\.min\.js$`,
	`(^|/)package-lock\.json$`,
	`(^|/)yarn\.lock$`,
	`(^|/)pnpm-lock\.yaml$`,
	`(^|/)composer\.lock$`,
	`(^|/)poetry\.lock$`,
	`(^|/)Cargo\.lock$`,
	`(^|/)go\.sum$`,
	`(?i)\.(png|jpe?g|gif|ico|svg|webp|bmp)$`,
	// audit log written next to the tree outside a git repository
	`(^|/)\.gitsecrets_audit\.jsonl$`,
}

var defaultFilter = MustNew(DefaultPatterns...)

// Filter decides whether a path is excluded from traversal. It is immutable
// and safe for concurrent use.
type Filter struct {
	res    []*regexp.Regexp
	vendor bool
}

// Default returns the filter compiled from DefaultPatterns.
func Default() *Filter { return defaultFilter }

// New compiles patterns into a Filter.
func New(patterns ...string) (*Filter, error) {
	f := &Filter{res: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		f.res = append(f.res, re)
	}
	return f, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(patterns ...string) *Filter {
	f, err := New(patterns...)
	if err != nil {
		panic(err)
	}
	return f
}

// WithVendorHeuristics returns a copy of f that also excludes paths
// linguist's vendor rules classify as third-party code.
func (f *Filter) WithVendorHeuristics() *Filter {
	cp := *f
	cp.vendor = true
	return &cp
}

// ShouldIgnore reports whether p matches any exclusion. p should be relative
// to the scan root; separators are normalised to "/".
func (f *Filter) ShouldIgnore(p string) bool {
	p = normalize(p)
	for _, re := range f.res {
		if re.MatchString(p) {
			return true
		}
	}
	if f.vendor && enry.IsVendor(p) {
		return true
	}
	return false
}

// ShouldIgnoreDir is ShouldIgnore for a directory path.
func (f *Filter) ShouldIgnoreDir(p string) bool {
	p = normalize(p)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return f.ShouldIgnore(p)
}

func normalize(p string) string {
	p = filepath.ToSlash(p)
	return strings.TrimPrefix(p, "./")
}

// Matcher applies user supplied gitignore-style rules.
type Matcher struct {
	m gitignore.Matcher
}

// Load reads gitignore-style rules from path. A missing file yields an empty
// matcher and no error.
func Load(path string) (Matcher, error) {
	var m Matcher
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, err
	}
	return Parse(string(data)), nil
}

// Parse builds a Matcher from gitignore-style text.
func Parse(text string) Matcher {
	var ps []gitignore.Pattern
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	if len(ps) == 0 {
		return Matcher{}
	}
	return Matcher{m: gitignore.NewMatcher(ps)}
}

// Match reports whether the root-relative path p is excluded.
func (m Matcher) Match(p string, isDir bool) bool {
	if m.m == nil {
		return false
	}
	p = strings.Trim(normalize(p), "/")
	if p == "" {
		return false
	}
	return m.m.Match(strings.Split(p, "/"), isDir)
}
