package engine

import (
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// globSet holds parsed include/exclude globs. Include globs, when present,
// act as a positive filter; exclude globs are subtracted last. Each glob is
// tried against the full relative path and against the base name.
type globSet struct {
	includes []string
	excludes []string
}

func newGlobSet(include, exclude string) globSet {
	return globSet{includes: parseGlobsList(include), excludes: parseGlobsList(exclude)}
}

func (g globSet) allowed(relPath string) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	if len(g.includes) > 0 && !matchAnyGlob(rp, g.includes) {
		return false
	}
	if len(g.excludes) > 0 && matchAnyGlob(rp, g.excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if t := trimGlobPrefix(p); t != p {
			out = append(out, t)
		}
	}
	return out
}

func matchAnyGlob(rel string, globs []string) bool {
	base := path.Base(rel)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
