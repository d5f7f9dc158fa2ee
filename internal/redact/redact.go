package redact

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// Values longer than PartialThreshold keep 4 leading and 4 trailing runes.
	PartialThreshold = 10
	// Values shorter than minVisible runes are masked entirely.
	minVisible = 6
	// MaxContext bounds the context line kept on a finding, in runes.
	MaxContext = 80
)

// Mask irreversibly obscures s for display. The result has the same rune
// length as s and is deterministic.
func Mask(s string) string {
	r := []rune(s)
	n := len(r)
	switch {
	case n > PartialThreshold:
		return string(r[:4]) + strings.Repeat("*", n-8) + string(r[n-4:])
	case n >= minVisible:
		return string(r[:2]) + strings.Repeat("*", n-2)
	default:
		return strings.Repeat("*", n)
	}
}

// Span is a byte range of a line holding a detected value.
type Span struct {
	Start, End int
}

// Line masks every span of line, and any other occurrence of a spanned value
// elsewhere on the line. Overlapping spans are masked as one.
func Line(line string, spans []Span) string {
	if len(spans) == 0 {
		return line
	}
	ss := append([]Span(nil), spans...)
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Start == ss[j].Start {
			return ss[i].End > ss[j].End
		}
		return ss[i].Start < ss[j].Start
	})
	merged := []Span{ss[0]}
	for _, sp := range ss[1:] {
		last := &merged[len(merged)-1]
		if sp.Start < last.End {
			if sp.End > last.End {
				last.End = sp.End
			}
			continue
		}
		merged = append(merged, sp)
	}

	var b strings.Builder
	prev := 0
	for _, sp := range merged {
		b.WriteString(line[prev:sp.Start])
		b.WriteString(Mask(line[sp.Start:sp.End]))
		prev = sp.End
	}
	b.WriteString(line[prev:])
	out := b.String()

	// longest first so a value never survives as part of a longer one
	raws := make([]string, 0, len(ss))
	for _, sp := range ss {
		if sp.End > sp.Start {
			raws = append(raws, line[sp.Start:sp.End])
		}
	}
	sort.SliceStable(raws, func(i, j int) bool { return len(raws[i]) > len(raws[j]) })
	for _, raw := range raws {
		out = strings.ReplaceAll(out, raw, Mask(raw))
	}
	return out
}

// Context prepares a source line for display: every span is masked as in
// Line, surrounding whitespace is trimmed and the result is cut to
// MaxContext runes.
func Context(line string, spans ...Span) string {
	return Truncate(strings.TrimSpace(Line(line, spans)), MaxContext)
}

// Truncate cuts s to at most max runes without splitting a multi-byte rune.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
