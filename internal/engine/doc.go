// Package engine contains the core scanning logic for gitsecrets. It walks a
// tree, applies the pattern registry to every surviving file line by line,
// masks what it finds and aggregates the findings into a summary. The engine
// is single-threaded and reads files one at a time, so findings come back in
// a deterministic order. This package is internal; external consumers should
// use the stable facade in pkg/core.
package engine
