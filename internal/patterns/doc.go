// Package patterns holds the fixed catalog of secret detectors. Each entry maps
// a stable secret type identifier to a compiled pattern, a severity and a
// human-readable description. The catalog is built once and never mutated.
package patterns
