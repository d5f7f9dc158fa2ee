// Package config loads gitsecrets configuration from local and global YAML or
// TOML files. It is internal; CLI code applies precedence and maps the result
// into engine configuration.
package config
