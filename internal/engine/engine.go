package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/varalys/gitsecrets/internal/ignore"
	"github.com/varalys/gitsecrets/internal/patterns"
	"github.com/varalys/gitsecrets/internal/types"
)

// DefaultIgnoreFile is read from the scan root when Config.IgnoreFile is empty.
const DefaultIgnoreFile = ".gitsecretsignore"

// ErrInvalidRoot is returned when the scan root is missing or unreadable.
var ErrInvalidRoot = errors.New("invalid scan root")

// Config controls the scope of a scan.
type Config struct {
	Root         string
	IncludeGlobs string
	ExcludeGlobs string
	// MaxBytes skips files larger than this; 0 disables the limit.
	MaxBytes     int64
	EnableTypes  string
	DisableTypes string
	// IgnoreFile is a gitignore-style file; relative paths resolve against Root.
	IgnoreFile       string
	VendorHeuristics bool

	// Registry overrides the built-in pattern registry.
	Registry *patterns.Registry
	Logger   logrus.FieldLogger
	// Progress is called once per file visited, scanned or not.
	Progress func()
}

// Result contains findings in traversal order and the run summary.
type Result struct {
	Findings []types.Finding
	Summary  types.Summary
	Duration time.Duration
}

func (cfg Config) logger() logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (cfg Config) registry() (*patterns.Registry, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = patterns.Default()
	}
	return reg.Filter(patterns.SplitIDs(cfg.EnableTypes), patterns.SplitIDs(cfg.DisableTypes))
}

func (cfg Config) filters() (*ignore.Filter, ignore.Matcher) {
	filter := ignore.Default()
	if cfg.VendorHeuristics {
		filter = filter.WithVendorHeuristics()
	}
	p := cfg.IgnoreFile
	if p == "" {
		// a single-file root is never filtered
		if st, err := os.Stat(cfg.Root); err == nil && !st.IsDir() {
			return filter, ignore.Matcher{}
		}
		p = DefaultIgnoreFile
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(cfg.Root, p)
	}
	ign, err := ignore.Load(p)
	if err != nil {
		cfg.logger().WithFields(logrus.Fields{"path": p, "reason": err}).Warn("ignore file not loaded")
	}
	return filter, ign
}

// ActivePatterns returns the registry a scan with cfg applies, after
// EnableTypes and DisableTypes.
func ActivePatterns(cfg Config) (*patterns.Registry, error) {
	return cfg.registry()
}

// PatternIDs lists the built-in secret type identifiers.
func PatternIDs() []string {
	return patterns.Default().IDs()
}

// Scan walks cfg.Root, scans every eligible file and aggregates the results.
// Per-file and per-directory failures are absorbed; only an invalid root or
// an unknown pattern id is returned as an error. When ctx is cancelled the
// findings collected so far are returned along with ctx.Err().
func Scan(ctx context.Context, cfg Config) (Result, error) {
	started := time.Now()
	reg, err := cfg.registry()
	if err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(cfg.Root); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	log := cfg.logger()
	filter, ign := cfg.filters()
	scnr := NewScanner(reg)
	agg := NewAggregator()

	walkErr := Walk(ctx, cfg, filter, ign, func(path, rel string) {
		if cfg.Progress != nil {
			defer cfg.Progress()
		}
		fs, err := scnr.ScanFile(path, rel)
		if err != nil {
			log.WithFields(logrus.Fields{"path": rel, "reason": err}).Debug("skipping file")
			return
		}
		agg.Add(fs)
	})

	res := Result{
		Findings: agg.Findings(),
		Summary:  agg.Summary(),
		Duration: time.Since(started),
	}
	log.WithFields(logrus.Fields{
		"files":    res.Summary.FilesScanned,
		"findings": res.Summary.TotalFindings,
		"duration": res.Duration,
	}).Debug("scan complete")
	return res, walkErr
}
