package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/varalys/gitsecrets/internal/ignore"
)

// Walk enumerates the files under cfg.Root that survive the ignore filter,
// the user ignore matcher, the include/exclude globs and the size limit, and
// invokes visit with each file's path and its slash-separated display path
// relative to the root. Ignored directories are pruned before descending.
// Unreadable entries are skipped. A single-file root is visited directly
// without filtering. Like any walked file it only counts as scanned once it
// reads as text: a binary or unreadable explicit target yields zero files
// scanned and no error, since only a missing root is fatal.
func Walk(ctx context.Context, cfg Config, filter *ignore.Filter, ign ignore.Matcher, visit func(path, rel string)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := cfg.logger()
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		visit(cfg.Root, filepath.ToSlash(filepath.Base(cfg.Root)))
		return nil
	}
	globs := newGlobSet(cfg.IncludeGlobs, cfg.ExcludeGlobs)

	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if p == cfg.Root {
				return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
			}
			log.WithFields(logrus.Fields{"path": p, "reason": err}).Debug("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == cfg.Root {
			return nil
		}
		rel, rerr := filepath.Rel(cfg.Root, p)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if filter.ShouldIgnoreDir(rel) || ign.Match(rel, true) {
				log.WithField("path", rel).Debug("pruned ignored directory")
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegular(p, d) {
			return nil
		}
		switch {
		case filter.ShouldIgnore(rel):
			log.WithFields(logrus.Fields{"path": rel, "reason": "ignore filter"}).Debug("skipping file")
			return nil
		case ign.Match(rel, false):
			log.WithFields(logrus.Fields{"path": rel, "reason": "ignore file"}).Debug("skipping file")
			return nil
		case !globs.allowed(rel):
			log.WithFields(logrus.Fields{"path": rel, "reason": "globs"}).Debug("skipping file")
			return nil
		}
		if cfg.MaxBytes > 0 {
			if fi, ierr := d.Info(); ierr == nil && fi.Size() > cfg.MaxBytes {
				log.WithFields(logrus.Fields{"path": rel, "reason": "max bytes"}).Debug("skipping file")
				return nil
			}
		}
		visit(p, rel)
		return nil
	})
}

// isRegular accepts regular files and symlinks that resolve to one. Broken
// links are passed through so the open fails and is absorbed like any other
// unreadable file; links to directories are not followed.
func isRegular(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(p)
	if err != nil {
		return true
	}
	return fi.Mode().IsRegular()
}

// CountTargets reports how many files Walk would visit for cfg, without
// opening them.
func CountTargets(cfg Config) (int, error) {
	filter, ign := cfg.filters()
	n := 0
	err := Walk(context.Background(), cfg, filter, ign, func(string, string) { n++ })
	return n, err
}
