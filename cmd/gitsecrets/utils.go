package gitsecrets

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/varalys/gitsecrets/internal/config"
)

// loadConfigs returns the local and global file configs for root. Missing
// files are not an error; unreadable or malformed ones are logged.
func loadConfigs(root string) (local, global config.FileConfig) {
	if c, err := config.LoadGlobal(); err == nil {
		global = c
	} else if !isNotFound(err) {
		log.WithField("reason", err).Warn("global config ignored")
	}
	dir := root
	if st, err := os.Stat(root); err == nil && !st.IsDir() {
		dir = filepath.Dir(root)
	}
	if c, err := config.LoadLocal(dir); err == nil {
		local = c
	} else if !isNotFound(err) {
		log.WithField("reason", err).Warn("local config ignored")
	}
	return local, global
}

func isNotFound(err error) bool {
	return errors.Is(err, config.ErrNotFound) || errors.Is(err, config.ErrNoConfigDir)
}

// colorEnabled disables styling when asked to, when NO_COLOR is set, or when
// w is not a terminal.
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
