// Package walkdir finds marker files in a directory tree and hands each
// hit to the caller as soon as it is found.
package walkdir

import (
	"iter"
	"path/filepath"

	"github.com/cprobe/yshutdown/logger"
	"github.com/cprobe/yshutdown/pkg/filter"
	"github.com/spf13/afero"
)

// Match describes one marker file found by Scan.
type Match struct {
	Path  string // directory + name
	Dir   string
	Name  string
	Depth int // 0 for files directly under root
	Index int // position among the entries of Dir, sorted by name
}

// Func receives each match. Returning false stops the scan.
type Func func(Match) bool

type Options struct {
	Recursive bool
}

// Scan walks root and calls fn for every regular file whose name is selected
// by names. Entries are visited in lexical order, so Index is stable for a
// given tree. A missing or unreadable root, or subdirectory, yields no
// matches rather than an error. Symlinks are neither matched nor followed.
func Scan(fsys afero.Fs, root string, names filter.Filter, opts Options, fn Func) {
	walk(fsys, filepath.Clean(root), 0, names, opts, fn)
}

// Matches is Scan as a sequence. Breaking out of the range loop ends the walk.
func Matches(fsys afero.Fs, root string, names filter.Filter, opts Options) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		Scan(fsys, root, names, opts, yield)
	}
}

func walk(fsys afero.Fs, dir string, depth int, names filter.Filter, opts Options, fn Func) bool {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		logger.Logger.Debugw("skip unreadable directory", "directory", dir, "error", err)
		return true
	}

	for i, entry := range entries {
		mode := entry.Mode()
		switch {
		case mode.IsRegular():
			if !names.Match(entry.Name()) {
				continue
			}
			m := Match{
				Path:  filepath.Join(dir, entry.Name()),
				Dir:   dir,
				Name:  entry.Name(),
				Depth: depth,
				Index: i,
			}
			if !fn(m) {
				return false
			}
		case mode.IsDir() && opts.Recursive:
			if !walk(fsys, filepath.Join(dir, entry.Name()), depth+1, names, opts, fn) {
				return false
			}
		}
	}

	return true
}
