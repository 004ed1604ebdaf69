// Package pidkill terminates the process named by a pid marker file and
// cleans the marker up once the process is known to be gone.
package pidkill

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/cprobe/yshutdown/logger"
	"github.com/cprobe/yshutdown/pkg/procutil"
	"github.com/spf13/afero"
)

var (
	ErrMarkerNotFound = errors.New("marker not found")
	ErrInvalidPid     = procutil.ErrInvalidPid
	ErrSignalFailed   = errors.New("signal failed")
)

// Signaler delivers a signal to a pid.
type Signaler interface {
	Kill(pid int, sig syscall.Signal) error
}

type Result struct {
	Pid procutil.PID
	// Stale is set when the process was already gone.
	Stale bool
}

type Terminator struct {
	fs       afero.Fs
	signaler Signaler
	out      io.Writer
	verbose  bool
}

func New(fsys afero.Fs, signaler Signaler, out io.Writer, verbose bool) *Terminator {
	if signaler == nil {
		signaler = SyscallSignaler{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Terminator{
		fs:       fsys,
		signaler: signaler,
		out:      out,
		verbose:  verbose,
	}
}

// Terminate reads the pid in markerPath and sends it SIGKILL.
//
// The marker is removed only when the signal was delivered or the process
// no longer exists. ErrMarkerNotFound means there was nothing to do.
// ErrInvalidPid and ErrSignalFailed leave the marker in place and print a
// diagnostic line.
func (t *Terminator) Terminate(markerPath string) (Result, error) {
	pid, err := t.readPid(markerPath)
	if err != nil {
		if errors.Is(err, ErrInvalidPid) {
			fmt.Fprintf(t.out, "Cannot read pid ('%s'). Error '%s'\n", markerPath, err)
		}
		return Result{}, err
	}

	res := Result{Pid: pid}

	err = t.signaler.Kill(int(pid), syscall.SIGKILL)
	switch {
	case err == nil:
		t.removeMarker(markerPath)
		if t.verbose {
			fmt.Fprintf(t.out, "Pid %d, killed ('%s')\n", pid, markerPath)
		}
		return res, nil
	case procutil.IsProcessGone(err):
		res.Stale = true
		t.removeMarker(markerPath)
		logger.Logger.Debugw("process already gone, marker removed", "pid", pid, "marker", markerPath)
		return res, nil
	default:
		fmt.Fprintf(t.out, "Pid %d, cannot kill ('%s'). Error '%s'\n", pid, markerPath, err)
		return res, fmt.Errorf("%w: pid %d: %w", ErrSignalFailed, pid, err)
	}
}

func (t *Terminator) readPid(markerPath string) (procutil.PID, error) {
	f, err := t.fs.Open(markerPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMarkerNotFound, err)
	}
	defer f.Close()

	pid, err := procutil.ReadPid(f)
	if err != nil && !errors.Is(err, ErrInvalidPid) {
		return 0, fmt.Errorf("%w: %w", ErrMarkerNotFound, err)
	}
	return pid, err
}

func (t *Terminator) removeMarker(markerPath string) {
	if err := t.fs.Remove(markerPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Logger.Warnw("failed to remove marker", "marker", markerPath, "error", err)
	}
}
