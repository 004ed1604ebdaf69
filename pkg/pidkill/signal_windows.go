//go:build windows

package pidkill

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// SyscallSignaler terminates the process; Windows has no signal choice.
// OpenProcess on a pid that no longer exists fails with
// ERROR_INVALID_PARAMETER, which is reported as os.ErrProcessDone.
type SyscallSignaler struct{}

func (SyscallSignaler) Kill(pid int, _ syscall.Signal) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return os.ErrProcessDone
		}
		return err
	}
	defer p.Release()
	return p.Kill()
}
