//go:build !windows

package pidkill

import "syscall"

// SyscallSignaler signals through kill(2).
type SyscallSignaler struct{}

func (SyscallSignaler) Kill(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}
