package procutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
)

type PID int32

var ErrInvalidPid = errors.New("invalid pid")

// FastProcessList returns lightweight process handles for all running PIDs.
// Each handle only has the PID populated; attributes are fetched lazily on demand.
func FastProcessList() ([]*process.Process, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, err
	}

	result := make([]*process.Process, len(pids))
	for i, pid := range pids {
		result[i] = &process.Process{Pid: pid}
	}
	return result, nil
}

// maxPidToken bounds the pid token; anything longer cannot be an int32.
const maxPidToken = 64

// ReadPid takes the first whitespace-delimited token of a pid file as the pid.
// Leading whitespace of any length is skipped and the token is never cut.
// Empty content, an over-long or non-numeric token, or a pid <= 0 yields
// ErrInvalidPid; read failures are returned as they are.
func ReadPid(r io.Reader) (PID, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, maxPidToken), maxPidToken)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		err := sc.Err()
		switch {
		case err == nil:
			return 0, fmt.Errorf("%w: empty pid file", ErrInvalidPid)
		case errors.Is(err, bufio.ErrTooLong):
			return 0, fmt.Errorf("%w: token longer than %d bytes", ErrInvalidPid, maxPidToken)
		default:
			return 0, err
		}
	}

	token := sc.Text()
	pid, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPid, token)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: %d must be positive", ErrInvalidPid, pid)
	}
	return PID(pid), nil
}

// ParsePid is ReadPid over in-memory content.
func ParsePid(data []byte) (PID, error) {
	return ReadPid(bytes.NewReader(data))
}

// IsProcessGone returns true if the error indicates the process no longer exists.
func IsProcessGone(err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	if errors.Is(err, os.ErrProcessDone) {
		return true
	}
	if errors.Is(err, syscall.ESRCH) {
		return true
	}
	return false
}

// Killable is the part of *process.Process used by KillByName.
type Killable interface {
	Name() (string, error)
	Exe() (string, error)
	Kill() error
}

// KillByName sends SIGKILL to every running process, other than ourselves,
// whose name or executable base name equals name. It returns how many
// processes were killed.
func KillByName(name string) (int, error) {
	procs, err := FastProcessList()
	if err != nil {
		return 0, err
	}

	self := int32(os.Getpid())
	candidates := make([]Killable, 0, len(procs))
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		candidates = append(candidates, p)
	}

	killed, errs := killMatching(name, candidates)
	return killed, errors.Join(errs...)
}

func killMatching(name string, procs []Killable) (int, []error) {
	var (
		killed int
		errs   []error
	)
	for _, p := range procs {
		if !nameMatches(p, name) {
			continue
		}
		if err := p.Kill(); err != nil {
			if IsProcessGone(err) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		killed++
	}
	return killed, errs
}

func nameMatches(p Killable, name string) bool {
	if n, err := p.Name(); err == nil && n == name {
		return true
	}
	exe, err := p.Exe()
	if err != nil || exe == "" {
		return false
	}
	return filepath.Base(exe) == name
}
