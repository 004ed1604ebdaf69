package shutdown

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cprobe/yshutdown/config"
	"github.com/cprobe/yshutdown/logger"
	"github.com/cprobe/yshutdown/pkg/filter"
	"github.com/cprobe/yshutdown/pkg/pidkill"
	"github.com/cprobe/yshutdown/pkg/procutil"
	"github.com/cprobe/yshutdown/pkg/walkdir"
	"github.com/spf13/afero"
)

type Terminator interface {
	Terminate(markerPath string) (pidkill.Result, error)
}

// Report counts what a run did. Nothing in it changes the exit code.
type Report struct {
	Found          int
	Killed         int
	Stale          int
	Failed         int
	Invalid        int
	Skipped        int
	AgentAttempted bool
	FallbackKilled int
}

func (r Report) String() string {
	return fmt.Sprintf("Shutdown done: %d found, %d killed, %d stale, %d failed, %d invalid, %d skipped, %d killed by name",
		r.Found, r.Killed, r.Stale, r.Failed, r.Invalid, r.Skipped, r.FallbackKilled)
}

type Shutdown struct {
	cfg     *config.ConfigType
	fs      afero.Fs
	term    Terminator
	markers filter.Filter
	system  filter.Filter
	out     io.Writer

	killByName func(name string) (int, error)
	sleep      func(time.Duration)
}

func New(cfg *config.ConfigType, fsys afero.Fs, out io.Writer) (*Shutdown, error) {
	markers, err := filter.Compile([]string{cfg.Shutdown.PidFile})
	if err != nil {
		return nil, fmt.Errorf("invalid pid_file pattern: %v", err)
	}

	system, err := filter.Compile(cfg.Shutdown.SystemSubtrees)
	if err != nil {
		return nil, fmt.Errorf("invalid system_subtrees: %v", err)
	}

	if out == nil {
		out = io.Discard
	}

	return &Shutdown{
		cfg:        cfg,
		fs:         fsys,
		term:       pidkill.New(fsys, nil, out, cfg.Verbose),
		markers:    markers,
		system:     system,
		out:        out,
		killByName: procutil.KillByName,
		sleep:      time.Sleep,
	}, nil
}

// Run kills every yuno found under the realms directory, then the agent.
// It is best effort: failures are reported and the run goes on.
func (s *Shutdown) Run() Report {
	var report Report

	sc := s.cfg.Shutdown
	logger.Logger.Debugw("scanning realms", "realms_dir", sc.RealmsDir, "pid_file", sc.PidFile, "recursive", sc.IsRecursive())

	walkdir.Scan(s.fs, sc.RealmsDir, s.markers, walkdir.Options{Recursive: sc.IsRecursive()}, func(m walkdir.Match) bool {
		report.Found++
		if s.cfg.SkipSystemSubtree && s.system.Match(m.Path) {
			report.Skipped++
			logger.Logger.Debugw("skip system yuno", "marker", m.Path)
			return true
		}
		s.terminate(m.Path, &report)
		return true
	})

	if !s.cfg.SkipAgent {
		s.killAgent(&report)
	}

	logger.Logger.Infow("shutdown done",
		"found", report.Found,
		"killed", report.Killed,
		"stale", report.Stale,
		"failed", report.Failed,
		"invalid", report.Invalid,
		"skipped", report.Skipped,
		"fallback_killed", report.FallbackKilled,
	)

	if s.cfg.Verbose {
		fmt.Fprintln(s.out, report.String())
	}

	return report
}

func (s *Shutdown) terminate(markerPath string, report *Report) {
	res, err := s.term.Terminate(markerPath)
	switch {
	case err == nil && res.Stale:
		report.Stale++
	case err == nil:
		report.Killed++
	case errors.Is(err, pidkill.ErrMarkerNotFound):
		logger.Logger.Debugw("marker vanished", "marker", markerPath, "error", err)
	case errors.Is(err, pidkill.ErrInvalidPid):
		report.Invalid++
		logger.Logger.Warnw("invalid marker", "marker", markerPath, "error", err)
	default:
		report.Failed++
		logger.Logger.Warnw("cannot kill yuno", "marker", markerPath, "error", err)
	}
}

// killAgent always follows the targeted kill with a kill by name, since the
// agent has been seen to survive the first one.
func (s *Shutdown) killAgent(report *Report) {
	sc := s.cfg.Shutdown
	report.AgentAttempted = true

	s.terminate(sc.AgentPidFile, report)

	s.sleep(sc.KillDelay())

	killed, err := s.killByName(sc.AgentName)
	report.FallbackKilled = killed
	if err != nil {
		logger.Logger.Debugw("kill by name", "name", sc.AgentName, "killed", killed, "error", err)
	}
}
