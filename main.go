package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cprobe/yshutdown/config"
	"github.com/cprobe/yshutdown/logger"
	"github.com/cprobe/yshutdown/shutdown"
	"github.com/spf13/afero"
)

var (
	configFile  = flag.String("config", "", "Optional TOML configuration file.")
	showVersion = flag.Bool("version", false, "Show version.")
	loglevel    = flag.String("loglevel", "", "e.g. debug, info, warn, error, fatal")
)

var (
	verbose      bool
	noKillAgent  bool
	noKillSystem bool
)

func init() {
	flag.BoolVar(&verbose, "verbose", false, "Verbose mode.")
	flag.BoolVar(&verbose, "l", false, "Shorthand for -verbose.")
	flag.BoolVar(&noKillAgent, "no-kill-agent", false, "Don't kill Yuneta agent.")
	flag.BoolVar(&noKillAgent, "n", false, "Shorthand for -no-kill-agent.")
	flag.BoolVar(&noKillSystem, "no-kill-system", false, "Don't kill system's yunos (logcenter).")
	flag.BoolVar(&noKillSystem, "s", false, "Shorthand for -no-kill-system.")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\nShutdown all Yuneta processes, including the agent.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(config.Version)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(flag.CommandLine.Output(), "unexpected argument: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(config.Flags{
		ConfigFile:        *configFile,
		SkipAgent:         noKillAgent,
		SkipSystemSubtree: noKillSystem,
		Verbose:           verbose,
		Loglevel:          *loglevel,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	closefn, err := logger.Build(cfg.LogConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer closefn()

	s, err := shutdown.New(cfg, afero.NewOsFs(), os.Stdout)
	if err != nil {
		logger.Logger.Errorw("invalid shutdown config", "error", err)
		closefn()
		os.Exit(1)
	}

	s.Run()
}
