package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/toolkits/pkg/file"
)

var Version = "unknown"

const (
	DefaultRealmsDir      = "/yuneta/realms"
	DefaultPidFile        = "yuno.pid"
	DefaultAgentPidFile   = "/yuneta/realms/agent/yuneta_agent.pid"
	DefaultAgentName      = "yuneta_agent"
	DefaultAgentKillDelay = Duration(100 * time.Millisecond)
	DefaultSystemSubtree  = "*logcenter*"
)

type Shutdown struct {
	RealmsDir      string    `toml:"realms_dir"`
	PidFile        string    `toml:"pid_file"`
	Recursive      *bool     `toml:"recursive"`
	AgentPidFile   string    `toml:"agent_pid_file"`
	AgentName      string    `toml:"agent_name"`
	AgentKillDelay *Duration `toml:"agent_kill_delay"`
	SystemSubtrees []string  `toml:"system_subtrees"`
}

// IsRecursive reports whether the realms scan descends into subdirectories.
func (s Shutdown) IsRecursive() bool {
	return s.Recursive == nil || *s.Recursive
}

// KillDelay is the pause before the agent is killed by name. An explicit
// zero in the file turns it off.
func (s Shutdown) KillDelay() time.Duration {
	if s.AgentKillDelay == nil {
		return time.Duration(DefaultAgentKillDelay)
	}
	return time.Duration(*s.AgentKillDelay)
}

type LogConfig struct {
	Level  string                 `toml:"level"`
	Format string                 `toml:"format"`
	Output string                 `toml:"output"`
	Fields map[string]interface{} `toml:"fields"`
}

type ConfigType struct {
	SkipAgent         bool `toml:"-"`
	SkipSystemSubtree bool `toml:"-"`
	Verbose           bool `toml:"-"`

	Shutdown  Shutdown  `toml:"shutdown"`
	LogConfig LogConfig `toml:"log"`
}

type Flags struct {
	ConfigFile        string
	SkipAgent         bool
	SkipSystemSubtree bool
	Verbose           bool
	Loglevel          string
}

// Load builds the run configuration. An empty ConfigFile means built-in
// defaults; a named file that does not exist is an error.
func Load(flags Flags) (*ConfigType, error) {
	c := &ConfigType{
		SkipAgent:         flags.SkipAgent,
		SkipSystemSubtree: flags.SkipSystemSubtree,
		Verbose:           flags.Verbose,
	}

	if flags.ConfigFile != "" {
		if !file.IsExist(flags.ConfigFile) {
			return nil, fmt.Errorf("configuration file(%s) not found", flags.ConfigFile)
		}
		if _, err := toml.DecodeFile(flags.ConfigFile, c); err != nil {
			return nil, fmt.Errorf("failed to load config file: %s error:%s", flags.ConfigFile, err)
		}
	}

	if flags.Loglevel != "" {
		c.LogConfig.Level = flags.Loglevel
	}

	c.applyDefaults()
	return c, nil
}

func (c *ConfigType) applyDefaults() {
	if c.Shutdown.RealmsDir == "" {
		c.Shutdown.RealmsDir = DefaultRealmsDir
	}

	if c.Shutdown.PidFile == "" {
		c.Shutdown.PidFile = DefaultPidFile
	}

	if c.Shutdown.AgentPidFile == "" {
		c.Shutdown.AgentPidFile = DefaultAgentPidFile
	}

	if c.Shutdown.AgentName == "" {
		c.Shutdown.AgentName = DefaultAgentName
	}

	if c.Shutdown.SystemSubtrees == nil {
		c.Shutdown.SystemSubtrees = []string{DefaultSystemSubtree}
	}

	if c.LogConfig.Level == "" {
		if c.Verbose {
			c.LogConfig.Level = "debug"
		} else {
			c.LogConfig.Level = "warn"
		}
	}

	if c.LogConfig.Format == "" {
		c.LogConfig.Format = "console"
	}

	if len(c.LogConfig.Output) == 0 {
		c.LogConfig.Output = "stderr"
	}

	if c.LogConfig.Fields == nil {
		c.LogConfig.Fields = make(map[string]interface{})
	}
}
