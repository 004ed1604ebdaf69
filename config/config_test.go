package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(Flags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Shutdown.RealmsDir != DefaultRealmsDir {
		t.Fatalf("expected realms dir %q, got %q", DefaultRealmsDir, c.Shutdown.RealmsDir)
	}
	if c.Shutdown.PidFile != "yuno.pid" {
		t.Fatalf("expected pid file yuno.pid, got %q", c.Shutdown.PidFile)
	}
	if !c.Shutdown.IsRecursive() {
		t.Fatal("scan should be recursive by default")
	}
	if c.Shutdown.KillDelay() != time.Duration(DefaultAgentKillDelay) {
		t.Fatalf("expected delay %s, got %s", DefaultAgentKillDelay, c.Shutdown.KillDelay())
	}
	if len(c.Shutdown.SystemSubtrees) != 1 || c.Shutdown.SystemSubtrees[0] != "*logcenter*" {
		t.Fatalf("unexpected system subtrees: %v", c.Shutdown.SystemSubtrees)
	}
	if c.LogConfig.Level != "warn" {
		t.Fatalf("expected warn level, got %q", c.LogConfig.Level)
	}
}

func TestLoadVerboseRaisesLogLevel(t *testing.T) {
	c, err := Load(Flags{Verbose: true, SkipAgent: true, SkipSystemSubtree: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.LogConfig.Level != "debug" {
		t.Fatalf("expected debug level, got %q", c.LogConfig.Level)
	}
	if !c.SkipAgent || !c.SkipSystemSubtree || !c.Verbose {
		t.Fatalf("flags not carried: %+v", c)
	}
}

func TestLoadExplicitLoglevelWins(t *testing.T) {
	c, err := Load(Flags{Verbose: true, Loglevel: "error"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.LogConfig.Level != "error" {
		t.Fatalf("expected error level, got %q", c.LogConfig.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Flags{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")})
	if err == nil {
		t.Fatal("should reject missing config file")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yshutdown.toml")
	content := `
[shutdown]
realms_dir = "/srv/yuneta/realms"
recursive = false
agent_name = "agent"
agent_kill_delay = "250ms"
system_subtrees = ["*logcenter*", "/emailsender/"]

[log]
level = "info"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(Flags{ConfigFile: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Shutdown.RealmsDir != "/srv/yuneta/realms" {
		t.Fatalf("unexpected realms dir %q", c.Shutdown.RealmsDir)
	}
	if c.Shutdown.IsRecursive() {
		t.Fatal("recursive = false should be honored")
	}
	if c.Shutdown.AgentName != "agent" {
		t.Fatalf("unexpected agent name %q", c.Shutdown.AgentName)
	}
	if c.Shutdown.KillDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected delay %s", c.Shutdown.KillDelay())
	}
	if len(c.Shutdown.SystemSubtrees) != 2 {
		t.Fatalf("unexpected system subtrees %v", c.Shutdown.SystemSubtrees)
	}
	if c.Shutdown.PidFile != DefaultPidFile || c.Shutdown.AgentPidFile != DefaultAgentPidFile {
		t.Fatal("unset keys should keep defaults")
	}
	if c.LogConfig.Format != "json" || c.LogConfig.Output != "stderr" {
		t.Fatalf("unexpected log config %+v", c.LogConfig)
	}
}

func TestLoadZeroDelayDisablesPause(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"duration string", `agent_kill_delay = "0s"`},
		{"integer seconds", `agent_kill_delay = 0`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "yshutdown.toml")
			if err := os.WriteFile(path, []byte("[shutdown]\n"+tc.content+"\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			c, err := Load(Flags{ConfigFile: path})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Shutdown.AgentKillDelay == nil {
				t.Fatal("explicit delay should be kept")
			}
			if c.Shutdown.KillDelay() != 0 {
				t.Fatalf("expected no delay, got %s", c.Shutdown.KillDelay())
			}
		})
	}
}

func TestDurationUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want time.Duration
		err  bool
	}{
		{"string ms", "100ms", 100 * time.Millisecond, false},
		{"string seconds", "3", 3 * time.Second, false},
		{"integer seconds", int64(2), 2 * time.Second, false},
		{"empty", "", 0, false},
		{"garbage", "soon", 0, true},
		{"wrong type", 1.5, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalTOML(tc.in)
			if tc.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if time.Duration(d) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, time.Duration(d))
			}
		})
	}
}
