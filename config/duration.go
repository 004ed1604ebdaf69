package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration with TOML parsing.
// Supports: "100ms", "2s", "1m30s", or a bare integer meaning seconds.
type Duration time.Duration

func (d *Duration) UnmarshalTOML(b interface{}) error {
	switch v := b.(type) {
	case int64:
		*d = Duration(time.Duration(v) * time.Second)
	case string:
		str := strings.TrimSpace(v)
		if str == "" {
			*d = 0
			return nil
		}
		if n, err := strconv.ParseInt(str, 10, 64); err == nil {
			*d = Duration(time.Duration(n) * time.Second)
			return nil
		}
		dur, err := time.ParseDuration(str)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %v", str, err)
		}
		*d = Duration(dur)
	default:
		return fmt.Errorf("invalid duration type %T", b)
	}
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
