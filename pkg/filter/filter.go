package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Filter reports whether a marker name or path is selected.
type Filter interface {
	Match(string) bool
}

// None matches nothing. Compile returns it for an empty pattern list so
// callers never need a nil check.
var None Filter = none{}

type none struct{}

func (none) Match(string) bool { return false }

func isRegexPattern(s string) bool {
	return len(s) >= 2 && s[0] == '/' && s[len(s)-1] == '/'
}

// Compile builds one Filter from a pattern list (OR logic).
//
// Patterns surrounded by / are regular expressions, anything with glob
// meta characters is a glob, everything else must match exactly:
//
//	f, _ := Compile([]string{"yuno.pid"})
//	f.Match("yuno.pid")      // true
//	f.Match("yuno.pid.bak")  // false
//
//	f, _ = Compile([]string{"*logcenter*", "/emailsender[0-9]*/"})
//	f.Match("/yuneta/realms/sys/logcenter^1/yuno.pid")  // true
func Compile(patterns []string) (Filter, error) {
	var (
		globs []string
		parts []Filter
	)

	for _, p := range patterns {
		if p == "" {
			continue
		}
		if isRegexPattern(p) {
			re, err := regexp.Compile(p[1 : len(p)-1])
			if err != nil {
				return nil, fmt.Errorf("invalid regex %q: %v", p, err)
			}
			parts = append(parts, &regexFilter{re: re})
			continue
		}
		globs = append(globs, p)
	}

	if len(globs) > 0 {
		gf, err := compileGlob(globs)
		if err != nil {
			return nil, err
		}
		parts = append([]Filter{gf}, parts...)
	}

	switch len(parts) {
	case 0:
		return None, nil
	case 1:
		return parts[0], nil
	default:
		return anyOf(parts), nil
	}
}

func compileGlob(patterns []string) (Filter, error) {
	noGlob := true
	for _, p := range patterns {
		if HasMeta(p) {
			noGlob = false
			break
		}
	}

	switch {
	case noGlob && len(patterns) == 1:
		return exact(patterns[0]), nil
	case noGlob:
		set := make(exactSet, len(patterns))
		for _, p := range patterns {
			set[p] = struct{}{}
		}
		return set, nil
	case len(patterns) == 1:
		return glob.Compile(patterns[0])
	default:
		return glob.Compile("{" + strings.Join(patterns, ",") + "}")
	}
}

// HasMeta reports whether s contains any magic glob characters.
func HasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

type exact string

func (f exact) Match(s string) bool { return string(f) == s }

type exactSet map[string]struct{}

func (f exactSet) Match(s string) bool {
	_, ok := f[s]
	return ok
}

type regexFilter struct {
	re *regexp.Regexp
}

func (f *regexFilter) Match(s string) bool { return f.re.MatchString(s) }

type anyOf []Filter

func (f anyOf) Match(s string) bool {
	for _, sub := range f {
		if sub.Match(s) {
			return true
		}
	}
	return false
}
