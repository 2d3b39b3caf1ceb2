package config

import (
	"fmt"
	"strings"
)

// section groups options by the part of the key before the first dot.
type section struct {
	name string
	opts []ConfigOption
}

// splitSections returns top-level options and dotted options grouped by
// section, both in declaration order. Section option keys are relative.
func splitSections(opts []ConfigOption) ([]ConfigOption, []section) {
	var top []ConfigOption
	var secs []section
	index := make(map[string]int)
	for _, o := range opts {
		name, rest, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(secs)
			index[name] = i
			secs = append(secs, section{name: name})
		}
		secs[i].opts = append(secs[i].opts, ConfigOption{Key: rest, Default: o.Default, Comment: o.Comment})
	}
	return top, secs
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	top, secs := splitSections(GetConfigOptions())
	lines := []string{"# ticketlist configuration (TOML)", ""}
	for _, o := range top {
		lines = appendOption(lines, o)
	}
	for _, s := range secs {
		lines = append(lines, "["+s.name+"]")
		for _, o := range s.opts {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML merges missing defaults into an existing TOML string and
// comments out keys that are no longer known. Missing keys are added to
// the end of their own section. It reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	// blocks[0] holds the lines before the first section header.
	blocks := []section{{}}
	lines := [][]string{nil}
	present := make(map[string]bool)
	changed := false
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		cur := len(blocks) - 1
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			blocks = append(blocks, section{name: strings.TrimSpace(trim[1 : len(trim)-1])})
			lines = append(lines, []string{line})
			continue
		}
		key, ok := parseTOMLKey(trim)
		if trim == "" || strings.HasPrefix(trim, "#") || !ok {
			lines[cur] = append(lines[cur], line)
			continue
		}
		full := key
		if blocks[cur].name != "" {
			full = blocks[cur].name + "." + key
		}
		present[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			lines[cur] = append(lines[cur], indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
			changed = true
			continue
		}
		lines[cur] = append(lines[cur], line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !present[o.Key] {
			missing = append(missing, o)
		}
	}
	top, secs := splitSections(missing)
	if len(top) > 0 {
		lines[0] = append(lines[0], "# Added by config update")
		for _, o := range top {
			lines[0] = appendOption(lines[0], o)
		}
		changed = true
	}
	for _, s := range secs {
		i := findBlock(blocks, s.name)
		if i < 0 {
			blocks = append(blocks, s)
			lines = append(lines, []string{"", "# Added by config update", "[" + s.name + "]"})
			i = len(blocks) - 1
		} else {
			lines[i] = append(lines[i], "# Added by config update")
		}
		for _, o := range s.opts {
			lines[i] = appendOption(lines[i], o)
		}
		changed = true
	}

	var out []string
	for _, l := range lines {
		out = append(out, l...)
	}
	return strings.Join(out, "\n"), changed
}

func findBlock(blocks []section, name string) int {
	for i, b := range blocks {
		if i > 0 && b.name == name {
			return i
		}
	}
	return -1
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key[:1], `["'`) {
		return "", false
	}
	return key, true
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
