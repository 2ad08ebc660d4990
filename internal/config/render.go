package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// section groups options under one TOML table; the empty name is the root.
type section struct {
	name string
	opts []ConfigOption
}

// groupOptions splits dotted keys into tables, keeping first-seen order.
func groupOptions(opts []ConfigOption) []section {
	out := []section{{}}
	index := map[string]int{"": 0}
	for _, o := range opts {
		name, key := "", o.Key
		if i := strings.IndexByte(o.Key, '.'); i >= 0 {
			name, key = o.Key[:i], o.Key[i+1:]
		}
		idx, ok := index[name]
		if !ok {
			idx = len(out)
			index[name] = idx
			out = append(out, section{name: name})
		}
		out[idx].opts = append(out[idx].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# genieblog configuration (TOML)"}
	for _, s := range groupOptions(GetConfigOptions()) {
		if len(s.opts) == 0 {
			continue
		}
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateTOML merges defaults into an existing TOML string and comments out unknown keys.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	current := ""
	out := make([]string, 0)
	changed := false
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "" || strings.HasPrefix(trim, "#"):
			out = append(out, line)
			continue
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			current = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		full := key
		if current != "" {
			full = current + "." + key
		}
		seen[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}
	out = append(out, "", "# Added by config update")
	for _, s := range groupOptions(missing) {
		if len(s.opts) == 0 {
			continue
		}
		if s.name != "" {
			out = append(out, "["+s.name+"]")
		}
		for _, o := range s.opts {
			out = appendOption(out, o)
		}
	}
	return strings.Join(out, "\n"), true
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
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

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		q := make([]string, len(v))
		for i, s := range v {
			q[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(q, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + " = " + tomlValue(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}
