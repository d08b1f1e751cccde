// Package config loads flag values from YAML files for kong.
//
// A file holds flag names as keys, either with dashes or underscores. Keys at
// the top level apply to every command; a mapping named after a command
// applies only to that command and wins over the top level:
//
//	workers: 4
//	ext: [.jpg, .jpeg]
//	pixelate:
//	  pixel-size: 12
//	  modifier: gridx:2
//	crop:
//	  size: 512
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// Values is a parsed configuration file.
type Values map[string]any

// Parse decodes a YAML document into Values. An empty document is valid.
func Parse(r io.Reader) (Values, error) {
	values := Values{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}
	return values, nil
}

// Lookup returns the value for flagName, preferring the section named cmd.
func (v Values) Lookup(cmd, flagName string) (string, bool) {
	if cmd != "" {
		if section, ok := v[cmd].(map[string]any); ok {
			if raw, ok := lookup(section, flagName); ok {
				return raw, true
			}
		}
	}
	return lookup(v, flagName)
}

func lookup(m map[string]any, flagName string) (string, bool) {
	for _, key := range []string{flagName, strings.ReplaceAll(flagName, "-", "_")} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		if _, isSection := raw.(map[string]any); isSection {
			continue
		}
		return format(raw), true
	}
	return "", false
}

// format renders a YAML value the way it would be typed on the command line;
// lists become kong's comma separated form.
func format(raw any) string {
	if list, ok := raw.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = format(item)
		}
		return strings.Join(parts, ",")
	}
	if raw == nil {
		return ""
	}
	return fmt.Sprint(raw)
}

// YAML is a kong.ConfigurationLoader.
func YAML(r io.Reader) (kong.Resolver, error) {
	values, err := Parse(r)
	if err != nil {
		return nil, err
	}

	var f kong.ResolverFunc = func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		cmd := ""
		if parent != nil && parent.Command != nil {
			cmd = parent.Command.Name
		}
		raw, ok := values.Lookup(cmd, flag.Name)
		if !ok {
			return nil, nil
		}
		return raw, nil
	}
	return f, nil
}
