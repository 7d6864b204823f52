// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the TOML form of Options:
//
//	replace = "in-place"
//	flatten_arrays = true
//	write_back_returns = true
//	name_separator = "_"
//	result_name = "out"
//
// Keys that are absent keep their DefaultOptions value.
type Config struct {
	Replace          *ReplacePolicy `toml:"replace"`
	FlattenArrays    *bool          `toml:"flatten_arrays"`
	WriteBackReturns *bool          `toml:"write_back_returns"`
	NameSeparator    *string        `toml:"name_separator"`
	ResultName       *string        `toml:"result_name"`
}

// ParseConfig decodes TOML configuration into Options.
// Unknown keys are an error.
func ParseConfig(data []byte) (*Options, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("flatten: parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("flatten: unknown config key %q", undecoded[0].String())
	}
	opts := cfg.Apply(DefaultOptions())
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("flatten: config: %w", err)
	}
	return opts, nil
}

// LoadConfig reads and decodes a TOML configuration file.
func LoadConfig(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flatten: read config: %w", err)
	}
	return ParseConfig(data)
}

// Apply overrides the fields of opts set in c and returns opts.
func (c *Config) Apply(opts *Options) *Options {
	if c.Replace != nil {
		opts.Replace = *c.Replace
	}
	if c.FlattenArrays != nil {
		opts.FlattenArrays = *c.FlattenArrays
	}
	if c.WriteBackReturns != nil {
		opts.WriteBackReturns = *c.WriteBackReturns
	}
	if c.NameSeparator != nil {
		opts.NameSeparator = *c.NameSeparator
	}
	if c.ResultName != nil {
		opts.ResultName = *c.ResultName
	}
	return opts
}
