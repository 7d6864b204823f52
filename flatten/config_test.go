// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package flatten

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
		want *Options
	}{
		{
			name: "empty",
			data: "",
			want: DefaultOptions(),
		},
		{
			name: "all keys",
			data: `
replace = "in-place"
flatten_arrays = true
write_back_returns = true
name_separator = "__"
result_name = "ret"
`,
			want: &Options{
				Replace:          ReplaceInPlace,
				FlattenArrays:    true,
				WriteBackReturns: true,
				NameSeparator:    "__",
				ResultName:       "ret",
			},
		},
		{
			name: "partial",
			data: `replace = "remove"`,
			want: withOptions(func(o *Options) { o.Replace = RemoveOriginal }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseConfig failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Options{}, "Logger")); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "replace = ", "parse config"},
		{"unknown key", "flatten_everything = true", "flatten_everything"},
		{"bad policy", `replace = "sometimes"`, "parse config"},
		{"wrong type", `flatten_arrays = "yes"`, "parse config"},
		{"empty separator", `name_separator = ""`, "separator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseConfig succeeded, want an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flatten.toml")
	if err := os.WriteFile(path, []byte("write_back_returns = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !opts.WriteBackReturns || opts.Replace != KeepOriginal {
		t.Errorf("got %+v", opts)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig of a missing file succeeded")
	}
}

func TestReplacePolicyText(t *testing.T) {
	for _, p := range []ReplacePolicy{KeepOriginal, RemoveOriginal, ReplaceInPlace} {
		text, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) failed: %v", p, err)
		}
		var back ReplacePolicy
		if err := back.UnmarshalText(text); err != nil || back != p {
			t.Errorf("%s round-tripped to %s, %v", p, back, err)
		}
	}
	if got, err := ParseReplacePolicy("inplace"); err != nil || got != ReplaceInPlace {
		t.Errorf(`ParseReplacePolicy("inplace") = %s, %v`, got, err)
	}
	if got := ReplacePolicy(7).String(); got != "ReplacePolicy(7)" {
		t.Errorf("String() = %q", got)
	}
}
