package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/hlslflat"
	"github.com/gogpu/hlslflat/flatten"
)

type flattenCmd struct {
	configPath       string
	output           string
	replace          string
	flattenArrays    bool
	writeBackReturns bool
	jobs             int
}

func (*flattenCmd) Name() string { return "flatten" }

func (*flattenCmd) Synopsis() string {
	return "Flatten opaque resource structs and print the result as HLSL."
}

func (*flattenCmd) Usage() string {
	return `hlslflat flatten [-config <file.toml>] [-o <file|dir>] <input.yaml>...

With one input, -o names the output file. With several, -o names a directory
that receives <input>.hlsl for each input. Without -o the results are printed
to stdout in argument order.
`
}

func (cmd *flattenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.configPath, "config", "", "TOML file with flatten options")
	f.StringVar(&cmd.output, "o", "", "output file or directory (default: stdout)")
	f.StringVar(&cmd.replace, "replace", "", "original handling: keep, remove or in-place (overrides -config)")
	f.BoolVar(&cmd.flattenArrays, "flatten-arrays", false, "flatten constant-sized arrays of opaque types")
	f.BoolVar(&cmd.writeBackReturns, "write-back", false, "copy returned aggregates into output parameters")
	f.IntVar(&cmd.jobs, "j", runtime.NumCPU(), "number of inputs processed in parallel")
}

func (cmd *flattenCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := cmd.execute(ctx, f); err != nil {
		loggerFrom(ctx).Error("flatten failed", "err", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// options merges the config file with the flags that were set explicitly.
func (cmd *flattenCmd) options(ctx context.Context, f *flag.FlagSet) (*flatten.Options, error) {
	opts := flatten.DefaultOptions()
	if cmd.configPath != "" {
		var err error
		if opts, err = flatten.LoadConfig(cmd.configPath); err != nil {
			return nil, err
		}
	}

	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "replace":
			opts.Replace, err = flatten.ParseReplacePolicy(cmd.replace)
		case "flatten-arrays":
			opts.FlattenArrays = cmd.flattenArrays
		case "write-back":
			opts.WriteBackReturns = cmd.writeBackReturns
		}
	})
	if err != nil {
		return nil, err
	}
	opts.Logger = loggerFrom(ctx)
	return opts, nil
}

func (cmd *flattenCmd) execute(ctx context.Context, f *flag.FlagSet) error {
	opts, err := cmd.options(ctx, f)
	if err != nil {
		return err
	}
	inputs := f.Args()
	if len(inputs) > 1 && cmd.output != "" {
		if err := os.MkdirAll(cmd.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	results := make([][]byte, len(inputs))
	var eg errgroup.Group
	eg.SetLimit(max(cmd.jobs, 1))
	for i, path := range inputs {
		i, path := i, path
		eg.Go(func() error {
			out, err := transformFile(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	switch {
	case cmd.output == "":
		for i, out := range results {
			if i > 0 {
				out = append([]byte("\n"), out...)
			}
			if _, err := os.Stdout.Write(out); err != nil {
				return err
			}
		}
		return nil
	case len(inputs) == 1:
		return os.WriteFile(cmd.output, results[0], 0o644)
	default:
		for i, path := range inputs {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".hlsl"
			if err := os.WriteFile(filepath.Join(cmd.output, name), results[i], 0o644); err != nil {
				return err
			}
		}
		return nil
	}
}

// transformFile flattens one input. Each call gets its own copy of opts.
func transformFile(ctx context.Context, path string, opts *flatten.Options) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	local := *opts
	local.Logger = opts.Logger.With("input", path)

	out, res, err := hlslflat.Transform(source, &local)
	if err != nil {
		return nil, err
	}
	loggerFrom(ctx).Debug("transformed", "input", path, "replaced", len(res.Replacements),
		"bytes", len(out))
	return out, nil
}
