package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/gogpu/hlslflat"
)

type dumpCmd struct{}

func (*dumpCmd) Name() string { return "dump" }

func (*dumpCmd) Synopsis() string {
	return "Print a YAML translation unit as HLSL without flattening it."
}

func (*dumpCmd) Usage() string {
	return "hlslflat dump <input.yaml>\n"
}

func (*dumpCmd) SetFlags(*flag.FlagSet) {}

func (cmd *dumpCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := cmd.execute(f.Arg(0)); err != nil {
		loggerFrom(ctx).Error("dump failed", "input", f.Arg(0), "err", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (*dumpCmd) execute(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	unit, err := hlslflat.Decode(in)
	if err != nil {
		return err
	}
	return hlslflat.Print(os.Stdout, unit)
}
