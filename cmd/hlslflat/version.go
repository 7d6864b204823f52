package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/gogpu/hlslflat"
)

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "Print the hlslflat version." }
func (*versionCmd) Usage() string    { return "hlslflat version\n" }

func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("hlslflat version %s\n", hlslflat.Version)
	return subcommands.ExitSuccess
}
