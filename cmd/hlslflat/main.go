// Command hlslflat flattens HLSL structs holding textures and samplers.
//
// Usage:
//
//	hlslflat [-v] <command> [options] <input.yaml>...
//
// Examples:
//
//	hlslflat flatten shader.yaml                   # Flatten and print HLSL
//	hlslflat flatten -config flat.toml -o out/ a.yaml b.yaml
//	hlslflat dump shader.yaml                      # Print the unit unchanged
//	hlslflat version
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
)

var verbose bool

type loggerKey struct{}

func withLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// loggerFrom returns the logger stored in ctx, or the default logger.
func loggerFrom(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

func main() {
	flag.BoolVar(&verbose, "v", false, "log debug records")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&flattenCmd{}, "")
	subcommands.Register(&dumpCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := withLogger(context.Background(), log)
	os.Exit(int(subcommands.Execute(ctx)))
}
