// Package main provides the CLI entry point for keysnap-extract, which only
// writes keyframe snapshots.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/keysnap/pkg/keysnap"
	"github.com/user/keysnap/pkg/pipeline"
)

var version = "dev"

func main() {
	var opts keysnap.Options

	kctx := kong.Parse(&opts,
		kong.Name("keysnap-extract"),
		kong.Description(l10n.T("Extract keyframe snapshots as JPEG files")),
		kong.UsageOnError(),
		keysnap.Vars(version),
	)

	log := keysnap.NewLogger(opts)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := keysnap.Run(ctx, pipeline.ModeExtractOnly, opts, version, log)
	kctx.FatalIfErrorf(err)
}
