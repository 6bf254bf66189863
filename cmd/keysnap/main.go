// Package main provides the CLI entry point for keysnap: keyframe snapshots
// plus an H.264 re-encode of the video.
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
		kong.Name("keysnap"),
		kong.Description(l10n.T("Extract keyframe snapshots and re-encode the video to H.264 M4V")),
		kong.UsageOnError(),
		keysnap.Vars(version),
	)

	log := keysnap.NewLogger(opts)

	// Setup context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := keysnap.Run(ctx, pipeline.ModeExtractTranscode, opts, version, log)
	kctx.FatalIfErrorf(err)
}
