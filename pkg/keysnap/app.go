// Package keysnap wires the adapters and stages into a runnable pipeline
// for the keysnap command-line tools.
package keysnap

import (
	"context"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/keysnap/pkg/adapters/avlib"
	"github.com/user/keysnap/pkg/adapters/filesink"
	"github.com/user/keysnap/pkg/adapters/ggrenderer"
	"github.com/user/keysnap/pkg/adapters/logger"
	"github.com/user/keysnap/pkg/adapters/m4vprobe"
	"github.com/user/keysnap/pkg/adapters/nullsink"
	"github.com/user/keysnap/pkg/adapters/osfilesystem"
	"github.com/user/keysnap/pkg/config"
	"github.com/user/keysnap/pkg/orchestrator"
	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
	"github.com/user/keysnap/pkg/stages/contactsheet"
	"github.com/user/keysnap/pkg/stages/snapshot"
	"github.com/user/keysnap/pkg/stages/transcode"
	"github.com/user/keysnap/pkg/summarizer"
)

// Options are the command-line arguments and flags shared by both commands.
type Options struct {
	// Required arguments
	Input     string `arg:"" help:"${help_input}"`
	OutputDir string `arg:"" help:"${help_output_dir}"`

	// Debug options
	Debug    bool   `short:"d" help:"${help_debug}" group:"${group_debug}"`
	DebugDir string `default:"./debug" help:"${help_debug_dir}" group:"${group_debug}"`

	// Logging options
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"${help_log_level}" group:"${group_logging}"`
	Quiet    bool   `short:"Q" help:"${help_quiet}" group:"${group_logging}"`

	Version kong.VersionFlag `short:"V" help:"${help_version}"`
}

// Vars returns the kong interpolation variables with translated help text.
func Vars(version string) kong.Vars {
	return kong.Vars{
		"version":         version,
		"help_input":      l10n.T("Input video file path or URL"),
		"help_output_dir": l10n.T("Existing directory for snapshots and the re-encoded video"),
		"help_debug":      l10n.T("Enable debug output"),
		"help_debug_dir":  l10n.T("Directory for debug output"),
		"help_log_level":  l10n.T("Log level (debug, info, warn, error)"),
		"help_quiet":      l10n.T("Suppress all log output"),
		"help_version":    l10n.T("Show version information"),
		"group_debug":     l10n.T("Debug"),
		"group_logging":   l10n.T("Logging"),
	}
}

// NewLogger creates the logger selected by the options.
func NewLogger(opts Options) ports.Logger {
	if opts.Quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(opts.LogLevel))
}

// Run builds the pipeline for mode and runs it once.
func Run(ctx context.Context, mode pipeline.Mode, opts Options, version string, log ports.Logger) error {
	settings := config.Defaults()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	lib := avlib.New(log.WithComponent("avlib"))

	var sink ports.DebugSink
	if opts.Debug {
		sink = filesink.New(opts.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	orch := orchestrator.New(
		lib,
		snapshot.NewStage(lib, renderer, fs, log.WithComponent("snapshot"), settings.SnapshotFormat, settings.JPEGQuality),
		transcode.NewStage(lib, settings, log.WithComponent("transcode")),
		contactsheet.NewStage(renderer, sink, log.WithComponent("contactsheet"), runtime.NumCPU()),
		m4vprobe.New(),
		sink,
		log,
	)

	result, err := orch.Run(ctx, orchestrator.Config{
		Mode:      mode,
		InputURL:  opts.Input,
		OutputDir: opts.OutputDir,
		Settings:  settings,
	})

	if sink.Enabled() {
		WriteReports(result, sink, version, log)
		log.Info(l10n.F("Debug outputs saved to %s", opts.DebugDir))
	}

	return err
}

// WriteReports saves the YAML and Markdown run reports to the sink.
// Failures are logged and never fail the run.
func WriteReports(result orchestrator.RunResult, sink ports.DebugSink, version string, log ports.Logger) {
	summary := summarizer.NewBuilder().WithRun(result).Build()

	writers := []struct {
		name      string
		formatter summarizer.Formatter
	}{
		{summarizer.YAMLReportName, summarizer.NewYAMLFormatter()},
		{summarizer.MarkdownReportName, summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(func(s string) string { return l10n.T(s) }),
			summarizer.WithVersion(version),
		)},
	}

	for _, w := range writers {
		if err := summarizer.NewWriter(w.formatter, sink).Write(w.name, summary); err != nil {
			log.Warn(l10n.F("Failed to write summary: %v", err))
			continue
		}
		log.Debug("Summary written to %s", w.name)
	}
}
