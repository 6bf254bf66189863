package keysnap

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/user/keysnap/pkg/adapters/logger"
	"github.com/user/keysnap/pkg/mocks"
	"github.com/user/keysnap/pkg/orchestrator"
	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
	"github.com/user/keysnap/pkg/summarizer"
)

func parse(t *testing.T, args ...string) Options {
	t.Helper()

	var opts Options
	parser, err := kong.New(&opts, Vars("test"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return opts
}

func TestOptions_Defaults(t *testing.T) {
	opts := parse(t, "in.mp4", "out")

	if opts.Input != "in.mp4" {
		t.Errorf("expected input in.mp4, got %s", opts.Input)
	}
	if opts.OutputDir != "out" {
		t.Errorf("expected output dir out, got %s", opts.OutputDir)
	}
	if opts.Debug {
		t.Error("expected debug off by default")
	}
	if opts.DebugDir != "./debug" {
		t.Errorf("expected debug dir ./debug, got %s", opts.DebugDir)
	}
	if opts.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", opts.LogLevel)
	}
}

func TestOptions_Flags(t *testing.T) {
	opts := parse(t, "-d", "--debug-dir", "/tmp/dbg", "-l", "debug", "-Q", "https://example.com/in.mp4", "out")

	if !opts.Debug || opts.DebugDir != "/tmp/dbg" {
		t.Errorf("unexpected debug options: %v %s", opts.Debug, opts.DebugDir)
	}
	if opts.LogLevel != "debug" || !opts.Quiet {
		t.Errorf("unexpected logging options: %s %v", opts.LogLevel, opts.Quiet)
	}
	if opts.Input != "https://example.com/in.mp4" {
		t.Errorf("expected URL input, got %s", opts.Input)
	}
}

func TestOptions_MissingArgument(t *testing.T) {
	var opts Options
	parser, err := kong.New(&opts, Vars("test"))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	if _, err := parser.Parse([]string{"in.mp4"}); err == nil {
		t.Error("expected error when the output directory is missing")
	}
}

func TestOptions_InvalidLogLevel(t *testing.T) {
	var opts Options
	parser, err := kong.New(&opts, Vars("test"))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	if _, err := parser.Parse([]string{"-l", "verbose", "in.mp4", "out"}); err == nil {
		t.Error("expected error for an unknown log level")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		opts Options
		want ports.LogLevel
	}{
		{Options{Quiet: true, LogLevel: "debug"}, ports.LevelQuiet},
		{Options{LogLevel: "warn"}, ports.LevelWarn},
		{Options{LogLevel: "debug"}, ports.LevelDebug},
	}

	for _, tt := range tests {
		l, ok := NewLogger(tt.opts).(*logger.ConsoleLogger)
		if !ok {
			t.Fatalf("expected a console logger for %+v", tt.opts)
		}
		if l.Level() != tt.want {
			t.Errorf("expected level %v for %+v, got %v", tt.want, tt.opts, l.Level())
		}
	}
}

func TestWriteReports(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	log := mocks.NewLogger()

	result := orchestrator.RunResult{
		Mode:      pipeline.ModeExtractOnly,
		InputURL:  "in.mp4",
		OutputDir: "out",
		Snapshots: []pipeline.SnapshotResult{{Path: "out/0.jpg", Width: 320, Height: 240}},
	}
	WriteReports(result, sink, "v0.1.0", log)

	yamlReport, ok := sink.Reports[summarizer.YAMLReportName]
	if !ok {
		t.Fatalf("expected %s to be saved", summarizer.YAMLReportName)
	}
	if !strings.Contains(string(yamlReport), "mode: extract-only") {
		t.Errorf("unexpected YAML report:\n%s", yamlReport)
	}

	mdReport, ok := sink.Reports[summarizer.MarkdownReportName]
	if !ok {
		t.Fatalf("expected %s to be saved", summarizer.MarkdownReportName)
	}
	if !strings.Contains(string(mdReport), "v0.1.0") || !strings.Contains(string(mdReport), "out/0.jpg") {
		t.Errorf("unexpected Markdown report:\n%s", mdReport)
	}

	if n := log.Count(ports.LevelWarn); n != 0 {
		t.Errorf("expected no warnings, got %d", n)
	}
}
