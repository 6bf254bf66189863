// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/user/keysnap/pkg/config"
	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
)

// maxReadRetries bounds consecutive non-EOF demuxer errors.
const maxReadRetries = 64

// Config contains all configuration for the orchestrator.
type Config struct {
	Mode      pipeline.Mode
	InputURL  string // Path or URL understood by the media library
	OutputDir string // Must already exist

	Settings config.Config
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Mode:     pipeline.ModeExtractTranscode,
		Settings: config.Defaults(),
	}
}

// Transcoder is the re-encode stage: Open writes the header, EncodeFrame
// writes packets and Close writes the trailer. Release frees the output on
// every exit path.
type Transcoder interface {
	Open(ctx context.Context, input pipeline.TranscodeOpenInput) error
	EncodeFrame(ctx context.Context, frame ports.Frame) error
	Close(ctx context.Context) (pipeline.TranscodeResult, error)
	Release()
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	lib               ports.MediaLibrary
	snapshotStage     pipeline.Stage[pipeline.SnapshotInput, pipeline.SnapshotResult]
	transcoder        Transcoder
	contactSheetStage pipeline.Stage[pipeline.ContactSheetInput, pipeline.ContactSheetResult]
	probe             ports.ContainerProbe
	sink              ports.DebugSink
	logger            ports.Logger
}

// New creates a new Orchestrator.
// An Orchestrator drives a single run because the transcoder is stateful.
func New(
	lib ports.MediaLibrary,
	snapshotStage pipeline.Stage[pipeline.SnapshotInput, pipeline.SnapshotResult],
	transcoder Transcoder,
	contactSheetStage pipeline.Stage[pipeline.ContactSheetInput, pipeline.ContactSheetResult],
	probe ports.ContainerProbe,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		lib:               lib,
		snapshotStage:     snapshotStage,
		transcoder:        transcoder,
		contactSheetStage: contactSheetStage,
		probe:             probe,
		sink:              sink,
		logger:            logger,
	}
}

// Run executes the complete pipeline.
// On error the returned RunResult holds the counters collected so far.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (RunResult, error) {
	result := RunResult{
		Mode:      cfg.Mode,
		InputURL:  cfg.InputURL,
		OutputDir: cfg.OutputDir,
	}

	if err := cfg.Settings.Validate(); err != nil {
		return result, fmt.Errorf("invalid settings: %w", err)
	}

	o.logger.Info(l10n.F("Starting %s pipeline", cfg.Mode))

	if err := o.lib.Init(); err != nil {
		return result, fmt.Errorf("initialize media library: %w", err)
	}

	// 1. Open input and select the video stream
	o.logger.Info(l10n.F("Opening %s", cfg.InputURL))
	input, err := o.lib.OpenInput(cfg.InputURL)
	if err != nil {
		return result, fmt.Errorf("open input %s: %w", cfg.InputURL, err)
	}
	defer input.Close()

	result.Streams = input.Streams()
	for _, s := range result.Streams {
		o.logger.Debug("Input stream %d: %s (%s)", s.Index, s.Type, s.Codec)
	}

	stream, err := input.BestStream(ports.MediaTypeVideo)
	if err != nil {
		return result, fmt.Errorf("select video stream: %w", err)
	}
	result.Stream = stream
	o.logger.Info(l10n.F("Selected video stream %d (%s, %dx%d)", stream.Index, stream.Codec, stream.Width, stream.Height))

	decoder, err := input.OpenDecoder(stream.Index)
	if err != nil {
		return result, fmt.Errorf("open decoder for stream %d: %w", stream.Index, err)
	}
	defer decoder.Close()

	// 2. Open the re-encode output
	transcodes := cfg.Mode.Transcodes()
	if transcodes {
		source := pipeline.TranscodeSource{
			Width:    decoder.Width(),
			Height:   decoder.Height(),
			TimeBase: decoder.TimeBase(),
		}
		defer o.transcoder.Release()
		if err := o.transcoder.Open(ctx, pipeline.TranscodeOpenInput{OutputDir: cfg.OutputDir, Source: source}); err != nil {
			return result, fmt.Errorf("transcode stage: %w", err)
		}
		o.logger.Info(l10n.F("Re-encoding to %s", filepath.Join(cfg.OutputDir, cfg.Settings.OutputName)))
	}

	frame, err := o.lib.NewFrame()
	if err != nil {
		return result, fmt.Errorf("allocate frame: %w", err)
	}
	defer frame.Close()

	// 3. Packet loop
	filter := pipeline.NewFilter(cfg.Mode, stream.Index, cfg.Settings.PacketLimit)
	err = o.decodeLoop(ctx, cfg, input, decoder, frame, filter, &result)
	result.Filter = filter.Stats()
	if err != nil {
		return result, err
	}

	// 4. Finalize the output
	if transcodes {
		tr, err := o.transcoder.Close(ctx)
		result.Transcode = &tr
		if err != nil {
			return result, fmt.Errorf("transcode stage: %w", err)
		}
		o.logger.Info(l10n.F("Output saved to %s (%d frames)", tr.OutputPath, tr.FramesSubmitted))
	}

	o.logger.Info(l10n.F("Extracted %d keyframes from %d packets", len(result.Snapshots), result.Filter.Admitted))

	// 5. Debug outputs
	if o.sink.Enabled() {
		o.debugOutputs(ctx, cfg, &result)
	}

	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return result, nil
}

// decodeLoop reads packets until the input ends or the filter stops it.
func (o *Orchestrator) decodeLoop(
	ctx context.Context,
	cfg Config,
	input ports.InputContext,
	decoder ports.Decoder,
	frame ports.Frame,
	filter *pipeline.PacketFilter,
	result *RunResult,
) error {
	transcodes := cfg.Mode.Transcodes()
	readErrors := 0

	thumbWidth := 0
	if o.sink.Enabled() {
		thumbWidth = cfg.Settings.ThumbnailWidth
	}

	for !filter.Exhausted() {
		if err := ctx.Err(); err != nil {
			o.logger.Warn(l10n.T("Interrupted, shutting down..."))
			return err
		}

		pkt, err := input.ReadPacket()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			readErrors++
			if readErrors > maxReadRetries {
				return fmt.Errorf("read packet: %w", err)
			}
			o.logger.Debug("Skipping unreadable packet: %v", err)
			continue
		}
		readErrors = 0

		switch filter.Admit(pkt) {
		case pipeline.Skip:
			continue
		case pipeline.Stop:
			return nil
		}

		// The packet is only valid until the next read
		key := pkt.IsKey()

		result.Decode.Attempts++
		ok, err := decoder.Decode(pkt, frame)
		if err != nil {
			result.Decode.Errors++
			o.logger.Warn(l10n.F("Failed to decode packet of stream %d: %v", pkt.StreamIndex(), err))
			continue
		}
		if !ok {
			result.Decode.Pending++
			o.logger.Debug("No frame from decoder yet")
			continue
		}
		result.Decode.Frames++

		if transcodes {
			if err := o.transcoder.EncodeFrame(ctx, frame); err != nil {
				return fmt.Errorf("transcode stage: %w", err)
			}
		}

		if key || !transcodes {
			snap, err := o.snapshotStage.Execute(ctx, pipeline.SnapshotInput{
				Frame:          frame,
				OutputDir:      cfg.OutputDir,
				ThumbnailWidth: thumbWidth,
			})
			if err != nil {
				return fmt.Errorf("snapshot stage: %w", err)
			}
			o.logger.Info(l10n.F("Keyframe saved: %s", snap.Path))
			result.Snapshots = append(result.Snapshots, snap)
		}
	}
	return nil
}

// debugOutputs writes the contact sheet and probes the output.
// Failures here are diagnostic and only logged.
func (o *Orchestrator) debugOutputs(ctx context.Context, cfg Config, result *RunResult) {
	if len(result.Snapshots) > 0 {
		thumbs := make([]pipeline.Thumbnail, 0, len(result.Snapshots))
		for _, snap := range result.Snapshots {
			if snap.Thumbnail != nil {
				thumbs = append(thumbs, pipeline.Thumbnail{Timestamp: snap.Timestamp, Image: snap.Thumbnail})
			}
		}
		sheet, err := o.contactSheetStage.Execute(ctx, pipeline.ContactSheetInput{
			Thumbnails: thumbs,
			Columns:    cfg.Settings.ContactColumns,
			CellWidth:  cfg.Settings.ThumbnailWidth,
		})
		if err != nil {
			o.logger.Warn(l10n.F("Failed to build contact sheet: %v", err))
		} else {
			result.ContactSheetRows = sheet.Rows
		}
	}

	if result.Transcode != nil && o.probe != nil {
		summary, err := o.probe.Probe(result.Transcode.OutputPath)
		if err != nil {
			o.logger.Warn(l10n.F("Failed to probe %s: %v", result.Transcode.OutputPath, err))
			return
		}
		result.Probe = &summary
	}
}
