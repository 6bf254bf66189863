// Package pipeline holds the stage contract, packet filtering and the
// types passed between keysnap stages.
package pipeline

import (
	"context"
	"image"

	"github.com/user/keysnap/pkg/ports"
)

// =============================================================================
// Stages
// =============================================================================

// Stage is a processing step driven by the orchestrator.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc adapts a function to Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// =============================================================================
// Modes
// =============================================================================

// Mode selects one of the two pipeline configurations.
type Mode int

const (
	// ModeExtractTranscode extracts keyframe snapshots and re-encodes the
	// keyframe-started, capped packet sequence.
	ModeExtractTranscode Mode = iota
	// ModeExtractOnly decodes key packets only and extracts a snapshot for each.
	ModeExtractOnly
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeExtractTranscode:
		return "extract+transcode"
	case ModeExtractOnly:
		return "extract-only"
	default:
		return "unknown"
	}
}

// Transcodes reports whether the mode writes a re-encoded video.
func (m Mode) Transcodes() bool {
	return m == ModeExtractTranscode
}

// =============================================================================
// Snapshot Stage Types
// =============================================================================

// SnapshotInput contains a decoded frame to save as a still.
type SnapshotInput struct {
	Frame          ports.Frame
	OutputDir      string
	ThumbnailWidth int // Width of the returned thumbnail, 0 for none
}

// SnapshotResult describes a written still.
type SnapshotResult struct {
	Path      string
	Timestamp int64
	Width     int
	Height    int
	Thumbnail image.Image // Downscaled picture, nil unless requested
	FileSize  int64
}

// =============================================================================
// Transcode Stage Types
// =============================================================================

// TranscodeSource describes the decoded stream feeding the encoder.
type TranscodeSource struct {
	Width    int
	Height   int
	TimeBase ports.Rational
}

// TranscodeOpenInput contains parameters for opening the re-encode output.
type TranscodeOpenInput struct {
	OutputDir string
	Source    TranscodeSource
}

// TranscodeResult summarizes a finished re-encode.
type TranscodeResult struct {
	OutputPath      string
	StreamIndex     int
	FramesSubmitted int
	PacketsWritten  int // Packets written during the loop
	PacketsFlushed  int // Packets drained by the final flush
	Pending         int // Submissions that produced no packet
	EncodeErrors    int
}

// =============================================================================
// Contact Sheet Stage Types
// =============================================================================

// Thumbnail is a snapshot picture with its caption timestamp.
type Thumbnail struct {
	Timestamp int64
	Image     image.Image
}

// ContactSheetInput contains snapshots to downscale and lay out.
type ContactSheetInput struct {
	Thumbnails []Thumbnail
	Columns    int
	CellWidth  int // Width each snapshot is downscaled to
}

// ContactSheetResult contains the composed overview image.
type ContactSheetResult struct {
	Image image.Image
	Rows  int
	Cells int
}

// =============================================================================
// Run Statistics
// =============================================================================

// DecodeStats counts decode outcomes.
type DecodeStats struct {
	Attempts int
	Frames   int
	Pending  int
	Errors   int
}
