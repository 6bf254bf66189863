// Package summarizer provides run reports for keyframe extraction and transcoding.
package summarizer

import (
	"time"

	"github.com/google/uuid"

	"github.com/user/keysnap/pkg/orchestrator"
	"github.com/user/keysnap/pkg/ports"
)

// Summary contains all data collected during a pipeline run.
type Summary struct {
	// Metadata
	RunID       string    `yaml:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at"`

	// Invocation
	Mode      string `yaml:"mode"`
	Input     string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`

	// Input streams and the selected video stream
	Streams []InputStream `yaml:"streams"`
	Stream  StreamInfo    `yaml:"stream"`

	// Counters
	Packets PacketInfo   `yaml:"packets"`
	Decoder DecoderInfo  `yaml:"decoder"`
	Encoder *EncoderInfo `yaml:"encoder,omitempty"`

	// Written stills
	Snapshots []SnapshotInfo `yaml:"snapshots"`

	// Container read back from disk
	Output *OutputInfo `yaml:"output,omitempty"`
}

// InputStream describes one stream of the input container.
type InputStream struct {
	Index int    `yaml:"index"`
	Type  string `yaml:"type"`
	Codec string `yaml:"codec"`
}

// StreamInfo describes the selected video stream.
type StreamInfo struct {
	Index    int    `yaml:"index"`
	Codec    string `yaml:"codec"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	TimeBase string `yaml:"time_base"`
}

// PacketInfo contains packet filter counters.
type PacketInfo struct {
	Seen           int `yaml:"seen"`
	Admitted       int `yaml:"admitted"`
	OtherStreams   int `yaml:"other_streams"`
	SkippedLeading int `yaml:"skipped_leading"`
	NonKey         int `yaml:"non_key"`
}

// DecoderInfo contains decoder counters.
type DecoderInfo struct {
	Attempts int `yaml:"attempts"`
	Frames   int `yaml:"frames"`
	Pending  int `yaml:"pending"`
	Errors   int `yaml:"errors"`
}

// EncoderInfo contains encoder and muxer counters.
type EncoderInfo struct {
	OutputPath      string `yaml:"output_path"`
	FramesSubmitted int    `yaml:"frames_submitted"`
	PacketsWritten  int    `yaml:"packets_written"`
	PacketsFlushed  int    `yaml:"packets_flushed"`
	Pending         int    `yaml:"pending"`
	Errors          int    `yaml:"errors"`
}

// SnapshotInfo describes one written still.
type SnapshotInfo struct {
	Path      string `yaml:"path"`
	Timestamp int64  `yaml:"timestamp"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	FileSize  int64  `yaml:"file_size"`
}

// OutputInfo contains the probed output container.
type OutputInfo struct {
	MajorBrand string      `yaml:"major_brand"`
	Fragmented bool        `yaml:"fragmented"`
	FileSize   int64       `yaml:"file_size"`
	Tracks     []TrackInfo `yaml:"tracks"`
}

// TrackInfo describes one probed track.
type TrackInfo struct {
	ID          uint32 `yaml:"id"`
	Handler     string `yaml:"handler"`
	Codec       string `yaml:"codec"`
	Width       int    `yaml:"width,omitempty"`
	Height      int    `yaml:"height,omitempty"`
	Timescale   uint32 `yaml:"timescale"`
	Samples     int    `yaml:"samples"`
	SyncSamples int    `yaml:"sync_samples"`
	Duration    uint64 `yaml:"duration"`
}

// NewSummary creates a new Summary with a fresh run id and the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInvocation sets the mode and paths of the run.
func (b *Builder) WithInvocation(mode, input, outputDir string) *Builder {
	b.summary.Mode = mode
	b.summary.Input = input
	b.summary.OutputDir = outputDir
	return b
}

// WithStreams sets the streams found in the input.
func (b *Builder) WithStreams(streams []ports.StreamInfo) *Builder {
	b.summary.Streams = make([]InputStream, 0, len(streams))
	for _, s := range streams {
		b.summary.Streams = append(b.summary.Streams, InputStream{
			Index: s.Index,
			Type:  s.Type.String(),
			Codec: s.Codec,
		})
	}
	return b
}

// WithStream sets the selected stream.
func (b *Builder) WithStream(s ports.StreamInfo) *Builder {
	b.summary.Stream = StreamInfo{
		Index:    s.Index,
		Codec:    s.Codec,
		Width:    s.Width,
		Height:   s.Height,
		TimeBase: s.TimeBase.String(),
	}
	return b
}

// WithPackets sets packet filter counters.
func (b *Builder) WithPackets(p PacketInfo) *Builder {
	b.summary.Packets = p
	return b
}

// WithDecoder sets decoder counters.
func (b *Builder) WithDecoder(d DecoderInfo) *Builder {
	b.summary.Decoder = d
	return b
}

// WithEncoder sets encoder counters.
func (b *Builder) WithEncoder(e EncoderInfo) *Builder {
	b.summary.Encoder = &e
	return b
}

// AddSnapshot appends a written still.
func (b *Builder) AddSnapshot(s SnapshotInfo) *Builder {
	b.summary.Snapshots = append(b.summary.Snapshots, s)
	return b
}

// WithOutput sets the probed output container.
func (b *Builder) WithOutput(c ports.ContainerSummary) *Builder {
	out := &OutputInfo{
		MajorBrand: c.MajorBrand,
		Fragmented: c.Fragmented,
		FileSize:   c.Size,
	}
	for _, t := range c.Tracks {
		out.Tracks = append(out.Tracks, TrackInfo(t))
	}
	b.summary.Output = out
	return b
}

// WithRun fills the summary from a finished pipeline run.
func (b *Builder) WithRun(r orchestrator.RunResult) *Builder {
	b.WithInvocation(r.Mode.String(), r.InputURL, r.OutputDir).
		WithStreams(r.Streams).
		WithStream(r.Stream).
		WithPackets(PacketInfo(r.Filter)).
		WithDecoder(DecoderInfo(r.Decode))

	if t := r.Transcode; t != nil {
		b.WithEncoder(EncoderInfo{
			OutputPath:      t.OutputPath,
			FramesSubmitted: t.FramesSubmitted,
			PacketsWritten:  t.PacketsWritten,
			PacketsFlushed:  t.PacketsFlushed,
			Pending:         t.Pending,
			Errors:          t.EncodeErrors,
		})
	}
	for _, s := range r.Snapshots {
		b.AddSnapshot(SnapshotInfo{
			Path:      s.Path,
			Timestamp: s.Timestamp,
			Width:     s.Width,
			Height:    s.Height,
			FileSize:  s.FileSize,
		})
	}
	if r.Probe != nil {
		b.WithOutput(*r.Probe)
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
