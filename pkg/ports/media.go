// Package ports defines interfaces for external dependencies.
package ports

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamNotFound is returned when an input has no stream of the requested type.
	ErrStreamNotFound = errors.New("ports: stream not found")

	// ErrEncoderNotFound is returned when the codec library has no encoder for a codec.
	ErrEncoderNotFound = errors.New("ports: encoder not found")
)

// MediaType identifies the kind of data carried by a stream.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeSubtitle
)

// String returns the string representation of the media type.
func (t MediaType) String() string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// PixelFormat names a picture layout. Values follow FFmpeg pixel format names.
type PixelFormat string

const (
	PixelFormatRGB24   PixelFormat = "rgb24"
	PixelFormatYUV422P PixelFormat = "yuv422p"
	PixelFormatYUV420P PixelFormat = "yuv420p"
)

// CodecID identifies a codec by its short name.
type CodecID string

const (
	CodecH264 CodecID = "h264"
)

// Rational is a fraction used for time bases.
type Rational struct {
	Num int
	Den int
}

// Valid reports whether both terms are positive.
func (r Rational) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// StreamInfo describes one stream of an opened input.
type StreamInfo struct {
	Index    int
	Type     MediaType
	Codec    string
	Width    int
	Height   int
	TimeBase Rational
}

// MediaLibrary is the multimedia codec library the pipeline is built on.
// Implementations own every demux, decode, convert, encode and mux operation.
type MediaLibrary interface {
	// Init performs process-wide setup. It is safe to call more than once.
	Init() error

	// OpenInput opens a container by path or URL for reading.
	OpenInput(url string) (InputContext, error)

	// FindEncoder reports whether an encoder for codec is available.
	// It returns an error wrapping ErrEncoderNotFound otherwise.
	FindEncoder(codec CodecID) error

	// OpenOutput creates a container at path using the named format.
	OpenOutput(path, format string) (OutputContext, error)

	// NewFrame allocates an empty, reusable picture buffer.
	NewFrame() (Frame, error)

	// NewConverter creates a converter from src's layout to dst, without resizing.
	NewConverter(src Frame, dst PixelFormat) (Converter, error)
}

// InputContext is an opened source container.
type InputContext interface {
	// Streams lists every stream of the container.
	Streams() []StreamInfo

	// BestStream selects the library's preferred stream of the given type.
	BestStream(t MediaType) (StreamInfo, error)

	// OpenDecoder binds a decoder to the stream's codec parameters.
	OpenDecoder(streamIndex int) (Decoder, error)

	// ReadPacket returns the next packet in container order, or io.EOF.
	// The packet is only valid until the next call.
	ReadPacket() (Packet, error)

	// Close releases the container.
	Close() error
}

// Packet is an opaque compressed data unit.
type Packet interface {
	StreamIndex() int
	SetStreamIndex(index int)

	// IsKey reports whether the packet holds a keyframe.
	IsKey() bool

	// Pts returns the presentation timestamp, if set.
	Pts() (int64, bool)
}

// Frame is a decoded picture buffer, reused across decode calls.
type Frame interface {
	Width() int
	Height() int
	PixelFormat() PixelFormat

	// Pts returns the presentation timestamp, if set.
	Pts() (int64, bool)
	SetPts(pts int64)

	// DecodeTimestamp returns the decode-order timestamp of the packet
	// the frame came from, if set.
	DecodeTimestamp() (int64, bool)

	// Bytes returns the picture data packed without row padding.
	Bytes() ([]byte, error)

	Close()
}

// Converter changes the pixel layout of frames.
type Converter interface {
	Run(src, dst Frame) error
	Close()
}
