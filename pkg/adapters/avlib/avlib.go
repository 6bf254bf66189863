// Package avlib implements the media ports on top of FFmpeg's libraries
// through go-astiav.
package avlib

import (
	"errors"
	"fmt"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/user/keysnap/pkg/ports"
)

var (
	// ErrUnknownFormat is returned when a container format name has no muxer.
	ErrUnknownFormat = errors.New("avlib: unknown container format")

	// ErrUnsupportedPixelFormat is returned for pixel formats without a mapping.
	ErrUnsupportedPixelFormat = errors.New("avlib: unsupported pixel format")

	// ErrForeignValue is returned when a port value was not created by this package.
	ErrForeignValue = errors.New("avlib: value not created by avlib")
)

// muxers maps logical container names to libavformat muxer names.
// "m4v" is the extension registered by the ipod muxer.
var muxers = map[string]string{
	"m4v": "ipod",
	"mp4": "mp4",
	"mov": "mov",
	"mkv": "matroska",
}

// Library is the FFmpeg-backed ports.MediaLibrary.
type Library struct {
	logger   ports.Logger
	initOnce sync.Once
}

// New creates a new Library.
func New(logger ports.Logger) *Library {
	return &Library{
		logger: logger.WithComponent("avlib"),
	}
}

// Init sets up process-wide library state. It is safe to call more than once.
func (l *Library) Init() error {
	l.initOnce.Do(func() {
		// No explicit network setup: FFmpeg initializes its network layer
		// itself the first time a URL input is opened.
		astiav.SetLogLevel(astiav.LogLevelError)
		l.logger.Debug("FFmpeg libraries initialized")
	})
	return nil
}

// OpenInput opens a container by path or URL and reads its stream info.
func (l *Library) OpenInput(url string) (ports.InputContext, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("avlib: allocating format context failed")
	}

	if err := fc.OpenInput(url, nil, nil); err != nil {
		fc.Free()
		return nil, fmt.Errorf("open %s: %w", url, err)
	}

	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("find stream info: %w", err)
	}

	l.logger.Debug("Opened %s with %d streams", url, len(fc.Streams()))
	return &InputContext{
		fc:     fc,
		pkt:    &Packet{p: astiav.AllocPacket()},
		logger: l.logger,
	}, nil
}

// FindEncoder reports whether an encoder for codec is available.
func (l *Library) FindEncoder(codec ports.CodecID) error {
	id, err := codecID(codec)
	if err != nil {
		return err
	}
	if astiav.FindEncoder(id) == nil {
		return fmt.Errorf("%w: %s", ports.ErrEncoderNotFound, codec)
	}
	return nil
}

// OpenOutput creates a container at path for the logical format name.
func (l *Library) OpenOutput(path, format string) (ports.OutputContext, error) {
	muxer, ok := muxers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	fc, err := astiav.AllocOutputFormatContext(nil, muxer, path)
	if err != nil {
		return nil, fmt.Errorf("allocate %s output: %w", muxer, err)
	}
	if fc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	out := &OutputContext{
		fc:       fc,
		path:     path,
		encoders: make(map[int]*Encoder),
		logger:   l.logger,
	}

	if !fc.OutputFormat().Flags().Has(astiav.IOFormatFlagNofile) {
		ioc, err := astiav.OpenIOContext(path, astiav.NewIOContextFlags(astiav.IOContextFlagWrite), nil, nil)
		if err != nil {
			fc.Free()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		fc.SetPb(ioc)
		out.ioc = ioc
	}

	l.logger.Debug("Opened output %s (%s muxer)", path, muxer)
	return out, nil
}

// NewFrame allocates an empty frame.
func (l *Library) NewFrame() (ports.Frame, error) {
	f := astiav.AllocFrame()
	if f == nil {
		return nil, errors.New("avlib: allocating frame failed")
	}
	return &Frame{f: f}, nil
}

// NewConverter creates a same-size converter from src's layout to dst.
func (l *Library) NewConverter(src ports.Frame, dst ports.PixelFormat) (ports.Converter, error) {
	sf, ok := src.(*Frame)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignValue, src)
	}
	dstFormat, err := pixelFormat(dst)
	if err != nil {
		return nil, err
	}

	w, h := sf.f.Width(), sf.f.Height()
	ssc, err := astiav.CreateSoftwareScaleContext(
		w, h, sf.f.PixelFormat(),
		w, h, dstFormat,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		return nil, fmt.Errorf("create scale context: %w", err)
	}

	return &Converter{
		ssc:    ssc,
		width:  w,
		height: h,
		format: dstFormat,
	}, nil
}

var _ ports.MediaLibrary = (*Library)(nil)
