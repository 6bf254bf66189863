package avlib

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/keysnap/pkg/ports"
)

// Frame wraps an FFmpeg frame.
type Frame struct {
	f *astiav.Frame
}

func (f *Frame) Width() int { return f.f.Width() }

func (f *Frame) Height() int { return f.f.Height() }

func (f *Frame) PixelFormat() ports.PixelFormat { return portPixelFormat(f.f.PixelFormat()) }

func (f *Frame) Pts() (int64, bool) { return timestamp(f.f.Pts()) }

func (f *Frame) SetPts(pts int64) { f.f.SetPts(pts) }

func (f *Frame) DecodeTimestamp() (int64, bool) { return timestamp(f.f.PktDts()) }

// Bytes copies the picture planes into one buffer without row padding.
func (f *Frame) Bytes() ([]byte, error) {
	b, err := f.f.Data().Bytes(1)
	if err != nil {
		return nil, fmt.Errorf("copy frame data: %w", err)
	}
	return b, nil
}

func (f *Frame) Close() {
	if f.f != nil {
		f.f.Free()
		f.f = nil
	}
}

var _ ports.Frame = (*Frame)(nil)

// Converter changes the pixel layout of frames without resizing.
type Converter struct {
	ssc    *astiav.SoftwareScaleContext
	width  int
	height int
	format astiav.PixelFormat
}

// Run converts src into dst, allocating dst's buffers.
func (c *Converter) Run(src, dst ports.Frame) error {
	sf, ok := src.(*Frame)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignValue, src)
	}
	df, ok := dst.(*Frame)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignValue, dst)
	}

	df.f.Unref()
	df.f.SetWidth(c.width)
	df.f.SetHeight(c.height)
	df.f.SetPixelFormat(c.format)
	if err := df.f.AllocBuffer(0); err != nil {
		return fmt.Errorf("allocate %s buffer: %w", c.format, err)
	}

	if err := c.ssc.ScaleFrame(sf.f, df.f); err != nil {
		return fmt.Errorf("scale frame: %w", err)
	}
	return nil
}

func (c *Converter) Close() {
	if c.ssc != nil {
		c.ssc.Free()
		c.ssc = nil
	}
}

var _ ports.Converter = (*Converter)(nil)
