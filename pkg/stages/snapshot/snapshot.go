// Package snapshot implements the keyframe still extraction stage.
package snapshot

import (
	"context"
	"fmt"

	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
)

// Stage writes a decoded frame as <dir>/<timestamp>.jpg.
type Stage struct {
	lib      ports.MediaLibrary
	renderer ports.Renderer
	fs       ports.FileSystem
	logger   ports.Logger
	format   ports.PixelFormat
	quality  int
}

// NewStage creates a new snapshot stage. Frames are converted to format,
// which must be a packed 8-bit RGB layout, and encoded at the given JPEG quality.
func NewStage(lib ports.MediaLibrary, renderer ports.Renderer, fs ports.FileSystem, logger ports.Logger, format ports.PixelFormat, quality int) *Stage {
	return &Stage{
		lib:      lib,
		renderer: renderer,
		fs:       fs,
		logger:   logger.WithComponent("snapshot"),
		format:   format,
		quality:  quality,
	}
}

// Execute converts the frame, encodes it as JPEG and writes it.
// The full-size picture is not kept; only the optional thumbnail is returned.
// Every failure is returned.
func (s *Stage) Execute(ctx context.Context, input pipeline.SnapshotInput) (pipeline.SnapshotResult, error) {
	result := pipeline.SnapshotResult{}

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	default:
	}

	ts, err := pipeline.ResolveTimestamp(input.Frame)
	if err != nil {
		return result, err
	}

	rgb, err := s.convert(input.Frame)
	if err != nil {
		return result, err
	}
	defer rgb.Close()

	data, err := rgb.Bytes()
	if err != nil {
		return result, fmt.Errorf("read %s picture: %w", s.format, err)
	}

	img, err := pipeline.RGBImage(data, rgb.Width(), rgb.Height())
	if err != nil {
		return result, err
	}

	jpg, err := s.renderer.EncodeImage(img, ports.FormatJPEG, s.quality)
	if err != nil {
		return result, fmt.Errorf("encode JPEG at %d: %w", ts, err)
	}

	path := pipeline.SnapshotPath(input.OutputDir, ts)
	if err := s.fs.WriteFile(path, jpg); err != nil {
		return result, fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.Debug("Snapshot saved: %s (%dx%d, %d bytes)", path, img.Rect.Dx(), img.Rect.Dy(), len(jpg))

	result.Path = path
	result.Timestamp = ts
	result.Width = img.Rect.Dx()
	result.Height = img.Rect.Dy()
	result.FileSize = int64(len(jpg))

	if input.ThumbnailWidth > 0 {
		thumb, err := pipeline.ScaleToWidth(s.renderer, img, input.ThumbnailWidth)
		if err != nil {
			return result, fmt.Errorf("thumbnail %d: %w", ts, err)
		}
		result.Thumbnail = thumb
	}
	return result, nil
}

// convert returns a new frame holding frame in the snapshot pixel format.
func (s *Stage) convert(frame ports.Frame) (ports.Frame, error) {
	dst, err := s.lib.NewFrame()
	if err != nil {
		return nil, fmt.Errorf("allocate %s frame: %w", s.format, err)
	}

	conv, err := s.lib.NewConverter(frame, s.format)
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("create %s -> %s converter: %w", frame.PixelFormat(), s.format, err)
	}
	defer conv.Close()

	if err := conv.Run(frame, dst); err != nil {
		dst.Close()
		return nil, fmt.Errorf("convert frame to %s: %w", s.format, err)
	}
	return dst, nil
}
