// Package config provides the pipeline settings.
package config

import (
	"errors"
	"fmt"

	"github.com/user/keysnap/pkg/ports"
)

// Config holds the fixed settings of a keysnap run.
type Config struct {
	// Packet iteration
	PacketLimit int // Admitted packet cap in transcode mode

	// Re-encode
	Codec           ports.CodecID
	PixelFormat     ports.PixelFormat
	BitRate         int64  // bits per second
	ContainerFormat string // Logical container format name
	OutputName      string // File name of the re-encoded video inside the output directory

	// Snapshots
	SnapshotFormat ports.PixelFormat
	JPEGQuality    int
	ContactColumns int // Contact sheet columns (debug only)
	ThumbnailWidth int // Contact sheet cell width (debug only)
}

// Defaults returns the settings every run uses.
func Defaults() Config {
	return Config{
		PacketLimit: 500,

		Codec:           ports.CodecH264,
		PixelFormat:     ports.PixelFormatYUV422P,
		BitRate:         64000,
		ContainerFormat: "m4v",
		OutputName:      "out.m4v",

		SnapshotFormat: ports.PixelFormatRGB24,
		JPEGQuality:    75,
		ContactColumns: 4,
		ThumbnailWidth: 240,
	}
}

// Validate checks that the settings can drive a run.
func (c Config) Validate() error {
	var errs []error
	if c.PacketLimit <= 0 {
		errs = append(errs, fmt.Errorf("packet limit must be positive, got %d", c.PacketLimit))
	}
	if c.BitRate <= 0 {
		errs = append(errs, fmt.Errorf("bit rate must be positive, got %d", c.BitRate))
	}
	if c.Codec == "" {
		errs = append(errs, errors.New("codec is required"))
	}
	if c.PixelFormat == "" || c.SnapshotFormat == "" {
		errs = append(errs, errors.New("pixel formats are required"))
	}
	if c.ContainerFormat == "" || c.OutputName == "" {
		errs = append(errs, errors.New("container format and output name are required"))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("JPEG quality must be in 1-100, got %d", c.JPEGQuality))
	}
	if c.ContactColumns < 1 || c.ThumbnailWidth < 1 {
		errs = append(errs, errors.New("contact sheet geometry must be positive"))
	}
	return errors.Join(errs...)
}
