package config

import (
	"strings"
	"testing"

	"github.com/user/keysnap/pkg/ports"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.PacketLimit != 500 {
		t.Errorf("expected packet limit 500, got %d", cfg.PacketLimit)
	}
	if cfg.Codec != ports.CodecH264 {
		t.Errorf("expected codec h264, got %s", cfg.Codec)
	}
	if cfg.PixelFormat != ports.PixelFormatYUV422P {
		t.Errorf("expected yuv422p, got %s", cfg.PixelFormat)
	}
	if cfg.BitRate != 64000 {
		t.Errorf("expected bit rate 64000, got %d", cfg.BitRate)
	}
	if cfg.ContainerFormat != "m4v" || cfg.OutputName != "out.m4v" {
		t.Errorf("expected m4v output out.m4v, got %s %s", cfg.ContainerFormat, cfg.OutputName)
	}
	if cfg.SnapshotFormat != ports.PixelFormatRGB24 {
		t.Errorf("expected rgb24 snapshots, got %s", cfg.SnapshotFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero packet limit", func(c *Config) { c.PacketLimit = 0 }, "packet limit"},
		{"negative bit rate", func(c *Config) { c.BitRate = -1 }, "bit rate"},
		{"no codec", func(c *Config) { c.Codec = "" }, "codec is required"},
		{"no pixel format", func(c *Config) { c.PixelFormat = "" }, "pixel formats"},
		{"no container", func(c *Config) { c.ContainerFormat = "" }, "container format"},
		{"quality too high", func(c *Config) { c.JPEGQuality = 101 }, "JPEG quality"},
		{"no columns", func(c *Config) { c.ContactColumns = 0 }, "contact sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.PacketLimit = 0
	cfg.BitRate = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "packet limit") || !strings.Contains(err.Error(), "bit rate") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}
