package avlib

import (
	"errors"
	"math"
	"testing"

	"github.com/user/keysnap/pkg/adapters/logger"
	"github.com/user/keysnap/pkg/ports"
)

func TestTimestamp(t *testing.T) {
	if _, ok := timestamp(math.MinInt64); ok {
		t.Error("expected AV_NOPTS_VALUE to be reported as unset")
	}
	if ts, ok := timestamp(0); !ok || ts != 0 {
		t.Errorf("expected 0 to be a valid timestamp, got %d %v", ts, ok)
	}
	if ts, ok := timestamp(-1024); !ok || ts != -1024 {
		t.Errorf("expected negative timestamps to be kept, got %d %v", ts, ok)
	}
}

func TestPixelFormat_Unsupported(t *testing.T) {
	if _, err := pixelFormat("nv12"); !errors.Is(err, ErrUnsupportedPixelFormat) {
		t.Errorf("expected ErrUnsupportedPixelFormat, got %v", err)
	}
}

func TestPixelFormat_RoundTrip(t *testing.T) {
	for _, f := range []ports.PixelFormat{ports.PixelFormatRGB24, ports.PixelFormatYUV422P, ports.PixelFormatYUV420P} {
		pf, err := pixelFormat(f)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", f, err)
		}
		if got := portPixelFormat(pf); got != f {
			t.Errorf("expected %s, got %s", f, got)
		}
	}
}

func TestCodecID_Unknown(t *testing.T) {
	if _, err := codecID("vp9"); !errors.Is(err, ports.ErrEncoderNotFound) {
		t.Errorf("expected ErrEncoderNotFound, got %v", err)
	}
}

func TestOpenOutput_UnknownFormat(t *testing.T) {
	lib := New(logger.NewNoop())
	if _, err := lib.OpenOutput("out.avi", "avi"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestMuxers(t *testing.T) {
	if muxers["m4v"] != "ipod" {
		t.Errorf("expected m4v to use the ipod muxer, got %q", muxers["m4v"])
	}
}
