package avlib

import (
	"fmt"
	"math"

	"github.com/asticode/go-astiav"
	"github.com/user/keysnap/pkg/ports"
)

// noPTS is FFmpeg's AV_NOPTS_VALUE.
const noPTS int64 = math.MinInt64

var pixelFormats = map[ports.PixelFormat]astiav.PixelFormat{
	ports.PixelFormatRGB24:   astiav.PixelFormatRgb24,
	ports.PixelFormatYUV422P: astiav.PixelFormatYuv422P,
	ports.PixelFormatYUV420P: astiav.PixelFormatYuv420P,
}

var codecIDs = map[ports.CodecID]astiav.CodecID{
	ports.CodecH264: astiav.CodecIDH264,
}

func pixelFormat(f ports.PixelFormat) (astiav.PixelFormat, error) {
	pf, ok := pixelFormats[f]
	if !ok {
		return astiav.PixelFormatNone, fmt.Errorf("%w: %s", ErrUnsupportedPixelFormat, f)
	}
	return pf, nil
}

// portPixelFormat names an FFmpeg pixel format. Formats without a mapping
// keep FFmpeg's own name.
func portPixelFormat(pf astiav.PixelFormat) ports.PixelFormat {
	for name, v := range pixelFormats {
		if v == pf {
			return name
		}
	}
	return ports.PixelFormat(pf.String())
}

func codecID(c ports.CodecID) (astiav.CodecID, error) {
	id, ok := codecIDs[c]
	if !ok {
		return astiav.CodecIDNone, fmt.Errorf("%w: %s", ports.ErrEncoderNotFound, c)
	}
	return id, nil
}

func mediaType(t ports.MediaType) astiav.MediaType {
	switch t {
	case ports.MediaTypeVideo:
		return astiav.MediaTypeVideo
	case ports.MediaTypeAudio:
		return astiav.MediaTypeAudio
	case ports.MediaTypeSubtitle:
		return astiav.MediaTypeSubtitle
	default:
		return astiav.MediaTypeUnknown
	}
}

func portMediaType(t astiav.MediaType) ports.MediaType {
	switch t {
	case astiav.MediaTypeVideo:
		return ports.MediaTypeVideo
	case astiav.MediaTypeAudio:
		return ports.MediaTypeAudio
	case astiav.MediaTypeSubtitle:
		return ports.MediaTypeSubtitle
	default:
		return ports.MediaTypeUnknown
	}
}

func rational(r ports.Rational) astiav.Rational {
	return astiav.NewRational(r.Num, r.Den)
}

func portRational(r astiav.Rational) ports.Rational {
	return ports.Rational{Num: r.Num(), Den: r.Den()}
}

// streamInfo describes s for the ports layer.
func streamInfo(s *astiav.Stream) ports.StreamInfo {
	cp := s.CodecParameters()
	return ports.StreamInfo{
		Index:    s.Index(),
		Type:     portMediaType(cp.MediaType()),
		Codec:    cp.CodecID().Name(),
		Width:    cp.Width(),
		Height:   cp.Height(),
		TimeBase: portRational(s.TimeBase()),
	}
}

// timestamp converts an FFmpeg timestamp, reporting whether it is set.
func timestamp(ts int64) (int64, bool) {
	if ts == noPTS {
		return 0, false
	}
	return ts, true
}
