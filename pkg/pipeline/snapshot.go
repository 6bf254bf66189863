package pipeline

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strconv"

	"github.com/user/keysnap/pkg/ports"
)

// ErrNoTimestamp is returned when a frame carries neither a presentation
// nor a decode timestamp.
var ErrNoTimestamp = errors.New("pipeline: frame has no timestamp")

// ResolveTimestamp returns the frame's presentation timestamp, falling back
// to its decode-order timestamp.
func ResolveTimestamp(frame ports.Frame) (int64, error) {
	if pts, ok := frame.Pts(); ok {
		return pts, nil
	}
	if dts, ok := frame.DecodeTimestamp(); ok {
		return dts, nil
	}
	return 0, ErrNoTimestamp
}

// SnapshotPath returns <dir>/<timestamp>.jpg.
func SnapshotPath(dir string, timestamp int64) string {
	return filepath.Join(dir, strconv.FormatInt(timestamp, 10)+".jpg")
}

// RGBImage copies packed 8-bit RGB data into an opaque RGBA image.
func RGBImage(data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	stride := width * 3
	if len(data) < stride*height {
		return nil, fmt.Errorf("RGB buffer too short: %d bytes for %dx%d", len(data), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := data[y*stride : (y+1)*stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img, nil
}

// ScaleToWidth resizes img to width with the renderer, keeping its aspect ratio.
func ScaleToWidth(r ports.Renderer, img image.Image, width int) (image.Image, error) {
	if img == nil {
		return nil, errors.New("missing image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("empty image")
	}
	if width <= 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	return r.ResizeImage(img, width, height), nil
}
