package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/user/keysnap/pkg/ports"
)

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 60, color.White)
	img := canvas.ToImage()
	bounds := img.Bounds()

	if bounds.Dx() != 100 || bounds.Dy() != 60 {
		t.Errorf("expected 100x60, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	red, green, blue, _ := img.At(50, 30).RGBA()
	if red != 0xffff || green != 0xffff || blue != 0xffff {
		t.Errorf("expected white background, got %v", img.At(50, 30))
	}
}

func TestRenderer_EncodeJPEG(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	data, err := r.EncodeImage(img, ports.FormatJPEG, 75)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("expected JPEG SOI marker")
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	red, green, _, _ := decoded.At(32, 24).RGBA()
	if red>>8 < 200 || green>>8 > 60 {
		t.Errorf("expected a red pixel, got %v", decoded.At(32, 24))
	}
}

func TestRenderer_EncodeJPEG_QualityRange(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	for _, q := range []int{0, 101} {
		if _, err := r.EncodeImage(img, ports.FormatJPEG, q); err == nil {
			t.Errorf("expected error for quality %d", q)
		}
	}
}

func TestRenderer_EncodePNG(t *testing.T) {
	r := New()

	data, err := r.EncodeImage(image.NewRGBA(image.Rect(0, 0, 30, 20)), ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 20 {
		t.Errorf("expected 30x20, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRenderer_EncodeUnsupported(t *testing.T) {
	r := New()
	if _, err := r.EncodeImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), ports.ImageFormat(99), 75); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 640, 360))
	dst := r.ResizeImage(src, 160, 90)

	if b := dst.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
		t.Errorf("expected 160x90, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestCanvas_DrawImage(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(20, 20, color.Black)

	patch := image.NewRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			patch.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	canvas.DrawImage(patch, 10, 10)
	canvas.DrawRectStroke(0, 0, 20, 20, color.White, 1)
	canvas.DrawText("42", 10, 5, ports.TextStyle{Color: color.White, Align: ports.AlignCenter})

	img := canvas.ToImage()
	_, green, _, _ := img.At(12, 12).RGBA()
	if green != 0xffff {
		t.Errorf("expected green pixel inside the drawn patch, got %v", img.At(12, 12))
	}
	red, _, _, _ := img.At(4, 17).RGBA()
	if red != 0 {
		t.Errorf("expected untouched background outside the patch, got %v", img.At(4, 17))
	}
}
