package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/keysnap/pkg/ports"
)

// EncodeCall records a call to Renderer.EncodeImage.
type EncodeCall struct {
	Bounds  image.Rectangle
	Format  ports.ImageFormat
	Quality int
}

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	mu sync.Mutex

	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	// Recorded calls for verification
	Canvases []*Canvas
	Encoded  []EncodeCall
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{Width: width, Height: height}
	m.mu.Lock()
	m.Canvases = append(m.Canvases, c)
	m.mu.Unlock()
	return c
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.mu.Lock()
	m.Encoded = append(m.Encoded, EncodeCall{Bounds: img.Bounds(), Format: format, Quality: quality})
	m.mu.Unlock()
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// DrawCall records a call to Canvas.DrawImage.
type DrawCall struct {
	X      int
	Y      int
	Bounds image.Rectangle
}

// Canvas is a mock implementation of ports.Canvas.
type Canvas struct {
	Width  int
	Height int

	// Recorded calls for verification
	Draws []DrawCall
	Texts []string
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	m.Draws = append(m.Draws, DrawCall{X: x, Y: y, Bounds: img.Bounds()})
}

func (m *Canvas) DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64) {}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, text)
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
}

var _ ports.Canvas = (*Canvas)(nil)
