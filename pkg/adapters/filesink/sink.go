// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/keysnap/pkg/ports"
)

// ContactSheetName is the file name of the saved contact sheet.
const ContactSheetName = "contact-sheet.png"

// Sink saves debug output to files under a base directory.
// The directory is created on first write.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveReport saves a formatted run report.
func (s *Sink) SaveReport(name string, data []byte) error {
	return s.write(name, data)
}

// SaveContactSheet saves the keyframe overview as PNG.
func (s *Sink) SaveContactSheet(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode contact sheet: %w", err)
	}
	return s.write(ContactSheetName, data)
}

// Dir returns the base directory.
func (s *Sink) Dir() string {
	return s.baseDir
}

func (s *Sink) write(name string, data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
