package snapshot

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/keysnap/pkg/adapters/logger"
	"github.com/user/keysnap/pkg/mocks"
	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
)

func newStage(lib *mocks.MediaLibrary, renderer *mocks.Renderer, fs *mocks.FileSystem) *Stage {
	return NewStage(lib, renderer, fs, logger.NewNoop(), ports.PixelFormatRGB24, 75)
}

func TestStage_Execute(t *testing.T) {
	lib := &mocks.MediaLibrary{}
	renderer := &mocks.Renderer{}
	fs := mocks.NewFileSystem()
	stage := newStage(lib, renderer, fs)

	frame := &mocks.Frame{W: 64, H: 48, Format: ports.PixelFormatYUV420P, PTS: 3600, HasPTS: true}
	result, err := stage.Execute(context.Background(), pipeline.SnapshotInput{Frame: frame, OutputDir: "out"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPath := filepath.Join("out", "3600.jpg")
	if result.Path != wantPath {
		t.Errorf("expected path %s, got %s", wantPath, result.Path)
	}
	if _, ok := fs.GetFile(wantPath); !ok {
		t.Errorf("expected %s to be written", wantPath)
	}
	if result.Width != 64 || result.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", result.Width, result.Height)
	}
	if result.FileSize != 4 {
		t.Errorf("expected file size 4, got %d", result.FileSize)
	}

	if len(renderer.Encoded) != 1 {
		t.Fatalf("expected 1 encode call, got %d", len(renderer.Encoded))
	}
	enc := renderer.Encoded[0]
	if enc.Format != ports.FormatJPEG || enc.Quality != 75 {
		t.Errorf("expected JPEG quality 75, got %s quality %d", enc.Format, enc.Quality)
	}

	if len(lib.ConvertCalls) != 1 || lib.ConvertCalls[0].To != ports.PixelFormatRGB24 {
		t.Errorf("expected one conversion to rgb24, got %+v", lib.ConvertCalls)
	}
	if lib.ConvertersOpen != 0 {
		t.Error("expected converter to be closed")
	}
	if !lib.Frames[0].Closed {
		t.Error("expected RGB frame to be released")
	}
}

func TestStage_Execute_DecodeTimestampFallback(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(&mocks.MediaLibrary{}, &mocks.Renderer{}, fs)

	frame := &mocks.Frame{W: 16, H: 16, Format: ports.PixelFormatYUV420P, DTS: 1800, HasDTS: true}
	result, err := stage.Execute(context.Background(), pipeline.SnapshotInput{Frame: frame, OutputDir: "out"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Timestamp != 1800 {
		t.Errorf("expected timestamp 1800, got %d", result.Timestamp)
	}
	if result.Path != filepath.Join("out", "1800.jpg") {
		t.Errorf("unexpected path %s", result.Path)
	}
}

func TestStage_Execute_Thumbnail(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := newStage(&mocks.MediaLibrary{}, renderer, mocks.NewFileSystem())
	ctx := context.Background()

	frame := &mocks.Frame{W: 1920, H: 1080, PTS: 0, HasPTS: true}
	result, err := stage.Execute(ctx, pipeline.SnapshotInput{Frame: frame, OutputDir: "out", ThumbnailWidth: 240})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Thumbnail == nil {
		t.Fatal("expected a thumbnail")
	}
	if got := result.Thumbnail.Bounds().Size(); got != image.Pt(240, 135) {
		t.Errorf("expected 240x135 thumbnail, got %v", got)
	}
	// The still itself is written at full size
	if result.Width != 1920 || result.Height != 1080 {
		t.Errorf("expected 1920x1080 still, got %dx%d", result.Width, result.Height)
	}
	if enc := renderer.Encoded[0]; enc.Bounds.Dx() != 1920 {
		t.Errorf("expected full-size JPEG, got %v", enc.Bounds)
	}

	result, err = stage.Execute(ctx, pipeline.SnapshotInput{Frame: frame, OutputDir: "out"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Thumbnail != nil {
		t.Error("expected no thumbnail when none is requested")
	}
}

func TestStage_Execute_SameTimestampOverwrites(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(&mocks.MediaLibrary{}, &mocks.Renderer{}, fs)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		frame := &mocks.Frame{W: 16, H: 16, PTS: 7, HasPTS: true}
		if _, err := stage.Execute(ctx, pipeline.SnapshotInput{Frame: frame, OutputDir: "out"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(fs.Written) != 2 || fs.Written[0] != fs.Written[1] {
		t.Errorf("expected two writes to the same path, got %v", fs.Written)
	}
	if len(fs.GetAllFiles()) != 1 {
		t.Errorf("expected one file, got %d", len(fs.GetAllFiles()))
	}
}

func TestStage_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		frame    *mocks.Frame
		lib      *mocks.MediaLibrary
		renderer *mocks.Renderer
		fs       *mocks.FileSystem
		wantErr  error
	}{
		{
			name:     "no timestamp",
			frame:    &mocks.Frame{W: 16, H: 16},
			lib:      &mocks.MediaLibrary{},
			renderer: &mocks.Renderer{},
			fs:       mocks.NewFileSystem(),
			wantErr:  pipeline.ErrNoTimestamp,
		},
		{
			name:  "conversion fails",
			frame: &mocks.Frame{W: 16, H: 16, HasPTS: true},
			lib: &mocks.MediaLibrary{
				ConvertFunc: func(src, dst ports.Frame) error { return errors.New("bad layout") },
			},
			renderer: &mocks.Renderer{},
			fs:       mocks.NewFileSystem(),
		},
		{
			name:  "encode fails",
			frame: &mocks.Frame{W: 16, H: 16, HasPTS: true},
			lib:   &mocks.MediaLibrary{},
			renderer: &mocks.Renderer{
				EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
					return nil, errors.New("encoder failure")
				},
			},
			fs: mocks.NewFileSystem(),
		},
		{
			name:     "write fails",
			frame:    &mocks.Frame{W: 16, H: 16, HasPTS: true},
			lib:      &mocks.MediaLibrary{},
			renderer: &mocks.Renderer{},
			fs: func() *mocks.FileSystem {
				fs := mocks.NewFileSystem()
				fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("permission denied") }
				return fs
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := newStage(tt.lib, tt.renderer, tt.fs)
			_, err := stage.Execute(context.Background(), pipeline.SnapshotInput{Frame: tt.frame, OutputDir: "out"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(tt.fs.GetAllFiles()) != 0 {
				t.Error("expected no file written")
			}
		})
	}
}
