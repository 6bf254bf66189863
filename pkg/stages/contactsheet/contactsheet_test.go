package contactsheet

import (
	"context"
	"image"
	"testing"

	"github.com/user/keysnap/pkg/adapters/logger"
	"github.com/user/keysnap/pkg/mocks"
	"github.com/user/keysnap/pkg/pipeline"
)

func thumbnails(n int) []pipeline.Thumbnail {
	out := make([]pipeline.Thumbnail, n)
	for i := range out {
		out[i] = pipeline.Thumbnail{
			Timestamp: int64(i * 100),
			Image:     image.NewRGBA(image.Rect(0, 0, 640, 360)),
		}
	}
	return out
}

func TestStage_Execute(t *testing.T) {
	renderer := &mocks.Renderer{}
	sink := mocks.NewDebugSink(true)
	stage := NewStage(renderer, sink, logger.NewNoop(), 2)

	result, err := stage.Execute(context.Background(), pipeline.ContactSheetInput{
		Thumbnails: thumbnails(5),
		Columns:    4,
		CellWidth:  160,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Rows != 2 || result.Cells != 5 {
		t.Errorf("expected 2 rows of 5 cells, got %d rows of %d", result.Rows, result.Cells)
	}

	// 4 columns of 160 px, 2 rows of 90 px pictures plus captions
	wantW := padding + 4*(160+padding)
	wantH := padding + 2*(90+captionHeight+padding)
	if b := result.Image.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("expected %dx%d sheet, got %dx%d", wantW, wantH, b.Dx(), b.Dy())
	}

	canvas := renderer.Canvases[0]
	if len(canvas.Draws) != 5 {
		t.Fatalf("expected 5 thumbnails drawn, got %d", len(canvas.Draws))
	}
	// Order is preserved across workers
	for i, text := range canvas.Texts {
		want := []string{"0", "100", "200", "300", "400"}[i]
		if text != want {
			t.Errorf("caption %d: expected %s, got %s", i, want, text)
		}
	}
	second := canvas.Draws[4]
	if second.X != padding || second.Y != padding+90+captionHeight+padding {
		t.Errorf("expected fifth cell at the start of row 2, got (%d,%d)", second.X, second.Y)
	}
	for _, d := range canvas.Draws {
		if d.Bounds.Dx() != 160 || d.Bounds.Dy() != 90 {
			t.Errorf("expected 160x90 thumbnail, got %v", d.Bounds)
		}
	}

	if sink.ContactSheet == nil {
		t.Error("expected contact sheet saved to the debug sink")
	}
}

func TestStage_Execute_FewerThanColumns(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := NewStage(renderer, mocks.NewDebugSink(false), logger.NewNoop(), 0)

	result, err := stage.Execute(context.Background(), pipeline.ContactSheetInput{
		Thumbnails: thumbnails(2),
		Columns:    4,
		CellWidth:  100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rows != 1 {
		t.Errorf("expected 1 row, got %d", result.Rows)
	}
	if b := result.Image.Bounds(); b.Dx() != padding+2*(100+padding) {
		t.Errorf("expected sheet narrowed to 2 columns, got width %d", b.Dx())
	}
}

func TestStage_Execute_Empty(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	stage := NewStage(&mocks.Renderer{}, sink, logger.NewNoop(), 2)

	result, err := stage.Execute(context.Background(), pipeline.ContactSheetInput{Columns: 4, CellWidth: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Image != nil {
		t.Error("expected no image for an empty input")
	}
	if sink.ContactSheet != nil {
		t.Error("expected nothing saved for an empty input")
	}
}

func TestStage_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stage := NewStage(&mocks.Renderer{}, mocks.NewDebugSink(false), logger.NewNoop(), 2)
	_, err := stage.Execute(ctx, pipeline.ContactSheetInput{Thumbnails: thumbnails(3), Columns: 2, CellWidth: 64})
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}
