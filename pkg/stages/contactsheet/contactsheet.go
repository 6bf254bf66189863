// Package contactsheet implements the keyframe overview stage.
package contactsheet

import (
	"context"
	"fmt"
	"image/color"
	"runtime"
	"strconv"
	"sync"

	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
)

// Sheet geometry in pixels.
const (
	padding       = 8
	captionHeight = 20
)

// Theme colors.
var (
	backgroundColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	borderColor     = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
	captionColor    = color.White
)

// Stage downscales snapshots and lays them out in a captioned grid.
type Stage struct {
	renderer   ports.Renderer
	sink       ports.DebugSink
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new contact sheet stage.
func NewStage(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		sink:       sink,
		logger:     logger.WithComponent("contactsheet"),
		numWorkers: numWorkers,
	}
}

// Execute builds the sheet and saves it to the debug sink when enabled.
func (s *Stage) Execute(ctx context.Context, input pipeline.ContactSheetInput) (pipeline.ContactSheetResult, error) {
	if len(input.Thumbnails) == 0 {
		return pipeline.ContactSheetResult{}, nil
	}
	if input.Columns <= 0 || input.CellWidth <= 0 {
		return pipeline.ContactSheetResult{}, fmt.Errorf("invalid contact sheet geometry: %d columns of %d px", input.Columns, input.CellWidth)
	}

	s.logger.Debug("Building contact sheet of %d snapshots with %d workers", len(input.Thumbnails), s.numWorkers)

	thumbs, err := s.resizeParallel(ctx, input)
	if err != nil {
		return pipeline.ContactSheetResult{}, err
	}

	columns := input.Columns
	if len(thumbs) < columns {
		columns = len(thumbs)
	}
	rows := (len(thumbs) + columns - 1) / columns

	cellHeight := 0
	for _, th := range thumbs {
		if h := th.Image.Bounds().Dy(); h > cellHeight {
			cellHeight = h
		}
	}
	rowHeight := cellHeight + captionHeight

	width := padding + columns*(input.CellWidth+padding)
	height := padding + rows*(rowHeight+padding)
	canvas := s.renderer.CreateCanvas(width, height, backgroundColor)

	for i, th := range thumbs {
		x := padding + (i%columns)*(input.CellWidth+padding)
		y := padding + (i/columns)*(rowHeight+padding)

		canvas.DrawImage(th.Image, x, y)
		canvas.DrawRectStroke(x, y, input.CellWidth, cellHeight, borderColor, 1)
		canvas.DrawText(strconv.FormatInt(th.Timestamp, 10), x+input.CellWidth/2, y+cellHeight+captionHeight/2, ports.TextStyle{
			Color: captionColor,
			Align: ports.AlignCenter,
		})
	}

	result := pipeline.ContactSheetResult{
		Image: canvas.ToImage(),
		Rows:  rows,
		Cells: len(thumbs),
	}

	if s.sink.Enabled() {
		if err := s.sink.SaveContactSheet(result.Image); err != nil {
			return result, fmt.Errorf("save contact sheet: %w", err)
		}
	}

	s.logger.Debug("Contact sheet built: %dx%d, %d rows", width, height, rows)
	return result, nil
}

// indexedThumbnail holds a thumbnail with its original index.
type indexedThumbnail struct {
	index int
	thumb pipeline.Thumbnail
}

// resizeParallel downscales every snapshot using a worker pool, preserving order.
func (s *Stage) resizeParallel(ctx context.Context, input pipeline.ContactSheetInput) ([]pipeline.Thumbnail, error) {
	n := len(input.Thumbnails)
	jobs := make(chan int, n)
	results := make(chan indexedThumbnail, n)
	errChan := make(chan error, s.numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, input, jobs, results, errChan)
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	thumbs := make([]pipeline.Thumbnail, n)
	received := 0
	for r := range results {
		thumbs[r.index] = r.thumb
		received++
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if received != n {
		return nil, fmt.Errorf("resized %d of %d snapshots", received, n)
	}
	return thumbs, nil
}

func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	input pipeline.ContactSheetInput,
	jobs <-chan int,
	results chan<- indexedThumbnail,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		src := input.Thumbnails[idx]
		img, err := pipeline.ScaleToWidth(s.renderer, src.Image, input.CellWidth)
		if err != nil {
			select {
			case errChan <- fmt.Errorf("resize snapshot %d: %w", src.Timestamp, err):
			default:
			}
			return
		}

		results <- indexedThumbnail{index: idx, thumb: pipeline.Thumbnail{Timestamp: src.Timestamp, Image: img}}
	}
}
