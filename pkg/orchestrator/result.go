package orchestrator

import (
	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
)

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	Mode      pipeline.Mode
	InputURL  string
	OutputDir string

	// Every stream of the input, and the one selected
	Streams []ports.StreamInfo
	Stream  ports.StreamInfo

	// Counters
	Filter pipeline.FilterStats
	Decode pipeline.DecodeStats

	// Outputs
	Snapshots []pipeline.SnapshotResult // Thumbnail is only set in debug mode
	Transcode *pipeline.TranscodeResult // nil in extract-only mode

	// Debug only
	ContactSheetRows int
	Probe            *ports.ContainerSummary
}

// SnapshotPaths returns the written still paths in extraction order.
func (r RunResult) SnapshotPaths() []string {
	paths := make([]string, len(r.Snapshots))
	for i, s := range r.Snapshots {
		paths[i] = s.Path
	}
	return paths
}
