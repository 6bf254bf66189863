package ports

import (
	"image"
)

// DebugSink abstracts debug output for a pipeline run.
// Debug files never go to the snapshot output directory.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveReport saves a formatted run report under the given file name.
	SaveReport(name string, data []byte) error

	// SaveContactSheet saves the keyframe overview image.
	SaveContactSheet(img image.Image) error
}
