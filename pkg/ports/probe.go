package ports

// TrackSummary describes one track of a written container.
type TrackSummary struct {
	ID          uint32
	Handler     string // "vide", "soun", ...
	Codec       string // Sample entry type, e.g. "avc1"
	Width       int
	Height      int
	Timescale   uint32
	Samples     int
	SyncSamples int
	Duration    uint64 // In track timescale units
}

// ContainerSummary describes a written container file.
type ContainerSummary struct {
	MajorBrand string
	Fragmented bool
	Size       int64
	Tracks     []TrackSummary
}

// ContainerProbe reads back a container written by the pipeline.
type ContainerProbe interface {
	Probe(path string) (ContainerSummary, error)
}
