package mocks

import "github.com/user/keysnap/pkg/ports"

// ContainerProbe is a mock implementation of ports.ContainerProbe.
type ContainerProbe struct {
	ProbeFunc func(path string) (ports.ContainerSummary, error)

	// Recorded calls for verification
	Paths []string
}

func (m *ContainerProbe) Probe(path string) (ports.ContainerSummary, error) {
	m.Paths = append(m.Paths, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return ports.ContainerSummary{
		MajorBrand: "M4V ",
		Tracks:     []ports.TrackSummary{{ID: 1, Handler: "vide", Codec: "avc1"}},
	}, nil
}

var _ ports.ContainerProbe = (*ContainerProbe)(nil)
