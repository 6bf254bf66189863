// Package m4vprobe reads back MP4-family containers written by the pipeline.
package m4vprobe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/keysnap/pkg/ports"
)

// ErrNoTracks is returned when a container has no moov box.
var ErrNoTracks = errors.New("m4vprobe: no tracks found")

// Probe implements ports.ContainerProbe with mp4ff.
type Probe struct{}

// New creates a new Probe.
func New() *Probe {
	return &Probe{}
}

// Probe parses the file at path.
func (p *Probe) Probe(path string) (ports.ContainerSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.ContainerSummary{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	summary, err := FromReader(f)
	if err != nil {
		return summary, err
	}

	if info, err := f.Stat(); err == nil {
		summary.Size = info.Size()
	}
	return summary, nil
}

// FromReader parses a container from reader.
func FromReader(reader io.ReadSeeker) (ports.ContainerSummary, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return ports.ContainerSummary{}, fmt.Errorf("decode mp4: %w", err)
	}

	summary := ports.ContainerSummary{
		MajorBrand: majorBrand(mp4File),
		Fragmented: mp4File.IsFragmented(),
	}

	if summary.Fragmented {
		if mp4File.Init == nil || mp4File.Init.Moov == nil {
			return summary, ErrNoTracks
		}
		summary.Tracks = fragmentedTracks(mp4File)
		return summary, nil
	}

	if mp4File.Moov == nil {
		return summary, ErrNoTracks
	}
	for _, trak := range mp4File.Moov.Traks {
		summary.Tracks = append(summary.Tracks, progressiveTrack(trak))
	}
	return summary, nil
}

func majorBrand(f *mp4.File) string {
	if f.Ftyp != nil {
		return f.Ftyp.MajorBrand()
	}
	if f.Init != nil && f.Init.Ftyp != nil {
		return f.Init.Ftyp.MajorBrand()
	}
	return ""
}

// describeTrack fills the fields found in the track header and sample description.
func describeTrack(trak *mp4.TrakBox) ports.TrackSummary {
	t := ports.TrackSummary{}
	if trak.Tkhd != nil {
		t.ID = trak.Tkhd.TrackID
	}
	if trak.Mdia == nil {
		return t
	}
	if trak.Mdia.Hdlr != nil {
		t.Handler = trak.Mdia.Hdlr.HandlerType
	}
	if trak.Mdia.Mdhd != nil {
		t.Timescale = trak.Mdia.Mdhd.Timescale
		t.Duration = trak.Mdia.Mdhd.Duration
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return t
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		t.Codec = child.Type()
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			t.Width = int(vse.Width)
			t.Height = int(vse.Height)
		}
		break
	}
	return t
}

func progressiveTrack(trak *mp4.TrakBox) ports.TrackSummary {
	t := describeTrack(trak)
	if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return t
	}
	stbl := trak.Mdia.Minf.Stbl

	if stbl.Stsz != nil {
		t.Samples = int(stbl.Stsz.SampleNumber)
	}
	// Without stss every sample is a sync sample
	if stbl.Stss != nil {
		t.SyncSamples = len(stbl.Stss.SampleNumber)
	} else {
		t.SyncSamples = t.Samples
	}
	return t
}

func fragmentedTracks(mp4File *mp4.File) []ports.TrackSummary {
	moov := mp4File.Init.Moov

	var tracks []ports.TrackSummary
	for _, trak := range moov.Traks {
		t := describeTrack(trak)

		var trex *mp4.TrexBox
		if moov.Mvex != nil {
			for _, tr := range moov.Mvex.Trexs {
				if tr.TrackID == t.ID {
					trex = tr
					break
				}
			}
		}

		var duration uint64
		for _, seg := range mp4File.Segments {
			for _, frag := range seg.Fragments {
				if frag.Moof == nil || !hasTrack(frag.Moof, t.ID) {
					continue
				}
				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					continue
				}
				for _, s := range samples {
					t.Samples++
					if s.IsSync() {
						t.SyncSamples++
					}
					duration += uint64(s.Dur)
				}
			}
		}
		if duration > 0 {
			t.Duration = duration
		}
		tracks = append(tracks, t)
	}
	return tracks
}

func hasTrack(moof *mp4.MoofBox, trackID uint32) bool {
	for _, traf := range moof.Trafs {
		if traf.Tfhd != nil && traf.Tfhd.TrackID == trackID {
			return true
		}
	}
	return false
}

var _ ports.ContainerProbe = (*Probe)(nil)
