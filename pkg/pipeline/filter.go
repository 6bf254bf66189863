package pipeline

import "github.com/user/keysnap/pkg/ports"

// Decision is the outcome of offering a packet to a PacketFilter.
type Decision int

const (
	// Skip drops the packet and continues iteration.
	Skip Decision = iota
	// Accept passes the packet to the decode loop.
	Accept
	// Stop ends iteration; the packet is not passed on.
	Stop
)

// String returns the string representation of the decision.
func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case Accept:
		return "accept"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// FilterStats counts what a PacketFilter has seen.
type FilterStats struct {
	Seen           int // Packets offered
	Admitted       int // Packets accepted
	OtherStreams   int // Packets of streams other than the selected one
	SkippedLeading int // Selected-stream packets before the first keyframe
	NonKey         int // Selected-stream non-key packets dropped in keyframe-only mode
}

// PacketFilter admits the packets of the selected stream that a mode decodes.
type PacketFilter struct {
	streamIndex  int
	keyframeOnly bool
	limit        int // 0 means no cap
	started      bool
	stats        FilterStats
}

// NewTranscodeFilter admits packets of streamIndex starting at the first
// keyframe, up to limit packets.
func NewTranscodeFilter(streamIndex, limit int) *PacketFilter {
	return &PacketFilter{
		streamIndex: streamIndex,
		limit:       limit,
	}
}

// NewKeyframeFilter admits only key packets of streamIndex, without a cap.
func NewKeyframeFilter(streamIndex int) *PacketFilter {
	return &PacketFilter{
		streamIndex:  streamIndex,
		keyframeOnly: true,
	}
}

// NewFilter returns the filter a mode uses.
func NewFilter(mode Mode, streamIndex, limit int) *PacketFilter {
	if mode == ModeExtractOnly {
		return NewKeyframeFilter(streamIndex)
	}
	return NewTranscodeFilter(streamIndex, limit)
}

// Admit decides whether pkt is decoded.
func (f *PacketFilter) Admit(pkt ports.Packet) Decision {
	if f.limit > 0 && f.stats.Admitted >= f.limit {
		return Stop
	}
	f.stats.Seen++

	if pkt.StreamIndex() != f.streamIndex {
		f.stats.OtherStreams++
		return Skip
	}

	if f.keyframeOnly {
		if !pkt.IsKey() {
			f.stats.NonKey++
			return Skip
		}
		f.stats.Admitted++
		return Accept
	}

	if !f.started {
		if !pkt.IsKey() {
			f.stats.SkippedLeading++
			return Skip
		}
		f.started = true
	}

	f.stats.Admitted++
	return Accept
}

// Exhausted reports whether the cap has been reached.
func (f *PacketFilter) Exhausted() bool {
	return f.limit > 0 && f.stats.Admitted >= f.limit
}

// Stats returns the counters collected so far.
func (f *PacketFilter) Stats() FilterStats {
	return f.stats
}
