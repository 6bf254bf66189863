package mocks

import (
	"fmt"
	"io"

	"github.com/user/keysnap/pkg/ports"
)

// Packet is a mock implementation of ports.Packet.
type Packet struct {
	Stream int
	Key    bool
	PTS    int64
	NoPTS  bool
}

func (p *Packet) StreamIndex() int { return p.Stream }

func (p *Packet) SetStreamIndex(index int) { p.Stream = index }

func (p *Packet) IsKey() bool { return p.Key }

func (p *Packet) Pts() (int64, bool) {
	if p.NoPTS {
		return 0, false
	}
	return p.PTS, true
}

var _ ports.Packet = (*Packet)(nil)

// Frame is a mock implementation of ports.Frame.
type Frame struct {
	W      int
	H      int
	Format ports.PixelFormat
	PTS    int64
	HasPTS bool
	DTS    int64
	HasDTS bool
	Data   []byte
	Closed bool

	BytesFunc func() ([]byte, error)
}

func (f *Frame) Width() int { return f.W }

func (f *Frame) Height() int { return f.H }

func (f *Frame) PixelFormat() ports.PixelFormat { return f.Format }

func (f *Frame) Pts() (int64, bool) { return f.PTS, f.HasPTS }

func (f *Frame) SetPts(pts int64) {
	f.PTS = pts
	f.HasPTS = true
}

func (f *Frame) DecodeTimestamp() (int64, bool) { return f.DTS, f.HasDTS }

func (f *Frame) Bytes() ([]byte, error) {
	if f.BytesFunc != nil {
		return f.BytesFunc()
	}
	return f.Data, nil
}

func (f *Frame) Close() { f.Closed = true }

var _ ports.Frame = (*Frame)(nil)

// ConvertCall records a call to Converter.Run.
type ConvertCall struct {
	From ports.PixelFormat
	To   ports.PixelFormat
	PTS  int64
}

// MediaLibrary is a mock implementation of ports.MediaLibrary.
// By default it serves Input and Output and converts frames by filling
// a buffer of the right size.
type MediaLibrary struct {
	Input  *InputContext
	Output *OutputContext

	InitFunc         func() error
	OpenInputFunc    func(url string) (ports.InputContext, error)
	FindEncoderFunc  func(codec ports.CodecID) error
	OpenOutputFunc   func(path, format string) (ports.OutputContext, error)
	NewConverterFunc func(src ports.Frame, dst ports.PixelFormat) (ports.Converter, error)
	ConvertFunc      func(src, dst ports.Frame) error

	// Recorded calls for verification
	InitCalls      int
	OpenedURL      string
	OutputPath     string
	OutputFormat   string
	Frames         []*Frame
	Converters     int
	ConvertersOpen int
	ConvertCalls   []ConvertCall
}

func (m *MediaLibrary) Init() error {
	m.InitCalls++
	if m.InitFunc != nil {
		return m.InitFunc()
	}
	return nil
}

func (m *MediaLibrary) OpenInput(url string) (ports.InputContext, error) {
	m.OpenedURL = url
	if m.OpenInputFunc != nil {
		return m.OpenInputFunc(url)
	}
	if m.Input == nil {
		return nil, fmt.Errorf("open %s: no such file", url)
	}
	return m.Input, nil
}

func (m *MediaLibrary) FindEncoder(codec ports.CodecID) error {
	if m.FindEncoderFunc != nil {
		return m.FindEncoderFunc(codec)
	}
	return nil
}

func (m *MediaLibrary) OpenOutput(path, format string) (ports.OutputContext, error) {
	m.OutputPath = path
	m.OutputFormat = format
	if m.OpenOutputFunc != nil {
		return m.OpenOutputFunc(path, format)
	}
	if m.Output == nil {
		m.Output = NewOutputContext()
	}
	return m.Output, nil
}

func (m *MediaLibrary) NewFrame() (ports.Frame, error) {
	f := &Frame{}
	m.Frames = append(m.Frames, f)
	return f, nil
}

func (m *MediaLibrary) NewConverter(src ports.Frame, dst ports.PixelFormat) (ports.Converter, error) {
	if m.NewConverterFunc != nil {
		return m.NewConverterFunc(src, dst)
	}
	m.Converters++
	m.ConvertersOpen++
	return &Converter{lib: m, target: dst}, nil
}

var _ ports.MediaLibrary = (*MediaLibrary)(nil)

// Converter is a mock implementation of ports.Converter.
type Converter struct {
	lib    *MediaLibrary
	target ports.PixelFormat
}

func (c *Converter) Run(src, dst ports.Frame) error {
	pts, _ := src.Pts()
	c.lib.ConvertCalls = append(c.lib.ConvertCalls, ConvertCall{From: src.PixelFormat(), To: c.target, PTS: pts})
	if c.lib.ConvertFunc != nil {
		return c.lib.ConvertFunc(src, dst)
	}
	out, ok := dst.(*Frame)
	if !ok {
		return fmt.Errorf("unexpected frame type %T", dst)
	}
	out.W = src.Width()
	out.H = src.Height()
	out.Format = c.target
	out.Data = make([]byte, planeSize(c.target, out.W, out.H))
	return nil
}

func (c *Converter) Close() {
	c.lib.ConvertersOpen--
}

func planeSize(format ports.PixelFormat, w, h int) int {
	switch format {
	case ports.PixelFormatRGB24:
		return w * h * 3
	case ports.PixelFormatYUV422P:
		return w * h * 2
	default:
		return w * h * 3 / 2
	}
}

// InputContext is a mock implementation of ports.InputContext.
// It serves Packets in order and then io.EOF.
type InputContext struct {
	StreamList []ports.StreamInfo
	Packets    []*Packet
	Decoder    *Decoder

	BestStreamFunc  func(t ports.MediaType) (ports.StreamInfo, error)
	OpenDecoderFunc func(streamIndex int) (ports.Decoder, error)
	ReadPacketFunc  func() (ports.Packet, error)

	// Recorded calls for verification
	PacketsRead int
	Closed      bool
}

// NewVideoInput creates an input with one video stream at index 0 and
// one audio stream at index 1.
func NewVideoInput(width, height int, packets []*Packet) *InputContext {
	return &InputContext{
		StreamList: []ports.StreamInfo{
			{Index: 0, Type: ports.MediaTypeVideo, Codec: "h264", Width: width, Height: height, TimeBase: ports.Rational{Num: 1, Den: 25}},
			{Index: 1, Type: ports.MediaTypeAudio, Codec: "aac", TimeBase: ports.Rational{Num: 1, Den: 48000}},
		},
		Packets: packets,
		Decoder: NewDecoder(width, height),
	}
}

func (m *InputContext) Streams() []ports.StreamInfo {
	return m.StreamList
}

func (m *InputContext) BestStream(t ports.MediaType) (ports.StreamInfo, error) {
	if m.BestStreamFunc != nil {
		return m.BestStreamFunc(t)
	}
	for _, s := range m.StreamList {
		if s.Type == t {
			return s, nil
		}
	}
	return ports.StreamInfo{}, fmt.Errorf("%w: no %s stream", ports.ErrStreamNotFound, t)
}

func (m *InputContext) OpenDecoder(streamIndex int) (ports.Decoder, error) {
	if m.OpenDecoderFunc != nil {
		return m.OpenDecoderFunc(streamIndex)
	}
	if m.Decoder == nil {
		return nil, fmt.Errorf("no decoder for stream %d", streamIndex)
	}
	m.Decoder.StreamIndex = streamIndex
	return m.Decoder, nil
}

func (m *InputContext) ReadPacket() (ports.Packet, error) {
	if m.ReadPacketFunc != nil {
		return m.ReadPacketFunc()
	}
	if m.PacketsRead >= len(m.Packets) {
		return nil, io.EOF
	}
	pkt := m.Packets[m.PacketsRead]
	m.PacketsRead++
	return pkt, nil
}

func (m *InputContext) Close() error {
	m.Closed = true
	return nil
}

var _ ports.InputContext = (*InputContext)(nil)

// Decoder is a mock implementation of ports.Decoder.
// By default every packet produces a frame carrying the packet's pts.
type Decoder struct {
	W           int
	H           int
	Format      ports.PixelFormat
	TB          ports.Rational
	StreamIndex int

	DecodeFunc func(pkt ports.Packet, frame ports.Frame) (bool, error)

	// Recorded calls for verification
	Decoded []*Packet
	Closed  bool
}

// NewDecoder creates a yuv420p decoder with a 1/25 time base.
func NewDecoder(width, height int) *Decoder {
	return &Decoder{
		W:      width,
		H:      height,
		Format: ports.PixelFormatYUV420P,
		TB:     ports.Rational{Num: 1, Den: 25},
	}
}

func (m *Decoder) Width() int { return m.W }

func (m *Decoder) Height() int { return m.H }

func (m *Decoder) PixelFormat() ports.PixelFormat { return m.Format }

func (m *Decoder) TimeBase() ports.Rational { return m.TB }

func (m *Decoder) Decode(pkt ports.Packet, frame ports.Frame) (bool, error) {
	if p, ok := pkt.(*Packet); ok {
		m.Decoded = append(m.Decoded, p)
	}
	if m.DecodeFunc != nil {
		return m.DecodeFunc(pkt, frame)
	}
	FillFrame(frame, m.W, m.H, m.Format, pkt)
	return true, nil
}

func (m *Decoder) Close() { m.Closed = true }

var _ ports.Decoder = (*Decoder)(nil)

// FillFrame makes frame look like the picture decoded from pkt.
func FillFrame(frame ports.Frame, width, height int, format ports.PixelFormat, pkt ports.Packet) {
	f, ok := frame.(*Frame)
	if !ok {
		return
	}
	f.W = width
	f.H = height
	f.Format = format
	f.PTS, f.HasPTS = pkt.Pts()
	f.DTS, f.HasDTS = pkt.Pts()
	f.Data = make([]byte, planeSize(format, width, height))
}

// Encoder is a mock implementation of ports.Encoder.
// By default every frame produces one packet carrying the frame's pts.
type Encoder struct {
	StreamIndex int

	EncodeFunc func(frame ports.Frame) (ports.Packet, bool, error)
	FlushFunc  func() ([]ports.Packet, error)

	// Recorded calls for verification
	SubmittedPTS []int64
	Flushed      bool
	Closed       bool
}

func (m *Encoder) Encode(frame ports.Frame) (ports.Packet, bool, error) {
	pts, _ := frame.Pts()
	m.SubmittedPTS = append(m.SubmittedPTS, pts)
	if m.EncodeFunc != nil {
		return m.EncodeFunc(frame)
	}
	return &Packet{Stream: -1, Key: len(m.SubmittedPTS) == 1, PTS: pts}, true, nil
}

func (m *Encoder) Flush() ([]ports.Packet, error) {
	m.Flushed = true
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	return nil, nil
}

func (m *Encoder) Close() { m.Closed = true }

var _ ports.Encoder = (*Encoder)(nil)

// OutputContext is a mock implementation of ports.OutputContext.
// Events records "add-stream", "header", "packet", "trailer" and "close"
// in call order.
type OutputContext struct {
	Encoder     *Encoder
	StreamIndex int

	AddStreamFunc    func(codec ports.CodecID, spec ports.EncoderSpec) (ports.Encoder, int, error)
	WriteHeaderFunc  func() error
	WritePacketFunc  func(pkt ports.Packet) error
	WriteTrailerFunc func() error

	// Recorded calls for verification
	Spec    ports.EncoderSpec
	Codec   ports.CodecID
	Events  []string
	Written []Packet
	Closed  bool
}

// NewOutputContext creates an output whose stream index is 0.
func NewOutputContext() *OutputContext {
	return &OutputContext{Encoder: &Encoder{}}
}

func (m *OutputContext) AddStream(codec ports.CodecID, spec ports.EncoderSpec) (ports.Encoder, int, error) {
	m.Events = append(m.Events, "add-stream")
	m.Codec = codec
	m.Spec = spec
	if m.AddStreamFunc != nil {
		return m.AddStreamFunc(codec, spec)
	}
	if m.Encoder == nil {
		m.Encoder = &Encoder{}
	}
	m.Encoder.StreamIndex = m.StreamIndex
	return m.Encoder, m.StreamIndex, nil
}

func (m *OutputContext) WriteHeader() error {
	m.Events = append(m.Events, "header")
	if m.WriteHeaderFunc != nil {
		return m.WriteHeaderFunc()
	}
	return nil
}

func (m *OutputContext) WritePacket(pkt ports.Packet) error {
	m.Events = append(m.Events, "packet")
	if m.WritePacketFunc != nil {
		return m.WritePacketFunc(pkt)
	}
	pts, hasPTS := pkt.Pts()
	m.Written = append(m.Written, Packet{Stream: pkt.StreamIndex(), Key: pkt.IsKey(), PTS: pts, NoPTS: !hasPTS})
	return nil
}

func (m *OutputContext) WriteTrailer() error {
	m.Events = append(m.Events, "trailer")
	if m.WriteTrailerFunc != nil {
		return m.WriteTrailerFunc()
	}
	return nil
}

func (m *OutputContext) Close() error {
	m.Events = append(m.Events, "close")
	m.Closed = true
	return nil
}

var _ ports.OutputContext = (*OutputContext)(nil)

// Count returns how many times event was recorded.
func (m *OutputContext) Count(event string) int {
	n := 0
	for _, e := range m.Events {
		if e == event {
			n++
		}
	}
	return n
}

// KeyframeEvery builds n packets on stream with pts 0..n-1 where every
// interval-th packet (starting with the first) is a keyframe.
func KeyframeEvery(stream, n, interval int) []*Packet {
	packets := make([]*Packet, n)
	for i := range packets {
		packets[i] = &Packet{Stream: stream, Key: i%interval == 0, PTS: int64(i)}
	}
	return packets
}
