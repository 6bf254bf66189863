package avlib

import (
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
)

// InputContext is an opened source container.
type InputContext struct {
	fc     *astiav.FormatContext
	pkt    *Packet
	logger ports.Logger
}

// Streams lists every stream of the container.
func (c *InputContext) Streams() []ports.StreamInfo {
	streams := c.fc.Streams()
	out := make([]ports.StreamInfo, len(streams))
	for i, s := range streams {
		out[i] = streamInfo(s)
	}
	return out
}

// BestStream selects FFmpeg's preferred stream of type t.
func (c *InputContext) BestStream(t ports.MediaType) (ports.StreamInfo, error) {
	s, _, err := c.fc.FindBestStream(mediaType(t), -1, -1)
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("%w: no %s stream: %v", ports.ErrStreamNotFound, t, err)
	}
	if s == nil {
		return ports.StreamInfo{}, fmt.Errorf("%w: no %s stream", ports.ErrStreamNotFound, t)
	}
	return streamInfo(s), nil
}

func (c *InputContext) stream(index int) (*astiav.Stream, error) {
	for _, s := range c.fc.Streams() {
		if s.Index() == index {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: index %d", ports.ErrStreamNotFound, index)
}

// OpenDecoder binds a decoder to the stream's codec parameters.
func (c *InputContext) OpenDecoder(streamIndex int) (ports.Decoder, error) {
	s, err := c.stream(streamIndex)
	if err != nil {
		return nil, err
	}
	cp := s.CodecParameters()

	codec := astiav.FindDecoder(cp.CodecID())
	if codec == nil {
		return nil, fmt.Errorf("no decoder for %s", cp.CodecID().Name())
	}

	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, errors.New("avlib: allocating decoder context failed")
	}

	if err := cp.ToCodecContext(cc); err != nil {
		cc.Free()
		return nil, fmt.Errorf("copy codec parameters: %w", err)
	}
	// Chosen before Open so the stream time base never masks an unset codec time base
	timeBase := c.decoderTimeBase(cc, s)

	if err := cc.Open(codec, nil); err != nil {
		cc.Free()
		return nil, fmt.Errorf("open %s decoder: %w", codec.Name(), err)
	}

	d := &Decoder{
		cc:       cc,
		timeBase: timeBase,
	}
	c.logger.Debug("Opened %s decoder for stream %d: %dx%d %s, time base %s",
		codec.Name(), streamIndex, d.Width(), d.Height(), d.PixelFormat(), d.timeBase)
	return d, nil
}

func (c *InputContext) decoderTimeBase(cc *astiav.CodecContext, s *astiav.Stream) ports.Rational {
	return pipeline.EncoderTimeBase(
		portRational(cc.TimeBase()),
		[]ports.Rational{
			portRational(s.AvgFrameRate()),
			portRational(c.fc.GuessFrameRate(s, nil)),
		},
		portRational(s.TimeBase()),
	)
}

// ReadPacket returns the next packet in container order, or io.EOF.
// The returned packet is reused by the next call.
func (c *InputContext) ReadPacket() (ports.Packet, error) {
	c.pkt.p.Unref()
	if err := c.fc.ReadFrame(c.pkt.p); err != nil {
		if errors.Is(err, astiav.ErrEof) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return c.pkt, nil
}

// Close releases the container.
func (c *InputContext) Close() error {
	if c.fc == nil {
		return nil
	}
	c.pkt.p.Free()
	c.fc.CloseInput()
	c.fc.Free()
	c.fc = nil
	return nil
}

var _ ports.InputContext = (*InputContext)(nil)

// Packet wraps an FFmpeg packet.
type Packet struct {
	p *astiav.Packet
}

func (p *Packet) StreamIndex() int { return p.p.StreamIndex() }

func (p *Packet) SetStreamIndex(index int) { p.p.SetStreamIndex(index) }

func (p *Packet) IsKey() bool { return p.p.Flags().Has(astiav.PacketFlagKey) }

func (p *Packet) Pts() (int64, bool) { return timestamp(p.p.Pts()) }

var _ ports.Packet = (*Packet)(nil)
