package avlib

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/keysnap/pkg/ports"
)

// OutputContext is a container being written.
type OutputContext struct {
	fc       *astiav.FormatContext
	ioc      *astiav.IOContext
	path     string
	encoders map[int]*Encoder
	logger   ports.Logger
}

// AddStream creates an output stream with an encoder opened for spec.
func (o *OutputContext) AddStream(codec ports.CodecID, spec ports.EncoderSpec) (ports.Encoder, int, error) {
	id, err := codecID(codec)
	if err != nil {
		return nil, 0, err
	}
	c := astiav.FindEncoder(id)
	if c == nil {
		return nil, 0, fmt.Errorf("%w: %s", ports.ErrEncoderNotFound, codec)
	}
	pf, err := pixelFormat(spec.PixelFormat)
	if err != nil {
		return nil, 0, err
	}
	if !spec.TimeBase.Valid() {
		return nil, 0, fmt.Errorf("invalid encoder time base %s", spec.TimeBase)
	}

	s := o.fc.NewStream(nil)
	if s == nil {
		return nil, 0, errors.New("avlib: creating output stream failed")
	}

	cc := astiav.AllocCodecContext(c)
	if cc == nil {
		return nil, 0, errors.New("avlib: allocating encoder context failed")
	}
	cc.SetWidth(spec.Width)
	cc.SetHeight(spec.Height)
	cc.SetPixelFormat(pf)
	cc.SetTimeBase(rational(spec.TimeBase))
	cc.SetBitRate(spec.BitRate)
	if o.fc.OutputFormat().Flags().Has(astiav.IOFormatFlagGlobalheader) {
		cc.SetFlags(cc.Flags().Add(astiav.CodecContextFlagGlobalHeader))
	}

	if err := cc.Open(c, nil); err != nil {
		cc.Free()
		return nil, 0, fmt.Errorf("open %s encoder: %w", c.Name(), err)
	}

	if err := s.CodecParameters().FromCodecContext(cc); err != nil {
		cc.Free()
		return nil, 0, fmt.Errorf("copy encoder parameters: %w", err)
	}
	s.SetTimeBase(cc.TimeBase())

	enc := &Encoder{cc: cc, pkt: &Packet{p: astiav.AllocPacket()}}
	o.encoders[s.Index()] = enc

	o.logger.Debug("Added %s stream %d: %dx%d %s, %d bps", c.Name(), s.Index(), spec.Width, spec.Height, spec.PixelFormat, spec.BitRate)
	return enc, s.Index(), nil
}

// WriteHeader writes the container header.
func (o *OutputContext) WriteHeader() error {
	if err := o.fc.WriteHeader(nil); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// WritePacket rescales pkt from its encoder's time base to the stream's
// and hands it to the interleaving muxer.
func (o *OutputContext) WritePacket(pkt ports.Packet) error {
	p, ok := pkt.(*Packet)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignValue, pkt)
	}

	index := p.StreamIndex()
	enc, ok := o.encoders[index]
	if !ok {
		return fmt.Errorf("no output stream %d", index)
	}
	var stream *astiav.Stream
	for _, s := range o.fc.Streams() {
		if s.Index() == index {
			stream = s
			break
		}
	}
	if stream == nil {
		return fmt.Errorf("no output stream %d", index)
	}

	p.p.RescaleTs(enc.cc.TimeBase(), stream.TimeBase())
	if err := o.fc.WriteInterleavedFrame(p.p); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// WriteTrailer finalizes the container.
func (o *OutputContext) WriteTrailer() error {
	if err := o.fc.WriteTrailer(); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}
	return nil
}

// Close releases the encoders, the file and the container.
func (o *OutputContext) Close() error {
	if o.fc == nil {
		return nil
	}
	for _, enc := range o.encoders {
		enc.Close()
	}
	o.encoders = nil

	var err error
	if o.ioc != nil {
		if cerr := o.ioc.Close(); cerr != nil {
			err = fmt.Errorf("close %s: %w", o.path, cerr)
		}
		o.ioc = nil
	}
	o.fc.Free()
	o.fc = nil
	return err
}

var _ ports.OutputContext = (*OutputContext)(nil)

// Encoder compresses frames for one output stream.
type Encoder struct {
	cc      *astiav.CodecContext
	pkt     *Packet
	flushed []*Packet
}

// Encode sends frame and receives at most one packet.
// The returned packet is reused by the next call.
func (e *Encoder) Encode(frame ports.Frame) (ports.Packet, bool, error) {
	f, ok := frame.(*Frame)
	if !ok {
		return nil, false, fmt.Errorf("%w: %T", ErrForeignValue, frame)
	}

	if err := e.cc.SendFrame(f.f); err != nil {
		return nil, false, fmt.Errorf("send frame: %w", err)
	}

	e.pkt.p.Unref()
	if err := e.cc.ReceivePacket(e.pkt.p); err != nil {
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("receive packet: %w", err)
	}
	return e.pkt, true, nil
}

// Flush signals end of stream and drains every buffered packet.
func (e *Encoder) Flush() ([]ports.Packet, error) {
	if err := e.cc.SendFrame(nil); err != nil {
		return nil, fmt.Errorf("send flush frame: %w", err)
	}

	var out []ports.Packet
	for {
		p := &Packet{p: astiav.AllocPacket()}
		e.flushed = append(e.flushed, p)
		if err := e.cc.ReceivePacket(p.p); err != nil {
			if errors.Is(err, astiav.ErrEof) || errors.Is(err, astiav.ErrEagain) {
				return out, nil
			}
			return out, fmt.Errorf("receive packet: %w", err)
		}
		out = append(out, p)
	}
}

// Close releases the encoder and its packets.
func (e *Encoder) Close() {
	if e.cc == nil {
		return
	}
	for _, p := range e.flushed {
		p.p.Free()
	}
	e.flushed = nil
	e.pkt.p.Free()
	e.cc.Free()
	e.cc = nil
}

var _ ports.Encoder = (*Encoder)(nil)
