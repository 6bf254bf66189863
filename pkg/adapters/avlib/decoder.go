package avlib

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/keysnap/pkg/ports"
)

// Decoder decodes the packets of one stream.
type Decoder struct {
	cc       *astiav.CodecContext
	timeBase ports.Rational
}

func (d *Decoder) Width() int { return d.cc.Width() }

func (d *Decoder) Height() int { return d.cc.Height() }

func (d *Decoder) PixelFormat() ports.PixelFormat { return portPixelFormat(d.cc.PixelFormat()) }

func (d *Decoder) TimeBase() ports.Rational { return d.timeBase }

// Decode sends pkt and receives at most one frame into frame.
// EAGAIN and EOF from the decoder mean no output yet.
func (d *Decoder) Decode(pkt ports.Packet, frame ports.Frame) (bool, error) {
	p, ok := pkt.(*Packet)
	if !ok {
		return false, fmt.Errorf("%w: %T", ErrForeignValue, pkt)
	}
	f, ok := frame.(*Frame)
	if !ok {
		return false, fmt.Errorf("%w: %T", ErrForeignValue, frame)
	}

	if err := d.cc.SendPacket(p.p); err != nil {
		return false, fmt.Errorf("send packet: %w", err)
	}

	f.f.Unref()
	if err := d.cc.ReceiveFrame(f.f); err != nil {
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return false, nil
		}
		return false, fmt.Errorf("receive frame: %w", err)
	}
	return true, nil
}

// Close releases the decoder.
func (d *Decoder) Close() {
	if d.cc != nil {
		d.cc.Free()
		d.cc = nil
	}
}

var _ ports.Decoder = (*Decoder)(nil)
