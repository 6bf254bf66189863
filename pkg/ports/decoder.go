package ports

// Decoder decodes packets of one stream into frames.
type Decoder interface {
	Width() int
	Height() int
	PixelFormat() PixelFormat
	TimeBase() Rational

	// Decode submits pkt and tries to fill frame.
	// It returns true when frame holds a new picture and false when the
	// decoder buffered the input without producing output yet.
	Decode(pkt Packet, frame Frame) (bool, error)

	// Close releases decoder resources.
	Close()
}
