package ports

// EncoderSpec configures a video encoder.
type EncoderSpec struct {
	Width       int
	Height      int
	PixelFormat PixelFormat
	TimeBase    Rational
	BitRate     int64 // bits per second
}

// Encoder compresses frames for one output stream.
type Encoder interface {
	// Encode submits frame. It returns the packet produced, if any.
	// The boolean is false when the encoder buffered the frame.
	Encode(frame Frame) (Packet, bool, error)

	// Flush signals end of stream and returns every buffered packet.
	Flush() ([]Packet, error)

	// Close releases encoder resources.
	Close()
}

// OutputContext is a container being written.
type OutputContext interface {
	// AddStream creates an output stream and an encoder opened against it.
	// It returns the encoder and the stream index.
	AddStream(codec CodecID, spec EncoderSpec) (Encoder, int, error)

	// WriteHeader must be called once before the first WritePacket.
	WriteHeader() error

	// WritePacket writes a packet stamped with its output stream index.
	WritePacket(pkt Packet) error

	// WriteTrailer finalizes the container. It must be called once, last.
	WriteTrailer() error

	// Close releases the container and its encoders.
	Close() error
}
