// Package transcode implements the re-encode stage.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/user/keysnap/pkg/config"
	"github.com/user/keysnap/pkg/pipeline"
	"github.com/user/keysnap/pkg/ports"
)

// ErrNotOpen is returned when frames are submitted outside Open and Close.
var ErrNotOpen = errors.New("transcode: output not open")

type state int

const (
	stateIdle state = iota
	stateOpen
	stateClosed
)

// Stage re-encodes decoded frames into a single-stream container.
// Open writes the header, EncodeFrame writes packets and Close flushes the
// encoder and writes the trailer. Release frees the container.
type Stage struct {
	lib    ports.MediaLibrary
	cfg    config.Config
	logger ports.Logger

	state       state
	output      ports.OutputContext
	encoder     ports.Encoder
	streamIndex int
	nextPts     int64
	result      pipeline.TranscodeResult
}

// NewStage creates a new transcode stage.
func NewStage(lib ports.MediaLibrary, cfg config.Config, logger ports.Logger) *Stage {
	return &Stage{
		lib:    lib,
		cfg:    cfg,
		logger: logger.WithComponent("transcode"),
	}
}

// Open creates the output container and its encoder, then writes the header.
func (s *Stage) Open(ctx context.Context, input pipeline.TranscodeOpenInput) error {
	if s.state != stateIdle {
		return fmt.Errorf("transcode: already opened")
	}

	if err := s.lib.FindEncoder(s.cfg.Codec); err != nil {
		return fmt.Errorf("find %s encoder: %w", s.cfg.Codec, err)
	}

	path := filepath.Join(input.OutputDir, s.cfg.OutputName)
	output, err := s.lib.OpenOutput(path, s.cfg.ContainerFormat)
	if err != nil {
		return fmt.Errorf("open output %s: %w", path, err)
	}
	s.output = output
	s.result.OutputPath = path

	spec := ports.EncoderSpec{
		Width:       input.Source.Width,
		Height:      input.Source.Height,
		PixelFormat: s.cfg.PixelFormat,
		TimeBase:    input.Source.TimeBase,
		BitRate:     s.cfg.BitRate,
	}
	s.logger.Debug("Configuring %s encoder: %dx%d %s, time base %s, %d bps",
		s.cfg.Codec, spec.Width, spec.Height, spec.PixelFormat, spec.TimeBase, spec.BitRate)

	encoder, streamIndex, err := output.AddStream(s.cfg.Codec, spec)
	if err != nil {
		return fmt.Errorf("add output stream: %w", err)
	}
	s.encoder = encoder
	s.streamIndex = streamIndex
	s.result.StreamIndex = streamIndex

	if err := output.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	s.state = stateOpen
	s.logger.Debug("Output header written to %s", path)
	return nil
}

// EncodeFrame converts frame to the output pixel format, stamps it with the
// next presentation timestamp and submits it to the encoder.
// Encoder failures are logged and do not stop the run.
func (s *Stage) EncodeFrame(ctx context.Context, frame ports.Frame) error {
	if s.state != stateOpen {
		return ErrNotOpen
	}

	converted, err := s.convert(frame)
	if err != nil {
		return err
	}
	defer converted.Close()

	pts := s.nextPts
	converted.SetPts(pts)
	s.nextPts++
	s.result.FramesSubmitted++

	pkt, ok, err := s.encoder.Encode(converted)
	if err != nil {
		s.result.EncodeErrors++
		s.logger.Warn("Failed to encode frame %d: %v", pts, err)
		return nil
	}
	if !ok {
		s.result.Pending++
		s.logger.Info("No output from encoder for frame %d", pts)
		return nil
	}

	if err := s.write(pkt); err != nil {
		return err
	}
	s.result.PacketsWritten++
	return nil
}

// convert returns a new frame holding frame in the output pixel format.
func (s *Stage) convert(frame ports.Frame) (ports.Frame, error) {
	dst, err := s.lib.NewFrame()
	if err != nil {
		return nil, fmt.Errorf("allocate %s frame: %w", s.cfg.PixelFormat, err)
	}

	conv, err := s.lib.NewConverter(frame, s.cfg.PixelFormat)
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("create %s -> %s converter: %w", frame.PixelFormat(), s.cfg.PixelFormat, err)
	}
	defer conv.Close()

	if err := conv.Run(frame, dst); err != nil {
		dst.Close()
		return nil, fmt.Errorf("convert frame to %s: %w", s.cfg.PixelFormat, err)
	}
	return dst, nil
}

func (s *Stage) write(pkt ports.Packet) error {
	pkt.SetStreamIndex(s.streamIndex)
	if err := s.output.WritePacket(pkt); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}
	return nil
}

// Close drains the encoder into the container and writes the trailer.
func (s *Stage) Close(ctx context.Context) (pipeline.TranscodeResult, error) {
	if s.state != stateOpen {
		return s.result, ErrNotOpen
	}
	s.state = stateClosed

	packets, err := s.encoder.Flush()
	if err != nil {
		return s.result, fmt.Errorf("flush encoder: %w", err)
	}
	for _, pkt := range packets {
		if err := s.write(pkt); err != nil {
			return s.result, err
		}
		s.result.PacketsFlushed++
	}

	if err := s.output.WriteTrailer(); err != nil {
		return s.result, fmt.Errorf("write trailer: %w", err)
	}

	s.logger.Debug("Output finalized: %d frames, %d packets (%d flushed)",
		s.result.FramesSubmitted, s.result.PacketsWritten+s.result.PacketsFlushed, s.result.PacketsFlushed)
	return s.result, nil
}

// Release frees the output container. It is safe to call more than once.
func (s *Stage) Release() {
	if s.output == nil {
		return
	}
	if err := s.output.Close(); err != nil {
		s.logger.Warn("Failed to close output: %v", err)
	}
	s.output = nil
	s.encoder = nil
	if s.state == stateOpen {
		s.state = stateClosed
	}
}
