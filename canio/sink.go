package canio

import (
	"context"

	"pathdriver-core/follower"
)

// Sink implements follower.CommandSink by encoding each command into an
// ACTUATOR_CMD_1 frame and writing it to a Writer. Publish is fire-and-forget
// per the follower contract: write errors are swallowed here and only
// observable via LastError, which callers may poll.
type Sink struct {
	ctx    context.Context
	writer Writer
	cmap   *Map

	lastErr error
}

// NewSink wraps a Writer with the command-frame encoder. ctx bounds every
// write issued through Publish.
func NewSink(ctx context.Context, writer Writer, cmap *Map) *Sink {
	return &Sink{ctx: ctx, writer: writer, cmap: cmap}
}

// Publish encodes and transmits cmd. It never returns an error to the
// caller (follower.CommandSink.Publish has no error return); failures are
// recorded for LastError.
func (s *Sink) Publish(cmd follower.Command) {
	frame, err := s.cmap.EncodeEinrideFrame(FrameCommand, map[string]float64{
		"v":           cmd.V,
		"steer_front": cmd.SteerFront,
		"steer_back":  cmd.SteerBack,
	})
	if err != nil {
		s.lastErr = err
		return
	}
	s.lastErr = s.writer.WriteFrame(s.ctx, frame)
}

// LastError returns the most recent transmit error, or nil.
func (s *Sink) LastError() error {
	return s.lastErr
}
