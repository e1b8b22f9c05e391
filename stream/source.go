package stream

import (
	"context"
	"fmt"

	"github.com/chatroutes/chatroutes-go/errors"
	"github.com/chatroutes/chatroutes-go/types"
)

// Source is a lazy, finite, non-restartable sequence of chunks.
type Source interface {
	// Next returns the next chunk. It returns (zero, false, nil) when the
	// stream closed normally and a non-nil error when it failed.
	Next(ctx context.Context) (types.StreamChunk, bool, error)
	// Close releases the underlying transport.
	Close() error
}

// Opener starts a stream for a request body posted to path.
type Opener interface {
	OpenStream(ctx context.Context, path string, body any) (Source, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, path string, body any) (Source, error)

// OpenStream implements Opener.
func (f OpenerFunc) OpenStream(ctx context.Context, path string, body any) (Source, error) {
	return f(ctx, path, body)
}

// SliceSource replays a fixed list of chunks, then ends with Err (nil for a
// normal close). It is handy for tests and for replaying recorded streams.
type SliceSource struct {
	Chunks []types.StreamChunk
	Err    error

	pos    int
	closed bool
}

// NewSliceSource returns a source yielding chunks and then closing normally.
func NewSliceSource(chunks ...types.StreamChunk) *SliceSource {
	return &SliceSource{Chunks: chunks}
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (types.StreamChunk, bool, error) {
	if err := ctx.Err(); err != nil {
		return types.StreamChunk{}, false, aborted(err)
	}
	if s.closed {
		return types.StreamChunk{}, false, errors.Network(fmt.Errorf("read on closed stream"))
	}
	if s.pos < len(s.Chunks) {
		c := s.Chunks[s.pos]
		s.pos++
		return c, true, nil
	}
	return types.StreamChunk{}, false, s.Err
}

// Close implements Source.
func (s *SliceSource) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *SliceSource) Closed() bool { return s.closed }

// aborted wraps a context error as a network error so callers can match both
// errors.IsNetwork and context.Canceled.
func aborted(ctxErr error) error {
	return errors.Network(fmt.Errorf("stream aborted: %w", ctxErr))
}
