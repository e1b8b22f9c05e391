package stream

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatroutes/chatroutes-go/errors"
	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/observability"
	"github.com/chatroutes/chatroutes-go/types"
	"github.com/chatroutes/chatroutes-go/validation"
)

// Stream outcomes reported in metrics.
const (
	OutcomeCompleted = "completed"
	OutcomeClosed    = "closed"
	OutcomeFailed    = "failed"
)

// Aggregator drives streamed sends. It holds no per-stream state, so one
// Aggregator may serve any number of concurrent Stream calls.
type Aggregator struct {
	opener  Opener
	shape   Normalizer
	strict  bool
	now     func() time.Time
	log     *logger.Logger
	metrics *observability.StreamMetrics
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithShape selects the chunk normalizer. Defaults to ChoicesShape.
func WithShape(n Normalizer) Option {
	return func(a *Aggregator) {
		if n != nil {
			a.shape = n
		}
	}
}

// WithStrictIdentifiers makes finalization fail with ErrMissingIdentifiers
// instead of synthesizing placeholder message ids.
func WithStrictIdentifiers() Option {
	return func(a *Aggregator) { a.strict = true }
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l.WithComponent("stream")
		}
	}
}

// WithMetrics sets the metric instruments. Defaults to the global meter.
func WithMetrics(m *observability.StreamMetrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// WithClock overrides the time source used for timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAggregator creates an aggregator reading streams from opener.
func NewAggregator(opener Opener, opts ...Option) *Aggregator {
	a := &Aggregator{
		opener: opener,
		shape:  ChoicesShape{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.WithComponent("stream")
	}
	if a.metrics == nil {
		a.metrics = observability.DefaultStreamMetrics()
	}
	return a
}

// Shape returns the normalizer in use.
func (a *Aggregator) Shape() Normalizer { return a.shape }

// Stream sends req to the conversation's streaming endpoint and blocks until
// the stream ends. Every chunk is passed to obs.OnChunk before the next one is
// read. If obs also implements CompletionObserver, OnComplete receives the
// synthesized response once, right after the chunk that first carried a
// finish reason; later chunks still reach OnChunk.
//
// Stream returns nil when the stream closes normally, even if no finish
// reason arrived (in which case OnComplete is not called). Transport and
// server failures are returned as *errors.Error; chunks delivered before the
// failure are not retracted. Cancelling ctx aborts the stream with a network
// error wrapping the context error.
func (a *Aggregator) Stream(ctx context.Context, conversationID string, req types.SendMessageRequest, obs ChunkObserver) (err error) {
	if err := validateStream(conversationID, req, obs); err != nil {
		return err
	}
	complete := completionFor(obs)

	state := NewState(a.now())
	log := a.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldConversationID, conversationID,
		logger.FieldShape, a.shape.Name(),
	))

	ctx, span := observability.StartSpan(ctx, observability.SpanStream, trace.WithAttributes(
		attribute.String(observability.AttrConversationID, conversationID),
		attribute.String(observability.AttrShape, a.shape.Name()),
	))
	defer func() {
		a.finish(ctx, span, state, err)
	}()

	src, err := a.opener.OpenStream(ctx, StreamPath(conversationID), req)
	if err != nil {
		log.Debug("stream open failed", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	defer func() { _ = src.Close() }()
	log.Debug("stream opened")

	for {
		chunk, ok, nextErr := src.Next(ctx)
		if nextErr != nil {
			log.Debug("stream failed", logger.Fields(
				logger.FieldChunkCount, state.Chunks(),
				logger.FieldError, nextErr.Error(),
			))
			return nextErr
		}
		if !ok {
			break
		}

		finishedNow := state.Apply(a.shape.Normalize(chunk))
		a.metrics.RecordChunk(ctx, a.shape.Name())
		obs.OnChunk(chunk)

		if finishedNow && complete != nil {
			resp, finErr := state.Finalize(conversationID, req, a.now(), a.strict)
			if finErr != nil {
				return finErr
			}
			a.metrics.RecordCompletion(ctx, state.FinishReason())
			log.Debug("stream completed", logger.Fields(
				logger.FieldChunkCount, state.Chunks(),
				logger.FieldModel, resp.AssistantMessage.Model,
				logger.FieldFinishReason, state.FinishReason(),
			))
			complete(resp)
		}
	}

	if !state.Finished() {
		log.Warn("stream closed without a finish reason", logger.Fields(
			logger.FieldChunkCount, state.Chunks(),
		))
	}
	return nil
}

// finish records the span attributes and metrics of one Stream call.
func (a *Aggregator) finish(ctx context.Context, span trace.Span, state *State, err error) {
	span.SetAttributes(
		attribute.Int(observability.AttrChunkCount, state.Chunks()),
		attribute.String(observability.AttrModel, state.Model()),
		attribute.String(observability.AttrFinishReason, state.FinishReason()),
	)
	observability.EndSpan(span, err)

	outcome := OutcomeClosed
	switch {
	case err != nil:
		outcome = OutcomeFailed
		code := "UNKNOWN"
		if e, ok := errors.As(err); ok {
			code = string(e.Code)
		}
		a.metrics.RecordError(ctx, code)
	case state.Finished():
		outcome = OutcomeCompleted
	}
	a.metrics.RecordEnd(ctx, outcome, a.now().Sub(state.StartedAt()))
}

func validateStream(conversationID string, req types.SendMessageRequest, obs ChunkObserver) error {
	if err := validation.New().
		Required("conversationId", conversationID).
		NotNil("observer", obs).
		Validate(); err != nil {
		return err
	}
	return validation.Validate(req)
}
