package stream

import "github.com/chatroutes/chatroutes-go/types"

// ChunkObserver receives every chunk of a stream, in arrival order, on the
// goroutine that called Stream. The next chunk is not read until OnChunk
// returns. Chunks must be treated as read-only.
type ChunkObserver interface {
	OnChunk(chunk types.StreamChunk)
}

// CompletionObserver is the optional second capability of an observer. When
// implemented, OnComplete is called at most once, right after the OnChunk call
// for the chunk that carried the first finish reason.
type CompletionObserver interface {
	OnComplete(resp *types.SendMessageResponse)
}

// ObserverFuncs adapts plain functions to the observer interfaces.
// A nil Complete means the caller does not want a completion.
type ObserverFuncs struct {
	Chunk    func(types.StreamChunk)
	Complete func(*types.SendMessageResponse)
}

// OnChunk implements ChunkObserver.
func (f ObserverFuncs) OnChunk(chunk types.StreamChunk) {
	if f.Chunk != nil {
		f.Chunk(chunk)
	}
}

// OnComplete implements CompletionObserver.
func (f ObserverFuncs) OnComplete(resp *types.SendMessageResponse) {
	if f.Complete != nil {
		f.Complete(resp)
	}
}

// completionFor returns the completion callback of obs, or nil when the
// observer did not supply one.
func completionFor(obs ChunkObserver) func(*types.SendMessageResponse) {
	switch o := obs.(type) {
	case ObserverFuncs:
		return o.Complete
	case *ObserverFuncs:
		return o.Complete
	case CompletionObserver:
		return o.OnComplete
	}
	return nil
}
