// Package stream aggregates a streamed message send into a completed response.
//
// An Aggregator opens one stream per Stream call, forwards every chunk to the
// caller's ChunkObserver in wire order, and folds the chunks into an explicit
// State. When a chunk first carries a finish reason and the observer also
// implements CompletionObserver, the State is finalized into a
// types.SendMessageResponse and delivered exactly once.
//
//	agg := stream.NewAggregator(stream.NewHTTPOpener(adapter))
//	err := agg.Stream(ctx, "c1", types.SendMessageRequest{Content: "Hi"}, stream.ObserverFuncs{
//	    Chunk:    func(c types.StreamChunk) { fmt.Print(stream.ContentOf(c)) },
//	    Complete: func(r *types.SendMessageResponse) { save(r) },
//	})
//
// Two chunk shapes exist on the wire. Which one is folded is chosen by a
// Normalizer: "choices" (choices[0].delta.content, the default), "flat"
// ({type:"content", content}) or "auto". A stream that closes without a
// finish reason never completes; chunks already delivered stay valid.
//
// Errors from the transport end the stream. Nothing is retried here and
// OnComplete never runs on an error path.
package stream
