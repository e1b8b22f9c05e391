package stream

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chatroutes/chatroutes-go/errors"
	"github.com/chatroutes/chatroutes-go/httpclient"
	"github.com/chatroutes/chatroutes-go/httpclient/sse"
	"github.com/chatroutes/chatroutes-go/types"
)

const (
	doneSentinel = "[DONE]"
	eventError   = "error"
)

// StreamPath returns the streaming endpoint for a conversation.
func StreamPath(conversationID string) string {
	return "/conversations/" + url.PathEscape(conversationID) + "/messages/stream"
}

// HTTPOpener opens streams through an httpclient.Adapter.
type HTTPOpener struct {
	adapter *httpclient.Adapter
}

// NewHTTPOpener creates an opener that POSTs the body to the adapter.
func NewHTTPOpener(adapter *httpclient.Adapter) *HTTPOpener {
	return &HTTPOpener{adapter: adapter}
}

// OpenStream implements Opener. HTTP failures are already mapped by the
// adapter before any chunk is read.
func (o *HTTPOpener) OpenStream(ctx context.Context, path string, body any) (Source, error) {
	resp, err := o.adapter.DoStream(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	if resp.IsSSE() {
		return &sseSource{resp: resp, reader: resp.SSE}, nil
	}
	return newNDJSONSource(resp), nil
}

// sseSource reads chunks from an event stream.
type sseSource struct {
	resp   *httpclient.StreamResponse
	reader sse.Reader
	done   bool
}

func (s *sseSource) Next(ctx context.Context) (types.StreamChunk, bool, error) {
	for !s.done {
		if err := ctx.Err(); err != nil {
			return types.StreamChunk{}, false, aborted(err)
		}

		ev, err := s.reader.Next()
		if err == io.EOF {
			s.done = true
			break
		}
		if err != nil {
			s.done = true
			return types.StreamChunk{}, false, readFailure(ctx, err)
		}

		data := strings.TrimSpace(ev.Data)
		if ev.Event == eventError {
			s.done = true
			return types.StreamChunk{}, false, serverEventError([]byte(data))
		}
		switch data {
		case "":
			continue
		case doneSentinel:
			s.done = true
			continue
		}
		return decodeChunk([]byte(data))
	}
	return types.StreamChunk{}, false, nil
}

func (s *sseSource) Close() error {
	return s.resp.Close()
}

// ndjsonSource reads one JSON chunk per line.
type ndjsonSource struct {
	resp    *httpclient.StreamResponse
	scanner *bufio.Scanner
	done    bool
}

func newNDJSONSource(resp *httpclient.StreamResponse) *ndjsonSource {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), sse.DefaultMaxLineSize)
	return &ndjsonSource{resp: resp, scanner: scanner}
}

func (s *ndjsonSource) Next(ctx context.Context) (types.StreamChunk, bool, error) {
	for !s.done {
		if err := ctx.Err(); err != nil {
			return types.StreamChunk{}, false, aborted(err)
		}
		if !s.scanner.Scan() {
			s.done = true
			if err := s.scanner.Err(); err != nil {
				return types.StreamChunk{}, false, readFailure(ctx, err)
			}
			break
		}
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if string(line) == doneSentinel {
			s.done = true
			continue
		}
		return decodeChunk(line)
	}
	return types.StreamChunk{}, false, nil
}

func (s *ndjsonSource) Close() error {
	return s.resp.Close()
}

// decodeChunk decodes one payload. Chunks typed "error" end the stream.
func decodeChunk(data []byte) (types.StreamChunk, bool, error) {
	chunk, err := types.DecodeStreamChunk(data)
	if err != nil {
		return types.StreamChunk{}, false, errors.Server(0, "malformed stream chunk").WithCause(err)
	}
	if chunk.Type == types.ChunkTypeError {
		msg := chunk.Message
		if msg == "" {
			msg = chunk.Content
		}
		return types.StreamChunk{}, false, errors.Server(0, msg)
	}
	return chunk, true, nil
}

func serverEventError(data []byte) error {
	env := errors.ParseEnvelope(data)
	e := errors.Server(0, env.Text())
	e.APICode = env.Code
	return e.WithDetails(env.Details)
}

// readFailure classifies a read error. A line over the buffer limit is a bad
// payload from the server rather than a transport fault.
func readFailure(ctx context.Context, err error) error {
	if stderrors.Is(err, bufio.ErrTooLong) {
		return errors.Server(0, "malformed stream chunk: line exceeds buffer limit").WithCause(err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Network(fmt.Errorf("stream aborted: %w (read: %v)", ctxErr, err))
	}
	return errors.Network(fmt.Errorf("read stream: %w", err))
}
