package types

import "encoding/json"

// Chunk type tags used by the flat wire shape.
const (
	ChunkTypeContent = "content"
	ChunkTypeDone    = "done"
	ChunkTypeError   = "error"
)

// Delta is the incremental fragment carried by a choice.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Choice is one generation alternative of a chunk. Only index 0 is aggregated.
type Choice struct {
	Index        int    `json:"index"`
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finishReason,omitempty"`
}

// UnmarshalJSON accepts both finishReason and finish_reason.
func (c *Choice) UnmarshalJSON(data []byte) error {
	var wire struct {
		Index        int     `json:"index"`
		Delta        *Delta  `json:"delta"`
		FinishReason *string `json:"finishReason"`
		SnakeReason  *string `json:"finish_reason"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = Choice{Index: wire.Index}
	if wire.Delta != nil {
		c.Delta = *wire.Delta
	}
	switch {
	case wire.FinishReason != nil && *wire.FinishReason != "":
		c.FinishReason = *wire.FinishReason
	case wire.SnakeReason != nil:
		c.FinishReason = *wire.SnakeReason
	}
	return nil
}

// StreamChunk is one incremental event of a streamed send.
//
// Two shapes exist on the wire: choices[].delta.content and the flatter
// {type:"content", content:"..."}. Both decode into this struct; which one is
// aggregated is decided by the stream package's normalizer.
type StreamChunk struct {
	Choices            []Choice `json:"choices,omitempty"`
	Model              string   `json:"model,omitempty"`
	Type               string   `json:"type,omitempty"`
	Content            string   `json:"content,omitempty"`
	FinishReason       string   `json:"finishReason,omitempty"`
	UserMessageID      string   `json:"userMessageId,omitempty"`
	AssistantMessageID string   `json:"assistantMessageId,omitempty"`
	Message            string   `json:"message,omitempty"`

	// Raw is the undecoded payload as received from the transport.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts both finishReason and finish_reason on the chunk itself.
func (c *StreamChunk) UnmarshalJSON(data []byte) error {
	type plain StreamChunk
	var wire struct {
		plain
		SnakeReason *string `json:"finish_reason"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = StreamChunk(wire.plain)
	if c.FinishReason == "" && wire.SnakeReason != nil {
		c.FinishReason = *wire.SnakeReason
	}
	return nil
}

// FirstChoice returns choices[0] when present.
func (c *StreamChunk) FirstChoice() (Choice, bool) {
	if len(c.Choices) == 0 {
		return Choice{}, false
	}
	return c.Choices[0], true
}

// DecodeStreamChunk decodes a raw payload and keeps a copy of it in Raw.
func DecodeStreamChunk(data []byte) (StreamChunk, error) {
	var chunk StreamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return StreamChunk{}, err
	}
	chunk.Raw = append(json.RawMessage(nil), data...)
	return chunk, nil
}
