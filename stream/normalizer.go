package stream

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/chatroutes/chatroutes-go/types"
)

// Built-in shape names.
const (
	ShapeChoices = "choices"
	ShapeFlat    = "flat"
	ShapeAuto    = "auto"
)

// DefaultFinishReason is reported for flat-shape "done" events that carry no reason.
const DefaultFinishReason = "stop"

// Fragment is what one chunk contributes to the aggregation.
type Fragment struct {
	Content            string
	FinishReason       string
	Model              string
	UserMessageID      string
	AssistantMessageID string
}

// Normalizer maps a wire chunk to the fragment it contributes. It must not
// modify the chunk.
type Normalizer interface {
	// Name returns the shape identifier (e.g. "choices").
	Name() string
	// Normalize extracts the fragment carried by chunk.
	Normalize(chunk types.StreamChunk) Fragment
}

// ChoicesShape reads choices[0].delta.content and choices[0].finishReason.
// Choices beyond index 0 are ignored.
type ChoicesShape struct{}

func (ChoicesShape) Name() string { return ShapeChoices }

func (ChoicesShape) Normalize(c types.StreamChunk) Fragment {
	f := baseFragment(c)
	if choice, ok := c.FirstChoice(); ok {
		f.Content = choice.Delta.Content
		f.FinishReason = choice.FinishReason
	}
	return f
}

// FlatShape reads {type:"content", content:"..."} events. A top-level
// finishReason, or a {type:"done"} event, ends generation.
type FlatShape struct{}

func (FlatShape) Name() string { return ShapeFlat }

func (FlatShape) Normalize(c types.StreamChunk) Fragment {
	f := baseFragment(c)
	if c.Type == types.ChunkTypeContent || c.Type == "" {
		f.Content = c.Content
	}
	switch {
	case c.FinishReason != "":
		f.FinishReason = c.FinishReason
	case c.Type == types.ChunkTypeDone:
		f.FinishReason = DefaultFinishReason
	}
	return f
}

// AutoShape uses ChoicesShape for chunks that carry choices and FlatShape otherwise.
type AutoShape struct{}

func (AutoShape) Name() string { return ShapeAuto }

func (AutoShape) Normalize(c types.StreamChunk) Fragment {
	if len(c.Choices) > 0 {
		return ChoicesShape{}.Normalize(c)
	}
	return FlatShape{}.Normalize(c)
}

func baseFragment(c types.StreamChunk) Fragment {
	return Fragment{
		Model:              c.Model,
		UserMessageID:      c.UserMessageID,
		AssistantMessageID: c.AssistantMessageID,
	}
}

// ContentOf returns the text a chunk contributes under the auto shape.
// Useful for rendering chunks live regardless of the backend's shape.
func ContentOf(c types.StreamChunk) string {
	return AutoShape{}.Normalize(c).Content
}

// --- Shape Registry ---

var (
	shapesMu sync.RWMutex
	shapes   = map[string]Normalizer{
		ShapeChoices: ChoicesShape{},
		ShapeFlat:    FlatShape{},
		ShapeAuto:    AutoShape{},
	}
)

// RegisterShape adds a normalizer to the global registry under n.Name(),
// replacing any previous entry with that name.
func RegisterShape(n Normalizer) {
	shapesMu.Lock()
	defer shapesMu.Unlock()
	shapes[n.Name()] = n
}

// Shape retrieves a normalizer by name. An empty name selects ShapeChoices.
func Shape(name string) (Normalizer, error) {
	if name == "" {
		name = ShapeChoices
	}
	shapesMu.RLock()
	defer shapesMu.RUnlock()
	n, ok := shapes[name]
	if !ok {
		return nil, fmt.Errorf("stream: unknown chunk shape %q (registered: %s)", name, strings.Join(shapeNamesLocked(), ", "))
	}
	return n, nil
}

// Shapes returns the names of all registered normalizers, sorted.
func Shapes() []string {
	shapesMu.RLock()
	defer shapesMu.RUnlock()
	return shapeNamesLocked()
}

func shapeNamesLocked() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
