package stream

import (
	"slices"
	"strings"
	"testing"

	"github.com/chatroutes/chatroutes-go/types"
)

func choiceChunk(content, finish string) types.StreamChunk {
	return types.StreamChunk{Choices: []types.Choice{{Delta: types.Delta{Content: content}, FinishReason: finish}}}
}

func flatChunk(typ, content string) types.StreamChunk {
	return types.StreamChunk{Type: typ, Content: content}
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name  string
		shape Normalizer
		chunk types.StreamChunk
		want  Fragment
	}{
		{"choices content", ChoicesShape{}, choiceChunk("Hel", ""), Fragment{Content: "Hel"}},
		{"choices finish", ChoicesShape{}, choiceChunk("", "stop"), Fragment{FinishReason: "stop"}},
		{"choices ignores extra choices", ChoicesShape{}, types.StreamChunk{Choices: []types.Choice{
			{Delta: types.Delta{Content: "a"}},
			{Index: 1, Delta: types.Delta{Content: "b"}, FinishReason: "length"},
		}}, Fragment{Content: "a"}},
		{"choices ignores flat content", ChoicesShape{}, flatChunk("content", "x"), Fragment{}},
		{"choices carries model and ids", ChoicesShape{}, types.StreamChunk{Model: "m", UserMessageID: "u", AssistantMessageID: "a"},
			Fragment{Model: "m", UserMessageID: "u", AssistantMessageID: "a"}},
		{"flat content", FlatShape{}, flatChunk("content", "Hel"), Fragment{Content: "Hel"}},
		{"flat untyped content", FlatShape{}, flatChunk("", "Hel"), Fragment{Content: "Hel"}},
		{"flat done", FlatShape{}, flatChunk("done", ""), Fragment{FinishReason: "stop"}},
		{"flat done with reason", FlatShape{}, types.StreamChunk{Type: "done", FinishReason: "length"}, Fragment{FinishReason: "length"}},
		{"flat ignores other types", FlatShape{}, flatChunk("usage", "42"), Fragment{}},
		{"flat ignores choices", FlatShape{}, choiceChunk("x", "stop"), Fragment{}},
		{"auto choices", AutoShape{}, choiceChunk("x", "stop"), Fragment{Content: "x", FinishReason: "stop"}},
		{"auto flat", AutoShape{}, flatChunk("content", "y"), Fragment{Content: "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.Normalize(tt.chunk); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFlatShapeDecodedFinishReason(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"type":"done","finish_reason":"length"}`, "length"},
		{`{"type":"done","finishReason":"content_filter"}`, "content_filter"},
		{`{"type":"done"}`, DefaultFinishReason},
	}
	for _, tt := range tests {
		chunk, err := types.DecodeStreamChunk([]byte(tt.body))
		if err != nil {
			t.Fatalf("decode %s: %v", tt.body, err)
		}
		if got := (FlatShape{}).Normalize(chunk).FinishReason; got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.body, tt.want, got)
		}
	}
}

func TestNormalizeDoesNotMutateChunk(t *testing.T) {
	c := choiceChunk("Hel", "stop")
	c.Model = "m"
	before := c.Choices[0]
	AutoShape{}.Normalize(c)
	if c.Choices[0] != before || c.Model != "m" {
		t.Error("chunk was modified")
	}
}

func TestContentOf(t *testing.T) {
	if got := ContentOf(choiceChunk("a", "")); got != "a" {
		t.Errorf("ContentOf(choices) = %q", got)
	}
	if got := ContentOf(flatChunk("content", "b")); got != "b" {
		t.Errorf("ContentOf(flat) = %q", got)
	}
}

type upperShape struct{}

func (upperShape) Name() string { return "upper" }

func (upperShape) Normalize(c types.StreamChunk) Fragment {
	f := ChoicesShape{}.Normalize(c)
	f.Content = strings.ToUpper(f.Content)
	return f
}

func TestShapeRegistry(t *testing.T) {
	n, err := Shape("")
	if err != nil || n.Name() != ShapeChoices {
		t.Fatalf("Shape(\"\") = %v, %v; want choices", n, err)
	}
	for _, name := range []string{ShapeChoices, ShapeFlat, ShapeAuto} {
		if _, err := Shape(name); err != nil {
			t.Errorf("Shape(%q): %v", name, err)
		}
	}

	if _, err := Shape("xml"); err == nil || !strings.Contains(err.Error(), "choices") {
		t.Errorf("expected unknown-shape error listing registered shapes, got %v", err)
	}

	RegisterShape(upperShape{})
	n, err = Shape("upper")
	if err != nil {
		t.Fatalf("Shape(upper): %v", err)
	}
	if got := n.Normalize(choiceChunk("hi", "")).Content; got != "HI" {
		t.Errorf("custom shape content = %q", got)
	}
	if !slices.Contains(Shapes(), "upper") || !slices.IsSorted(Shapes()) {
		t.Errorf("Shapes() = %v", Shapes())
	}
}
