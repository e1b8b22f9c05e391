package chatroutes

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/chatroutes/chatroutes-go/errors"
	"github.com/chatroutes/chatroutes-go/httpclient"
)

// envelope is the {success, data, message} wrapper around every JSON response.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type envelopeResponse = httpclient.TypedResponse[envelope]

func (e *envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (e *envelope) hasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// checkEnvelope rejects success:false bodies.
func checkEnvelope(resp *envelopeResponse, fallback string) error {
	if resp.Data.Success != nil && !*resp.Data.Success {
		return errors.FromEnvelope(resp.StatusCode, resp.Data.text(), fallback)
	}
	return nil
}

// unwrap returns the envelope's data as T. A failed or data-less envelope
// becomes an API error carrying the server message.
func unwrap[T any](resp *envelopeResponse, fallback string) (T, error) {
	var out T
	if err := checkEnvelope(resp, fallback); err != nil {
		return out, err
	}
	if !resp.Data.hasData() {
		return out, errors.FromEnvelope(resp.StatusCode, resp.Data.text(), fallback)
	}
	if err := json.Unmarshal(resp.Data.Data, &out); err != nil {
		return out, errors.API(resp.StatusCode, fmt.Sprintf("decode response data: %v", err)).WithCause(err)
	}
	return out, nil
}

// unwrapField decodes data[key] when data is an object holding key, and
// data itself otherwise.
func unwrapField[T any](resp *envelopeResponse, key, fallback string) (T, error) {
	raw, err := unwrap[json.RawMessage](resp, fallback)
	if err != nil {
		var zero T
		return zero, err
	}
	if inner, ok := field(raw, key); ok {
		raw = inner
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.API(resp.StatusCode, fmt.Sprintf("decode response data: %v", err)).WithCause(err)
	}
	return out, nil
}

func field(raw json.RawMessage, key string) (json.RawMessage, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}
