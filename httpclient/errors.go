package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/chatroutes/chatroutes-go/errors"
)

// ClassifyStatusCode converts an HTTP status into the client's error taxonomy.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte, headers map[string]string) error {
	if e := errors.FromStatus(statusCode, body, headers); e != nil {
		return e
	}
	return nil
}

// transportError wraps a failure that produced no HTTP response.
func transportError(ctx context.Context, err error) *errors.Error {
	if ctxErr := ctx.Err(); ctxErr != nil && !stderrors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return errors.Network(err)
}
