package chatroutes

import (
	"context"
	"net/url"
	"strings"

	"github.com/chatroutes/chatroutes-go/httpclient"
)

// path joins escaped segments below the base URL.
func path(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func (c *Client) get(ctx context.Context, p string, opts ...httpclient.RequestOption) (*envelopeResponse, error) {
	return httpclient.Get[envelope](c.http, ctx, p, opts...)
}

func (c *Client) post(ctx context.Context, p string, body any) (*envelopeResponse, error) {
	if body == nil {
		body = struct{}{}
	}
	return httpclient.Post[envelope](c.http, ctx, p, body)
}

func (c *Client) patch(ctx context.Context, p string, body any) (*envelopeResponse, error) {
	return httpclient.Patch[envelope](c.http, ctx, p, body)
}

// remove issues a DELETE and checks only the envelope's success flag.
func (c *Client) remove(ctx context.Context, p, fallback string) error {
	resp, err := httpclient.Delete[envelope](c.http, ctx, p)
	if err != nil {
		return err
	}
	return checkEnvelope(resp, fallback)
}
