package chatroutes

import (
	"fmt"
	"net/http"

	"github.com/chatroutes/chatroutes-go/httpclient"
	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/observability"
	"github.com/chatroutes/chatroutes-go/stream"
)

// Client is a ChatRoutes API client. It is safe for concurrent use.
type Client struct {
	Conversations *Conversations
	Messages      *Messages
	Branches      *Branches
	Checkpoints   *Checkpoints

	http       *httpclient.Adapter
	aggregator *stream.Aggregator
	config     Config
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	log        *logger.Logger
	opener     stream.Opener
	metrics    *observability.StreamMetrics
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger used by the client and its stream aggregator.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithOpener replaces the HTTP stream transport, e.g. with a replayed
// recording.
func WithOpener(op stream.Opener) Option {
	return func(o *options) { o.opener = op }
}

// WithStreamMetrics sets the instruments stream calls record into.
func WithStreamMetrics(m *observability.StreamMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}

	httpCfg := httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.SchemeAuth(authScheme, cfg.APIKey),
		Headers: cfg.Headers,
	}
	if cfg.MaxRetries > 0 {
		retry := httpclient.DefaultRetryConfig()
		retry.MaxAttempts = cfg.MaxRetries + 1
		httpCfg.Retry = retry
	}
	var httpOpts []httpclient.Option
	if o.httpClient != nil {
		httpOpts = append(httpOpts, httpclient.WithHTTPClient(o.httpClient))
	}
	adapter, err := httpclient.New(httpCfg, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("chatroutes: create http adapter: %w", err)
	}

	shape, err := stream.Shape(cfg.StreamShape)
	if err != nil {
		return nil, err
	}
	opener := o.opener
	if opener == nil {
		opener = stream.NewHTTPOpener(adapter)
	}
	streamOpts := []stream.Option{stream.WithShape(shape), stream.WithLogger(o.log)}
	if cfg.StrictIdentifiers {
		streamOpts = append(streamOpts, stream.WithStrictIdentifiers())
	}
	if o.metrics != nil {
		streamOpts = append(streamOpts, stream.WithMetrics(o.metrics))
	}

	c := &Client{
		http:       adapter,
		aggregator: stream.NewAggregator(opener, streamOpts...),
		config:     cfg,
		log:        o.log.WithComponent("chatroutes"),
	}
	c.Conversations = &Conversations{c: c}
	c.Messages = &Messages{c: c}
	c.Branches = &Branches{c: c}
	c.Checkpoints = &Checkpoints{c: c}
	return c, nil
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() Config { return c.config }

// Aggregator returns the stream aggregator used by Messages.Stream.
func (c *Client) Aggregator() *stream.Aggregator { return c.aggregator }

// Close releases idle connections.
func (c *Client) Close() error { return c.http.Close() }
