// Package httpclient is the transport used by the ChatRoutes client.
//
// The Adapter owns every HTTP protocol concern: URL resolution, JSON bodies,
// authentication, default headers, request ids, error classification and
// optional retry. Two entry points exist:
//
//   - Do sends a request and returns the complete body (JSON over HTTP).
//   - DoStream sends a request and hands back a StreamResponse whose SSE
//     reader (or raw body for NDJSON) yields events as they arrive.
//
// # Basic Usage
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.chatroutes.com/api/v1",
//	    Auth:    httpclient.SchemeAuth("ApiKey", key),
//	})
//
//	conv, err := httpclient.Get[Conversation](a, ctx, "/conversations/c1")
//
// Errors are *errors.Error values from the chatroutes errors package. HTTP
// statuses >= 400 are mapped before any stream is handed out, so a failed
// DoStream never yields a half-open stream.
package httpclient
