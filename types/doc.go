// Package types defines the ChatRoutes wire model shared by the transport,
// the stream aggregator, and the resource clients.
//
// Field names follow the camelCase JSON used by the API. Optional fields are
// tagged omitempty; optional numbers use pointers so that zero can be sent.
package types
