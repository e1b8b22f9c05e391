// Package mockserver is an in-memory fake of the ChatRoutes HTTP API built
// on gin. It serves the same {success, data, message} envelopes and the same
// streaming wire shapes as the hosted service, which makes it suitable for
// client tests and for offline development through `chatroutes mock`.
//
// Assistant replies are deterministic: the reply to "hi" is "You said: hi".
// Streams can be made to fail after n chunks by sending the
// X-Mock-Fail-After header.
package mockserver
