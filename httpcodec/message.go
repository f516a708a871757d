package httpcodec

import "github.com/go-netty/go-netty-codec-core/buffer"

// DecodeResult carries the success/failure outcome an HttpObject must
// report per spec.md §3 ("An HTTP object must carry a decoder result").
type DecodeResult struct {
	Success bool
	Cause   error
}

// Success returns a successful DecodeResult.
func Success() DecodeResult { return DecodeResult{Success: true} }

// Failure returns a failed DecodeResult carrying cause.
func Failure(cause error) DecodeResult { return DecodeResult{Success: false, Cause: cause} }

// HttpObject is the abstract union from spec.md §3: every concrete type
// below satisfies it purely as a marker plus its decode result.
type HttpObject interface {
	Result() DecodeResult
}

// Message is an HTTP request or response headers object: version,
// method/URI or status, and a header map. Exactly one of Method/URI
// (request) or Status (response) is meaningful, distinguished by IsRequest.
type Message struct {
	IsRequest bool
	Version   string
	Method    string
	URI       string
	Status    int
	Reason    string
	Headers   *Headers
	result    DecodeResult
}

func (m *Message) Result() DecodeResult { return m.result }

// NewRequestMessage builds a request headers object.
func NewRequestMessage(method, uri, version string, headers *Headers) *Message {
	return &Message{IsRequest: true, Method: method, URI: uri, Version: version, Headers: headers, result: Success()}
}

// NewResponseMessage builds a response headers object.
func NewResponseMessage(status int, reason, version string, headers *Headers) *Message {
	return &Message{IsRequest: false, Status: status, Reason: reason, Version: version, Headers: headers, result: Success()}
}

// Clone returns a plain headers-only copy sharing the same DecodeResult,
// per SPEC_FULL.md's resolution of Open Question (a): the plain copy of a
// full message preserves the original decoder result.
func (m *Message) Clone() *Message {
	cp := *m
	cp.Headers = m.Headers.Clone()
	return &cp
}

// Content is an HTTP body chunk owning a buffer payload. Last marks the
// terminating chunk of a message, which may carry trailing headers.
type Content struct {
	Payload         buffer.Buf
	Last            bool
	TrailingHeaders *Headers
	result          DecodeResult
}

func (c *Content) Result() DecodeResult { return c.result }

// NewContent wraps payload as a non-terminal content chunk with a
// successful decode result.
func NewContent(payload buffer.Buf) *Content {
	return &Content{Payload: payload, result: Success()}
}

// NewLastContent builds the terminating content chunk, optionally carrying
// trailing headers (nil/empty means no trailers).
func NewLastContent(payload buffer.Buf, trailing *Headers, result DecodeResult) *Content {
	return &Content{Payload: payload, Last: true, TrailingHeaders: trailing, result: result}
}

// FullHttpMessage is both a Message and its terminating Content in one
// object: headers plus final content in a single HttpObject, per
// spec.md §3.
type FullHttpMessage struct {
	*Message
	Payload         buffer.Buf
	TrailingHeaders *Headers
}

// NewFullHttpMessage builds a full message from a headers-only Message and
// its complete body.
func NewFullHttpMessage(msg *Message, payload buffer.Buf, trailing *Headers) *FullHttpMessage {
	return &FullHttpMessage{Message: msg, Payload: payload, TrailingHeaders: trailing}
}
