package httpcodec

import (
	"fmt"
)

// Kind enumerates the codec_error subvariants from spec.md §7.
type Kind int

const (
	KindInvalidHTTPMessage Kind = iota
	KindUnexpectedInitialFrameType
	KindUnexpectedFrameType
	KindCannotReadUncompressed
	KindFramePayloadTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindInvalidHTTPMessage:
		return "invalid_http_message"
	case KindUnexpectedInitialFrameType:
		return "unexpected_initial_frame_type"
	case KindUnexpectedFrameType:
		return "unexpected_frame_type"
	case KindCannotReadUncompressed:
		return "cannot_read_uncompressed"
	case KindFramePayloadTooLarge:
		return "frame_payload_too_large"
	default:
		return "unknown"
	}
}

// CodecError is the codec_error family from spec.md §7: a decode failure
// tagged with which subvariant it is, optionally wrapping a lower-level
// cause (e.g. a malformed gzip stream).
type CodecError struct {
	Kind  Kind
	Cause error
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("httpcodec: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("httpcodec: %s", e.Kind)
}

func (e *CodecError) Unwrap() error { return e.Cause }

// NewCodecError builds a CodecError, wrapping a non-nil cause with
// fmt.Errorf the same way the teacher wraps ws.ErrHeaderLengthUnexpected
// and friends rather than attaching a bespoke framework-exception type.
func NewCodecError(kind Kind, cause error) *CodecError {
	if cause != nil {
		cause = fmt.Errorf("%s: %w", kind, cause)
	}
	return &CodecError{Kind: kind, Cause: cause}
}
