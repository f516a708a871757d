package websocket

// DecoderConfig is the subset of spec.md §3's immutable WebSocket decoder
// configuration this module actually enforces: max-frame-payload-length.
// Mask handling and extension negotiation happen in the code that reads
// frames off the wire, outside this module's scope (see DESIGN.md); a
// DecoderConfig carrying fields this module can never consult would just
// be declared-but-unconsumed, so it carries only what DeflateDecoder uses.
// Built with the same DefaultOptions/Apply idiom the teacher uses for its
// own Options.
type DecoderConfig struct {
	MaxFramePayloadLength int64 `json:"maxFramePayloadLength"`
}

// DefaultDecoderConfig mirrors the teacher's DefaultOptions pattern: a
// package-level value built once via Apply.
var DefaultDecoderConfig = (&DecoderConfig{
	MaxFramePayloadLength: 1 << 20,
}).Apply()

// Apply validates and returns the receiver, matching Options.Apply in the
// teacher's websocket/options.go.
func (c *DecoderConfig) Apply() *DecoderConfig {
	if c.MaxFramePayloadLength <= 0 {
		c.MaxFramePayloadLength = 1 << 20
	}
	return c
}

// Extension is the composition-over-inheritance stand-in for the source's
// append_frame_tail/new_rsv subclass hooks (spec.md §4.5.2).
type Extension struct {
	// AppendFrameTail decides whether the mandatory RFC 7692 4-byte
	// trailer (00 00 FF FF) is appended before draining the inflater.
	// Defaults to "true for final fragments" when nil.
	AppendFrameTail func(f *Frame) bool
	// NewRSV computes the outgoing frame's reserved bits from the
	// incoming ones. Defaults to clearing RSV1 when nil.
	NewRSV func(f *Frame) (rsv1, rsv2, rsv3 bool)
}

func (e Extension) appendFrameTail(f *Frame) bool {
	if e.AppendFrameTail != nil {
		return e.AppendFrameTail(f)
	}
	return f.Final
}

func (e Extension) newRSV(f *Frame) (bool, bool, bool) {
	if e.NewRSV != nil {
		return e.NewRSV(f)
	}
	return false, f.RSV2, f.RSV3
}

// DefaultExtension implements permessage-deflate's own rules: append the
// trailer on the final fragment, clear RSV1 on the way out.
var DefaultExtension = Extension{}

// ExtensionFilter decides whether a given frame is subject to
// decompression; always non-nil per spec.md §4.5.2.
type ExtensionFilter func(f *Frame) bool

// DataFrameFilter is the default ExtensionFilter: every data frame is
// eligible, no control frame ever is.
func DataFrameFilter(f *Frame) bool { return f.IsData() }
