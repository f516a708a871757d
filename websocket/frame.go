package websocket

import (
	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/gobwas/ws"
)

// Frame is the WebSocket frame data model from spec.md §3: tagged by
// opcode, carrying the three reserved bits, the final-fragment flag, and a
// payload buffer. OpCode reuses gobwas/ws's vocabulary directly rather
// than re-declaring the wire-exact opcode constants.
type Frame struct {
	OpCode           ws.OpCode
	Final            bool
	RSV1, RSV2, RSV3 bool
	Payload          buffer.Buf
	// ExpectUTF8 marks a text frame whose payload must be valid UTF-8;
	// populated by the upstream frame reader, inspected by no part of this
	// decoder directly but threaded through so downstream validation can
	// find it on the reconstructed frame.
	ExpectUTF8 bool
}

// RSV packs the three reserved bits using gobwas/ws's own bit layout.
func (f *Frame) RSV() byte {
	return ws.Rsv(f.RSV1, f.RSV2, f.RSV3)
}

// IsControl reports whether OpCode identifies a control frame (ping, pong,
// close) as opposed to a data frame (text, binary, continuation).
func (f *Frame) IsControl() bool {
	return f.OpCode == ws.OpPing || f.OpCode == ws.OpPong || f.OpCode == ws.OpClose
}

// IsData reports whether OpCode identifies a data frame.
func (f *Frame) IsData() bool {
	return f.OpCode == ws.OpText || f.OpCode == ws.OpBinary || f.OpCode == ws.OpContinuation
}
