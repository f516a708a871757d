package websocket

import (
	"bytes"
	"io"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/go-netty/go-netty-codec-core/httpcodec"
	"github.com/go-netty/go-netty-codec-core/pipeline"
	"github.com/go-netty/go-netty-codec-core/pipeline/embedded"
	"github.com/gobwas/ws"
	"github.com/klauspost/compress/flate"
)

// frameTail is the mandatory RFC 7692 4-byte trailer appended to a raw
// deflate stream when a message's final fragment is being decoded, so the
// inflater always has a complete deflate block to consume.
var frameTail = [4]byte{0x00, 0x00, 0xFF, 0xFF}

// DeflateDecoder is the C5 permessage-deflate frame decoder: a pipeline
// handler that replaces each eligible inbound Frame with one carrying the
// inflated payload, per the algorithm of spec.md §4.5.2.
type DeflateDecoder struct {
	pipeline.NopHandler

	// NoContext, if true, tears the inflater down between messages so no
	// LZ77 context carries over (RFC 7692 "no context takeover").
	NoContext bool
	// Filter decides whether a frame is subject to decompression. Must be
	// non-nil; DataFrameFilter is the usual choice.
	Filter    ExtensionFilter
	Extension Extension
	Allocator buffer.Allocator
	// Config bounds the incoming compressed payload size; a frame whose
	// payload exceeds Config.MaxFramePayloadLength is rejected before it
	// reaches the inflater. Defaults to DefaultDecoderConfig.
	Config *DecoderConfig

	decoder *embedded.Pipeline
}

// NewDeflateDecoder builds a decoder with DataFrameFilter and the default
// Extension behavior.
func NewDeflateDecoder(noContext bool) *DeflateDecoder {
	return &DeflateDecoder{
		NoContext: noContext,
		Filter:    DataFrameFilter,
		Extension: DefaultExtension,
		Allocator: buffer.Default(),
		Config:    DefaultDecoderConfig,
	}
}

func (d *DeflateDecoder) ChannelRead(ctx pipeline.HandlerContext, msg interface{}) {
	frame, ok := msg.(*Frame)
	if !ok || !d.Filter(frame) {
		ctx.FireChannelRead(msg)
		return
	}

	out, err := d.decodeFrame(frame)
	// decodeFrame always fully consumes frame.Payload, whether it hands back
	// a replacement frame (carrying a freshly inflated composite payload) or
	// fails: the original reference is never forwarded as-is, so it must be
	// released here exactly once regardless of outcome.
	_ = frame.Payload.Release()
	if err != nil {
		ctx.FireExceptionCaught(err)
		return
	}
	ctx.FireChannelRead(out)
}

func (d *DeflateDecoder) HandlerRemoved(ctx pipeline.HandlerContext) { d.cleanup() }
func (d *DeflateDecoder) ChannelInactive(ctx pipeline.HandlerContext) {
	d.cleanup()
	ctx.FireChannelInactive()
}

func (d *DeflateDecoder) cleanup() {
	if d.decoder == nil {
		return
	}
	_ = d.decoder.FinishAndReleaseAll()
	d.decoder = nil
}

// decodeFrame implements spec.md §4.5.2 steps 1-8.
func (d *DeflateDecoder) decodeFrame(frame *Frame) (*Frame, error) {
	if d.decoder == nil {
		if frame.OpCode != ws.OpText && frame.OpCode != ws.OpBinary {
			return nil, httpcodec.NewCodecError(httpcodec.KindUnexpectedInitialFrameType, nil)
		}
		d.decoder = embedded.New(pipeline.NewMessageToMessageDecoder(newRawInflater(d.Allocator)))
	}

	if cfg := d.Config; cfg != nil && int64(frame.Payload.ReadableBytes()) > cfg.MaxFramePayloadLength {
		return nil, httpcodec.NewCodecError(httpcodec.KindFramePayloadTooLarge, nil)
	}

	readable := frame.Payload.ReadableBytes() > 0

	if err := frame.Payload.Retain(); err != nil {
		return nil, err
	}
	d.decoder.WriteInbound(frame.Payload)

	if d.Extension.appendFrameTail(frame) {
		tail := buffer.NewHeap(4, 4)
		_, _ = tail.WriteBytes(frameTail[:])
		d.decoder.WriteInbound(tail)
	}

	composite := d.Allocator.CompositeDirectBuffer()
	for {
		buf, ok := d.decoder.ReadInbound()
		if !ok {
			break
		}
		if buf.ReadableBytes() == 0 {
			_ = buf.Release()
			continue
		}
		if err := composite.AddComponent(true, buf); err != nil {
			_ = buf.Release()
			_ = composite.Release()
			return nil, err
		}
		_ = buf.Release()
	}

	if readable && composite.NumComponents() == 0 {
		_ = composite.Release()
		return nil, httpcodec.NewCodecError(httpcodec.KindCannotReadUncompressed, nil)
	}

	if frame.Final && d.NoContext {
		d.cleanup()
	}

	var outOpcode ws.OpCode
	switch frame.OpCode {
	case ws.OpText, ws.OpBinary, ws.OpContinuation:
		outOpcode = frame.OpCode
	default:
		_ = composite.Release()
		return nil, httpcodec.NewCodecError(httpcodec.KindUnexpectedFrameType, nil)
	}

	rsv1, rsv2, rsv3 := d.Extension.newRSV(frame)
	return &Frame{
		OpCode:     outOpcode,
		Final:      frame.Final,
		RSV1:       rsv1,
		RSV2:       rsv2,
		RSV3:       rsv3,
		Payload:    composite,
		ExpectUTF8: frame.ExpectUTF8,
	}, nil
}

// rawInflater adapts a raw (no zlib/gzip wrapper) klauspost/compress/flate
// reader to the embedded pipeline's Decoder contract, buffering written
// bytes and re-running inflation from the start on each drain for the same
// reason httpcodec's streamInflateDecoder does: this core carries no
// incremental-state streaming inflater binding.
type rawInflater struct {
	allocator buffer.Allocator
	buffered  []byte
	emitted   int
}

func newRawInflater(allocator buffer.Allocator) *rawInflater {
	return &rawInflater{allocator: allocator}
}

// Decode does not release buf itself: the wrapping MessageToMessageDecoder
// releases it once, unconditionally, after this call returns.
func (r *rawInflater) Decode(ctx pipeline.HandlerContext, msg interface{}, out *[]interface{}) error {
	buf, ok := msg.(buffer.Buf)
	if !ok {
		return nil
	}

	chunk := make([]byte, buf.ReadableBytes())
	if err := buf.GetBytes(buf.ReaderIndex(), chunk); err != nil {
		return err
	}
	r.buffered = append(r.buffered, chunk...)

	fr := flate.NewReader(bytes.NewReader(r.buffered))
	defer fr.Close()
	decoded, err := io.ReadAll(fr)
	if err != nil && len(decoded) == 0 {
		return nil
	}

	fresh := decoded[r.emitted:]
	r.emitted = len(decoded)
	if len(fresh) > 0 {
		// Allocated as a direct buffer, not heap: these components feed the
		// composite the caller builds via Allocator.CompositeDirectBuffer.
		result := r.allocator.DirectBuffer(len(fresh))
		if _, werr := result.WriteBytes(fresh); werr != nil {
			return werr
		}
		*out = append(*out, result)
	}
	return nil
}
