package httpcodec

import (
	"strings"

	"github.com/go-netty/go-netty-codec-core/pipeline"
	"github.com/go-netty/go-netty-codec-core/pipeline/embedded"
	"github.com/rs/zerolog"
)

// ContentDecoder is the C3 pipeline handler: it sits immediately after the
// HTTP object decoder and transparently decompresses bodies per the
// five-step algorithm of spec.md §4.3.
type ContentDecoder struct {
	pipeline.NopHandler

	Decompressor Decompressor
	Logger       zerolog.Logger

	decoder          *embedded.Pipeline
	continueResponse bool
	needRead         bool
}

// NewContentDecoder builds a ContentDecoder using decompressor. A nil
// decompressor defaults to GzipDeflateDecompressor{}.
func NewContentDecoder(decompressor Decompressor) *ContentDecoder {
	if decompressor == nil {
		decompressor = GzipDeflateDecompressor{}
	}
	return &ContentDecoder{Decompressor: decompressor, Logger: zerolog.Nop()}
}

func (d *ContentDecoder) ChannelRead(ctx pipeline.HandlerContext, msg interface{}) {
	out, err := d.decode(msg)
	// d.decode never forwards msg's own payload reference unchanged: every
	// pass-through branch in decodeFull/decodeContent retains a fresh
	// reference before appending msg (or a copy of it) to out, so releasing
	// the inbound payload here once, unconditionally, leaves the forwarded
	// reference balanced and drops it cleanly when msg was fully consumed.
	releaseInbound(msg)
	if err != nil {
		ctx.FireExceptionCaught(err)
		d.needRead = true
		return
	}
	for _, m := range out {
		ctx.FireChannelRead(m)
	}
	d.needRead = len(out) == 0
}

// releaseInbound releases the buffer payload, if any, carried by an
// HttpObject delivered to ChannelRead. Message carries no payload; Content
// and FullHttpMessage do.
func releaseInbound(msg interface{}) {
	switch v := msg.(type) {
	case *Content:
		if v.Payload != nil {
			_ = v.Payload.Release()
		}
	case *FullHttpMessage:
		if v.Payload != nil {
			_ = v.Payload.Release()
		}
	}
}

func (d *ContentDecoder) ChannelReadComplete(ctx pipeline.HandlerContext) {
	ctx.FireChannelReadComplete()
	if d.needRead && !ctx.Pipeline().AutoRead() {
		ctx.Read()
	}
}

func (d *ContentDecoder) HandlerRemoved(ctx pipeline.HandlerContext) {
	d.cleanup()
}

func (d *ContentDecoder) ChannelInactive(ctx pipeline.HandlerContext) {
	d.cleanup()
	ctx.FireChannelInactive()
}

func (d *ContentDecoder) cleanup() {
	if d.decoder == nil {
		return
	}
	if err := d.decoder.FinishAndReleaseAll(); err != nil {
		d.Logger.Debug().Err(err).Msg("content decoder cleanup")
	}
	d.decoder = nil
}

func (d *ContentDecoder) decode(msg interface{}) ([]interface{}, error) {
	switch v := msg.(type) {
	case *FullHttpMessage:
		return d.decodeFull(v)
	case *Message:
		return d.decodeHeaders(v)
	case *Content:
		return d.decodeContent(v)
	default:
		return []interface{}{msg}, nil
	}
}

// decodeFull handles a FullHttpMessage by running the same headers-bearing
// algorithm as decodeHeaders, then feeding its body through step 4 as if
// it were the terminating content chunk.
func (d *ContentDecoder) decodeFull(full *FullHttpMessage) ([]interface{}, error) {
	headerOut, err := d.decodeHeaders(full.Message)
	if err != nil {
		return nil, err
	}
	// decodeHeaders already retained/forwarded the pass-through case as the
	// original object; a full message pass-through needs to stay a full
	// message, not degrade to a bare headers object.
	if d.decoder == nil && len(headerOut) == 1 {
		if _, ok := headerOut[0].(*Message); ok {
			_ = full.Payload.Retain()
			return []interface{}{full}, nil
		}
	}
	contentOut, err := d.decodeContent(NewLastContent(full.Payload, full.TrailingHeaders, full.Result()))
	if err != nil {
		return nil, err
	}
	return append(headerOut, contentOut...), nil
}

func (d *ContentDecoder) decodeHeaders(msg *Message) ([]interface{}, error) {
	if !msg.IsRequest && msg.Status == 100 {
		d.continueResponse = true
		return []interface{}{msg}, nil
	}
	if d.continueResponse {
		return []interface{}{msg}, nil
	}

	d.cleanup()

	encoding, _ := msg.Headers.Get("Content-Encoding")
	encoding = strings.TrimSpace(encoding)
	if encoding == "" {
		encoding = "identity"
	}

	dec, ok := d.Decompressor.NewDecoder(encoding)
	if !ok {
		return []interface{}{msg}, nil
	}
	d.decoder = dec

	rewritten := msg.Clone()
	if rewritten.Headers.Contains("Content-Length") {
		rewritten.Headers.Remove("Content-Length")
		rewritten.Headers.Set("Transfer-Encoding", "chunked")
	}
	target := d.Decompressor.TargetEncoding(encoding)
	if target == "identity" {
		rewritten.Headers.Remove("Content-Encoding")
	} else {
		rewritten.Headers.Set("Content-Encoding", target)
	}
	return []interface{}{rewritten}, nil
}

func (d *ContentDecoder) decodeContent(c *Content) ([]interface{}, error) {
	if d.continueResponse {
		if c.Last {
			d.continueResponse = false
		}
		if c.Payload != nil {
			_ = c.Payload.Retain()
		}
		return []interface{}{c}, nil
	}
	if d.decoder == nil {
		if c.Payload != nil {
			_ = c.Payload.Retain()
		}
		return []interface{}{c}, nil
	}

	var out []interface{}
	if c.Payload != nil {
		_ = c.Payload.Retain()
		d.decoder.WriteInbound(c.Payload)
		for {
			buf, ok := d.decoder.ReadInbound()
			if !ok {
				break
			}
			if buf.ReadableBytes() == 0 {
				_ = buf.Release()
				continue
			}
			out = append(out, NewContent(buf))
		}
	}

	if !c.Last {
		return out, nil
	}

	if _, err := d.decoder.Finish(); err != nil {
		d.Logger.Debug().Err(err).Msg("content decoder finish")
	}
	for {
		buf, ok := d.decoder.ReadInbound()
		if !ok {
			break
		}
		if buf.ReadableBytes() == 0 {
			_ = buf.Release()
			continue
		}
		out = append(out, NewContent(buf))
	}
	d.decoder = nil

	if c.TrailingHeaders == nil || len(c.TrailingHeaders.Entries()) == 0 {
		out = append(out, NewLastContent(nil, nil, Success()))
	} else {
		out = append(out, NewLastContent(nil, c.TrailingHeaders, Success()))
	}
	return out, nil
}

