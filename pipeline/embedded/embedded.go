// Package embedded implements the in-memory, single-handler pipeline that
// hosts a codec implementation (zlib/deflate inflater, permessage-deflate
// inflater) on behalf of a real pipeline handler such as httpcodec's
// ContentDecoder or websocket's DeflateDecoder.
package embedded

import (
	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/go-netty/go-netty-codec-core/pipeline"
	"github.com/google/uuid"
)

// noopTransport satisfies pipeline.Transport for an embedded pipeline: it
// has no real connection to read from or close, since all input arrives
// via WriteInbound.
type noopTransport struct{}

func (noopTransport) Read()        {}
func (noopTransport) Close() error { return nil }

// Pipeline is a single-owner, single-threaded host for exactly one
// pipeline.Handler (typically a MessageToMessageDecoder wrapping an
// inflater). It must not be shared across outer connections: the ID field
// exists precisely so two instances alive in the same process can be told
// apart in logs.
type Pipeline struct {
	ID       uuid.UUID
	inner    pipeline.Pipeline
	outbound []interface{}
	finished bool
}

// New builds an embedded pipeline hosting handler.
func New(handler pipeline.Handler) *Pipeline {
	p := &Pipeline{ID: uuid.New()}
	p.inner = pipeline.NewPipeline(noopTransport{})
	p.inner.AddLast("codec", handler)
	p.inner.AddLast("sink", &sinkHandler{p: p})
	return p
}

// sinkHandler sits immediately after the hosted handler so whatever it
// forwards via ctx.FireChannelRead lands in p.outbound instead of falling
// off the tail and being released. It must be added after the codec
// handler so that, relative to the codec, it is the *next* inbound
// context.
type sinkHandler struct {
	pipeline.NopHandler
	p *Pipeline
}

func (s *sinkHandler) ChannelRead(ctx pipeline.HandlerContext, msg interface{}) {
	s.p.outbound = append(s.p.outbound, msg)
}

// WriteInbound feeds buf through the hosted handler. The embedded pipeline
// takes ownership of buf's reference (callers that want to keep using buf
// afterward must retain it first).
func (p *Pipeline) WriteInbound(buf buffer.Buf) {
	p.inner.FireChannelRead(buf)
}

// ReadInbound drains one produced message, if any. The caller takes
// ownership of the returned buffer's reference.
func (p *Pipeline) ReadInbound() (buffer.Buf, bool) {
	if len(p.outbound) == 0 {
		return nil, false
	}
	msg := p.outbound[0]
	p.outbound = p.outbound[1:]
	buf, _ := msg.(buffer.Buf)
	return buf, true
}

// Finish marks end-of-stream and reports whether anything remains queued
// for ReadInbound.
func (p *Pipeline) Finish() (bool, error) {
	p.finished = true
	return len(p.outbound) > 0, nil
}

// FinishAndReleaseAll finishes the pipeline and releases every buffer
// still queued, for the cleanup path where nobody will drain them.
func (p *Pipeline) FinishAndReleaseAll() error {
	_, err := p.Finish()
	for _, msg := range p.outbound {
		if b, ok := msg.(buffer.Buf); ok {
			_ = b.Release()
		}
	}
	p.outbound = nil
	return err
}
