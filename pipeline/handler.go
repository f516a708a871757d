// Package pipeline implements a minimal Netty-style handler chain: ordered
// Handler instances wired front-to-back, each seeing inbound events flow
// toward the tail and outbound events flow toward the head.
package pipeline

import "github.com/go-netty/go-netty-codec-core/buffer"

// Handler is the unit of work in a Pipeline. Every method receives the
// HandlerContext it is installed on so it can forward the event, short
// circuit it, or substitute a different message.
//
// A Handler that only cares about a subset of events should embed
// NopHandler and override what it needs.
type Handler interface {
	HandlerAdded(ctx HandlerContext)
	HandlerRemoved(ctx HandlerContext)

	ChannelActive(ctx HandlerContext)
	ChannelInactive(ctx HandlerContext)

	// ChannelRead delivers one inbound message. msg is typically a
	// buffer.Buf or an HttpObject/Frame produced by an upstream handler.
	ChannelRead(ctx HandlerContext, msg interface{})
	// ChannelReadComplete fires once per read-loop iteration, after zero
	// or more ChannelRead calls.
	ChannelReadComplete(ctx HandlerContext)

	// Write delivers one outbound message toward the transport.
	Write(ctx HandlerContext, msg interface{})

	// ExceptionCaught handles an error raised at or before this handler's
	// position in the chain (errors propagate toward the tail).
	ExceptionCaught(ctx HandlerContext, err error)
}

// NopHandler is an embeddable Handler whose methods forward every event
// unchanged. Concrete handlers embed it and override only what they need,
// the same way Netty's ChannelInboundHandlerAdapter works.
type NopHandler struct{}

func (NopHandler) HandlerAdded(ctx HandlerContext)   {}
func (NopHandler) HandlerRemoved(ctx HandlerContext) {}
func (NopHandler) ChannelActive(ctx HandlerContext)   { ctx.FireChannelActive() }
func (NopHandler) ChannelInactive(ctx HandlerContext) { ctx.FireChannelInactive() }
func (NopHandler) ChannelRead(ctx HandlerContext, msg interface{}) {
	ctx.FireChannelRead(msg)
}
func (NopHandler) ChannelReadComplete(ctx HandlerContext) {
	ctx.FireChannelReadComplete()
}
func (NopHandler) Write(ctx HandlerContext, msg interface{}) {
	ctx.Write(msg)
}
func (NopHandler) ExceptionCaught(ctx HandlerContext, err error) {
	ctx.FireExceptionCaught(err)
}

// ReleaseMessage releases msg if it is a buffer.Buf, and is a no-op
// otherwise. Handlers that consume (rather than forward) a message must
// call this so reference counts stay balanced, mirroring the discipline
// spec.md's pipeline requires of every stage.
func ReleaseMessage(msg interface{}) {
	if b, ok := msg.(buffer.Buf); ok {
		_ = b.Release()
	}
}
