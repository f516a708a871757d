package pipeline

// Transport is the minimal surface a Pipeline needs from whatever moves
// bytes: a way to request more reads and a way to tear the connection
// down. The embedded pipeline (pipeline/embedded) supplies a fake one with
// no real I/O backing it.
type Transport interface {
	// Read requests one more read-loop iteration. Called by a context's
	// Read() when the channel is not in auto-read mode and a handler
	// (typically a decoder whose last pass produced no output) needs more
	// input before it can make progress.
	Read()
	// Close tears down the transport.
	Close() error
}

// HandlerContext is the per-handler view of a Pipeline: it knows its own
// position in the chain and can fire events forward/backward from there.
type HandlerContext interface {
	// Pipeline returns the chain this context belongs to.
	Pipeline() Pipeline
	// Handler returns the Handler installed at this context.
	Handler() Handler
	// Name returns this context's identifier within the pipeline.
	Name() string

	// FireChannelActive/FireChannelInactive propagate the event to the
	// next inbound context.
	FireChannelActive()
	FireChannelInactive()
	// FireChannelRead propagates msg to the next inbound context.
	FireChannelRead(msg interface{})
	// FireChannelReadComplete propagates the read-complete event to the
	// next inbound context.
	FireChannelReadComplete()
	// FireExceptionCaught propagates err to the next inbound context.
	FireExceptionCaught(err error)

	// Write propagates msg to the previous (outbound) context, toward the
	// transport.
	Write(msg interface{})
	// Read requests that the transport perform another read. Handlers in
	// manual-read mode call this after deciding they need more input
	// (spec.md's need_read contract).
	Read()
	// Close tears down the underlying transport.
	Close() error
}

type handlerContext struct {
	pipeline *pipeline
	name     string
	handler  Handler
	next     *handlerContext
	prev     *handlerContext
}

func (c *handlerContext) Pipeline() Pipeline { return c.pipeline }
func (c *handlerContext) Handler() Handler   { return c.handler }
func (c *handlerContext) Name() string       { return c.name }

func (c *handlerContext) FireChannelActive() {
	if n := c.nextInbound(); n != nil {
		n.handler.ChannelActive(n)
	}
}

func (c *handlerContext) FireChannelInactive() {
	if n := c.nextInbound(); n != nil {
		n.handler.ChannelInactive(n)
	}
}

func (c *handlerContext) FireChannelRead(msg interface{}) {
	if n := c.nextInbound(); n != nil {
		n.handler.ChannelRead(n, msg)
		return
	}
	// tail of chain with nowhere left to deliver: release to avoid a leak
	ReleaseMessage(msg)
}

func (c *handlerContext) FireChannelReadComplete() {
	if n := c.nextInbound(); n != nil {
		n.handler.ChannelReadComplete(n)
	}
}

func (c *handlerContext) FireExceptionCaught(err error) {
	if n := c.nextInbound(); n != nil {
		n.handler.ExceptionCaught(n, err)
	}
}

func (c *handlerContext) Write(msg interface{}) {
	if p := c.prevOutbound(); p != nil {
		p.handler.Write(p, msg)
		return
	}
	c.pipeline.writeToTransport(msg)
}

func (c *handlerContext) Read() {
	c.pipeline.requestRead()
}

func (c *handlerContext) Close() error {
	return c.pipeline.closeTransport()
}

func (c *handlerContext) nextInbound() *handlerContext { return c.next }
func (c *handlerContext) prevOutbound() *handlerContext { return c.prev }
