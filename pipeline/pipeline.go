package pipeline

// Pipeline is the ordered chain of Handlers wired to one Transport. Inbound
// events enter at the head (via FireChannelRead etc., called by whatever
// drives the transport's read loop) and flow toward the tail; outbound
// writes enter wherever a handler calls HandlerContext.Write and flow
// toward the head, finally reaching the transport.
type Pipeline interface {
	// AddLast appends a Handler under name. Order matters: inbound events
	// reach handlers in the order they were added, outbound writes in
	// reverse.
	AddLast(name string, handler Handler) Pipeline

	// FireChannelActive/FireChannelInactive start inbound propagation from
	// the head of the chain.
	FireChannelActive()
	FireChannelInactive()
	// FireChannelRead starts inbound propagation of msg from the head.
	FireChannelRead(msg interface{})
	FireChannelReadComplete()
	FireExceptionCaught(err error)

	// AutoRead reports whether the pipeline requests reads automatically
	// after every ChannelReadComplete. When false, a handler must call
	// HandlerContext.Read() itself to keep the read loop going (spec.md's
	// need_read backpressure contract).
	AutoRead() bool
	SetAutoRead(auto bool) Pipeline
}

type pipeline struct {
	head      *handlerContext
	tail      *handlerContext
	transport Transport
	autoRead  bool
}

// NewPipeline builds an empty Pipeline driving transport. transport may be
// nil for pipelines that never Write/Read against a real connection (the
// embedded sub-pipeline supplies its own no-op Transport instead of nil).
func NewPipeline(transport Transport) Pipeline {
	p := &pipeline{transport: transport, autoRead: true}
	head := &handlerContext{pipeline: p, name: "head", handler: NopHandler{}}
	tail := &handlerContext{pipeline: p, name: "tail", handler: NopHandler{}}
	head.next = tail
	tail.prev = head
	p.head, p.tail = head, tail
	return p
}

func (p *pipeline) AddLast(name string, handler Handler) Pipeline {
	ctx := &handlerContext{pipeline: p, name: name, handler: handler}
	last := p.tail.prev
	last.next = ctx
	ctx.prev = last
	ctx.next = p.tail
	p.tail.prev = ctx
	handler.HandlerAdded(ctx)
	return p
}

func (p *pipeline) FireChannelActive()              { p.head.handler.ChannelActive(p.head) }
func (p *pipeline) FireChannelInactive()            { p.head.handler.ChannelInactive(p.head) }
func (p *pipeline) FireChannelRead(msg interface{}) { p.head.handler.ChannelRead(p.head, msg) }
func (p *pipeline) FireChannelReadComplete()        { p.head.handler.ChannelReadComplete(p.head) }
func (p *pipeline) FireExceptionCaught(err error)   { p.head.handler.ExceptionCaught(p.head, err) }

func (p *pipeline) AutoRead() bool { return p.autoRead }
func (p *pipeline) SetAutoRead(auto bool) Pipeline {
	p.autoRead = auto
	return p
}

func (p *pipeline) writeToTransport(msg interface{}) {
	// The core pipeline has no concrete wire transport of its own (that is
	// supplied by whatever embeds it, e.g. go-netty's channel); writes that
	// reach the head with nothing further to do are simply dropped after
	// releasing, mirroring a sink with no attached writer.
	ReleaseMessage(msg)
}

func (p *pipeline) requestRead() {
	if p.transport != nil {
		p.transport.Read()
	}
}

func (p *pipeline) closeTransport() error {
	if p.transport != nil {
		return p.transport.Close()
	}
	return nil
}
