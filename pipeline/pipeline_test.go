package pipeline

import (
	"errors"
	"testing"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	reads  int
	closed bool
}

func (r *recordingTransport) Read()        { r.reads++ }
func (r *recordingTransport) Close() error { r.closed = true; return nil }

type recordingHandler struct {
	NopHandler
	reads    []interface{}
	errs     []error
	active   int
	inactive int
}

func (h *recordingHandler) ChannelActive(ctx HandlerContext)   { h.active++; ctx.FireChannelActive() }
func (h *recordingHandler) ChannelInactive(ctx HandlerContext) { h.inactive++; ctx.FireChannelInactive() }
func (h *recordingHandler) ChannelRead(ctx HandlerContext, msg interface{}) {
	h.reads = append(h.reads, msg)
	ctx.FireChannelRead(msg)
}
func (h *recordingHandler) ExceptionCaught(ctx HandlerContext, err error) {
	h.errs = append(h.errs, err)
	ctx.FireExceptionCaught(err)
}

func TestPipelineDispatchOrder(t *testing.T) {
	transport := &recordingTransport{}
	p := NewPipeline(transport)

	var order []string
	p.AddLast("a", &orderHandler{name: "a", order: &order})
	p.AddLast("b", &orderHandler{name: "b", order: &order})

	p.FireChannelRead("hello")
	require.Equal(t, []string{"a", "b"}, order)
}

func TestFireChannelReadAtTailReleasesBuffer(t *testing.T) {
	p := NewPipeline(nil)
	// No handlers added: the tail sees the message directly and must
	// release it rather than leak it.
	buf := buffer.NewHeap(4, 4)
	require.Equal(t, int32(1), buf.ReferenceCount())
	p.FireChannelRead(buf)
	require.Equal(t, int32(0), buf.ReferenceCount())
}

type orderHandler struct {
	NopHandler
	name  string
	order *[]string
}

func (h *orderHandler) ChannelRead(ctx HandlerContext, msg interface{}) {
	*h.order = append(*h.order, h.name)
	ctx.FireChannelRead(msg)
}

func TestPipelineAutoReadDefaultsTrue(t *testing.T) {
	p := NewPipeline(nil)
	require.True(t, p.AutoRead())
	p.SetAutoRead(false)
	require.False(t, p.AutoRead())
}

func TestHandlerContextReadDelegatesToTransport(t *testing.T) {
	transport := &recordingTransport{}
	p := NewPipeline(transport)
	var capturedCtx HandlerContext
	p.AddLast("capture", &captureCtxHandler{out: &capturedCtx})
	p.FireChannelActive()

	capturedCtx.Read()
	require.Equal(t, 1, transport.reads)

	require.NoError(t, capturedCtx.Close())
	require.True(t, transport.closed)
}

type captureCtxHandler struct {
	NopHandler
	out *HandlerContext
}

func (h *captureCtxHandler) ChannelActive(ctx HandlerContext) {
	*h.out = ctx
	ctx.FireChannelActive()
}

func TestFireExceptionCaughtPropagates(t *testing.T) {
	p := NewPipeline(nil)
	rec := &recordingHandler{}
	p.AddLast("rec", rec)

	boom := errors.New("boom")
	p.FireExceptionCaught(boom)
	require.Equal(t, []error{boom}, rec.errs)
}

func TestWriteReachesHandlerInReverseOrder(t *testing.T) {
	p := NewPipeline(nil)
	var order []string
	p.AddLast("a", &writeOrderHandler{name: "a", order: &order})
	p.AddLast("b", &writeOrderHandler{name: "b", order: &order})

	var tail HandlerContext
	p.AddLast("tailcapture", &captureCtxHandler{out: &tail})
	p.FireChannelActive()

	tail.Write("payload")
	require.Equal(t, []string{"b", "a"}, order)
}

type writeOrderHandler struct {
	NopHandler
	name  string
	order *[]string
}

func (h *writeOrderHandler) Write(ctx HandlerContext, msg interface{}) {
	*h.order = append(*h.order, h.name)
	ctx.Write(msg)
}
