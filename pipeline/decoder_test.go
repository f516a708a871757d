package pipeline

import (
	"testing"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/stretchr/testify/require"
)

type toUpperDecoder struct {
	callCount int
	emitEvery int
}

func (d *toUpperDecoder) Decode(ctx HandlerContext, msg interface{}, out *[]interface{}) error {
	d.callCount++
	if d.callCount%d.emitEvery != 0 {
		return nil
	}
	*out = append(*out, msg)
	return nil
}

func TestMessageToMessageDecoderForwardsOutput(t *testing.T) {
	p := NewPipeline(nil)
	var received []interface{}
	p.AddLast("decode", NewMessageToMessageDecoder(&toUpperDecoder{emitEvery: 1}))
	p.AddLast("collect", &collectHandler{out: &received})

	p.FireChannelRead("x")
	require.Equal(t, []interface{}{"x"}, received)
}

type collectHandler struct {
	NopHandler
	out *[]interface{}
}

func (h *collectHandler) ChannelRead(ctx HandlerContext, msg interface{}) {
	*h.out = append(*h.out, msg)
}

func TestMessageToMessageDecoderNeedReadBackpressure(t *testing.T) {
	transport := &recordingTransport{}
	p := NewPipeline(transport)
	p.SetAutoRead(false)
	p.AddLast("decode", NewMessageToMessageDecoder(&toUpperDecoder{emitEvery: 2}))

	// First ChannelRead yields nothing -> needRead set -> ChannelReadComplete
	// must request one more read since auto-read is off.
	p.FireChannelRead("a")
	p.FireChannelReadComplete()
	require.Equal(t, 1, transport.reads)

	// Second ChannelRead yields output -> needRead cleared -> no extra read.
	p.FireChannelRead("b")
	p.FireChannelReadComplete()
	require.Equal(t, 1, transport.reads)
}

func TestMessageToMessageDecoderAutoReadSkipsExplicitRead(t *testing.T) {
	transport := &recordingTransport{}
	p := NewPipeline(transport) // autoRead defaults true
	p.AddLast("decode", NewMessageToMessageDecoder(&toUpperDecoder{emitEvery: 2}))

	p.FireChannelRead("a")
	p.FireChannelReadComplete()
	require.Equal(t, 0, transport.reads)
}

type erroringDecoder struct{}

func (erroringDecoder) Decode(ctx HandlerContext, msg interface{}, out *[]interface{}) error {
	return require.AnError
}

type consumingDecoder struct{}

// Decode fully consumes msg and emits a distinct buffer instead, without
// ever retaining msg: the wrapper's post-Decode release should drop msg to
// zero references.
func (consumingDecoder) Decode(ctx HandlerContext, msg interface{}, out *[]interface{}) error {
	*out = append(*out, buffer.NewHeap(1, 1))
	return nil
}

func TestMessageToMessageDecoderReleasesFullyConsumedInput(t *testing.T) {
	p := NewPipeline(nil)
	p.AddLast("decode", NewMessageToMessageDecoder(consumingDecoder{}))

	buf := buffer.NewHeap(4, 4)
	p.FireChannelRead(buf)
	require.EqualValues(t, 0, buf.ReferenceCount())
}

type forwardingDecoder struct{}

// Decode retains msg before forwarding it unchanged, matching the
// Retain-before-append discipline spec.md's release contract requires of a
// decoder that wants to keep msg alive past Decode's return.
func (forwardingDecoder) Decode(ctx HandlerContext, msg interface{}, out *[]interface{}) error {
	if err := msg.(buffer.Buf).Retain(); err != nil {
		return err
	}
	*out = append(*out, msg)
	return nil
}

func TestMessageToMessageDecoderForwardedInputKeepsBalancedReference(t *testing.T) {
	p := NewPipeline(nil)
	var received []interface{}
	p.AddLast("decode", NewMessageToMessageDecoder(forwardingDecoder{}))
	p.AddLast("collect", &collectHandler{out: &received})

	buf := buffer.NewHeap(4, 4)
	p.FireChannelRead(buf)

	require.Equal(t, []interface{}{buf}, received)
	require.EqualValues(t, 1, buf.ReferenceCount())
}

func TestMessageToMessageDecoderPropagatesDecodeError(t *testing.T) {
	p := NewPipeline(nil)
	rec := &recordingHandler{}
	p.AddLast("decode", NewMessageToMessageDecoder(erroringDecoder{}))
	p.AddLast("rec", rec)

	p.FireChannelRead("x")
	require.Len(t, rec.errs, 1)
	require.ErrorIs(t, rec.errs[0], require.AnError)
}
