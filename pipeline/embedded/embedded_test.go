package embedded

import (
	"testing"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/go-netty/go-netty-codec-core/pipeline"
	"github.com/stretchr/testify/require"
)

// passthroughDecoder forwards every byte it sees, one call behind: it holds
// back the first write to exercise the need_read/empty-drain path, then
// emits everything buffered so far on the next write.
type passthroughDecoder struct {
	held buffer.Buf
}

func (d *passthroughDecoder) Decode(ctx pipeline.HandlerContext, msg interface{}, out *[]interface{}) error {
	buf := msg.(buffer.Buf)
	if d.held == nil {
		// keep buf alive past the wrapper's post-Decode release
		_ = buf.Retain()
		d.held = buf
		return nil
	}
	merged := buffer.NewHeap(0, 1<<16)
	a := make([]byte, d.held.ReadableBytes())
	_, _ = d.held.ReadBytes(a)
	_ = d.held.Release()
	b := make([]byte, buf.ReadableBytes())
	_, _ = buf.ReadBytes(b)
	_, _ = merged.WriteBytes(a)
	_, _ = merged.WriteBytes(b)
	d.held = nil
	*out = append(*out, merged)
	return nil
}

func TestEmbeddedWriteReadRoundTrip(t *testing.T) {
	host := New(pipeline.NewMessageToMessageDecoder(&passthroughDecoder{}))

	first := buffer.NewHeap(0, 16)
	_, _ = first.WriteBytes([]byte("ab"))
	host.WriteInbound(first)

	_, ok := host.ReadInbound()
	require.False(t, ok, "first write should be held, producing no output yet")

	second := buffer.NewHeap(0, 16)
	_, _ = second.WriteBytes([]byte("cd"))
	host.WriteInbound(second)

	out, ok := host.ReadInbound()
	require.True(t, ok)
	got := make([]byte, out.ReadableBytes())
	_, _ = out.ReadBytes(got)
	require.Equal(t, "abcd", string(got))
	require.NoError(t, out.Release())

	_, ok = host.ReadInbound()
	require.False(t, ok)
}

func TestEmbeddedFinishReportsPending(t *testing.T) {
	host := New(pipeline.NewMessageToMessageDecoder(&identityDecoder{}))
	buf := buffer.NewHeap(0, 16)
	_, _ = buf.WriteBytes([]byte("x"))
	host.WriteInbound(buf)

	pending, err := host.Finish()
	require.NoError(t, err)
	require.True(t, pending)

	out, ok := host.ReadInbound()
	require.True(t, ok)
	require.NoError(t, out.Release())
}

func TestEmbeddedFinishAndReleaseAllDrainsWithoutLeaking(t *testing.T) {
	host := New(pipeline.NewMessageToMessageDecoder(&identityDecoder{}))
	buf := buffer.NewHeap(0, 16)
	_, _ = buf.WriteBytes([]byte("x"))
	require.Equal(t, int32(1), buf.ReferenceCount())

	host.WriteInbound(buf)
	require.NoError(t, host.FinishAndReleaseAll())

	_, ok := host.ReadInbound()
	require.False(t, ok)
}

type identityDecoder struct{}

func (identityDecoder) Decode(ctx pipeline.HandlerContext, msg interface{}, out *[]interface{}) error {
	if err := msg.(buffer.Buf).Retain(); err != nil {
		return err
	}
	*out = append(*out, msg)
	return nil
}

func TestNewAssignsUniqueID(t *testing.T) {
	a := New(pipeline.NewMessageToMessageDecoder(&identityDecoder{}))
	b := New(pipeline.NewMessageToMessageDecoder(&identityDecoder{}))
	require.NotEqual(t, a.ID, b.ID)
}
