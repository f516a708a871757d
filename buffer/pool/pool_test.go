package pool

import (
	"testing"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/stretchr/testify/require"
)

func TestGetRoundsUpToSizeClass(t *testing.T) {
	p := New(buffer.Default())
	buf := p.Get(300)
	require.Equal(t, 512, buf.Capacity())
}

func TestPutRecyclesSameClassInstance(t *testing.T) {
	p := New(buffer.Default())
	buf := p.Get(256)
	_, _ = buf.WriteBytes([]byte("hi"))
	p.Put(buf)

	again := p.Get(256)
	require.Equal(t, 0, again.ReaderIndex())
	require.Equal(t, 0, again.WriterIndex())
}

func TestGetAboveLargestClassBypassesPooling(t *testing.T) {
	p := New(buffer.Default())
	buf := p.Get(1 << 20)
	require.GreaterOrEqual(t, buf.Capacity(), 1<<20)
}
