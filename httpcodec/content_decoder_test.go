package httpcodec

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/go-netty/go-netty-codec-core/pipeline"
	"github.com/stretchr/testify/require"
)

func bufOf(t *testing.T, s string) buffer.Buf {
	t.Helper()
	b := buffer.NewHeap(len(s), len(s)+16)
	_, err := b.WriteBytes([]byte(s))
	require.NoError(t, err)
	return b
}

func readAll(t *testing.T, b buffer.Buf) string {
	t.Helper()
	out := make([]byte, b.ReadableBytes())
	_, err := b.ReadBytes(out)
	require.NoError(t, err)
	return string(out)
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// scenario 2 from spec.md §8: a gzip response is rewritten to chunked,
// identity-encoded headers, and its content inflates to "hello" with an
// empty terminating content. decodeHeaders/decodeContent are exercised
// directly below; embedded.Pipeline only queues buffer.Buf payloads, not
// arbitrary HttpObjects, so it hosts the inner inflater, not ContentDecoder
// itself.
func TestContentDecoderHeadersRewrite(t *testing.T) {
	cd := NewContentDecoder(nil)
	headers := NewHeaders().Set("Content-Encoding", "gzip").Set("Content-Length", "999")
	msg := NewResponseMessage(200, "OK", "HTTP/1.1", headers)

	out, err := cd.decodeHeaders(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)
	rewritten := out[0].(*Message)
	require.False(t, rewritten.Headers.Contains("Content-Length"))
	require.False(t, rewritten.Headers.Contains("Content-Encoding"))
	te, ok := rewritten.Headers.Get("Transfer-Encoding")
	require.True(t, ok)
	require.Equal(t, "chunked", te)
}

func TestContentDecoderGzipContent(t *testing.T) {
	cd := NewContentDecoder(nil)
	headers := NewHeaders().Set("Content-Encoding", "gzip")
	msg := NewResponseMessage(200, "OK", "HTTP/1.1", headers)
	_, err := cd.decodeHeaders(msg)
	require.NoError(t, err)

	payload := gzipBytes(t, "hello")
	out, err := cd.decodeContent(NewLastContent(bufOf(t, string(payload)), nil, Success()))
	require.NoError(t, err)
	require.NotEmpty(t, out)

	var decoded bytes.Buffer
	var last *Content
	for _, o := range out {
		c := o.(*Content)
		if c.Payload != nil {
			decoded.WriteString(readAll(t, c.Payload))
		}
		if c.Last {
			last = c
		}
	}
	require.Equal(t, "hello", decoded.String())
	require.NotNil(t, last)
	require.True(t, last.Result().Success)
}

// scenario 3 from spec.md §8: an unknown encoding (br) passes through
// byte-for-byte, headers untouched.
func TestContentDecoderUnknownEncodingPassesThrough(t *testing.T) {
	cd := NewContentDecoder(nil)
	headers := NewHeaders().Set("Content-Encoding", "br")
	msg := NewResponseMessage(200, "OK", "HTTP/1.1", headers)

	out, err := cd.decodeHeaders(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)
	same := out[0].(*Message)
	enc, ok := same.Headers.Get("Content-Encoding")
	require.True(t, ok)
	require.Equal(t, "br", enc)

	raw := bufOf(t, "opaque-br-bytes")
	contentOut, err := cd.decodeContent(NewLastContent(raw, nil, Success()))
	require.NoError(t, err)
	require.Len(t, contentOut, 1)
	c := contentOut[0].(*Content)
	require.Equal(t, "opaque-br-bytes", readAll(t, c.Payload))
	require.True(t, c.Last)
}

// scenario 1 from spec.md §8: a 100-Continue interim response passes
// through unmodified and suppresses decompression for what follows, up to
// the interim response's terminating last content.
func TestContentDecoder100ContinuePassesThrough(t *testing.T) {
	cd := NewContentDecoder(nil)
	interim := NewResponseMessage(100, "Continue", "HTTP/1.1", NewHeaders())
	out, err := cd.decodeHeaders(interim)
	require.NoError(t, err)
	require.Same(t, interim, out[0])

	final := NewResponseMessage(200, "OK", "HTTP/1.1", NewHeaders().Set("Content-Encoding", "gzip"))
	out2, err := cd.decodeHeaders(final)
	require.NoError(t, err)
	require.Same(t, final, out2[0])
}

func TestContentDecoderNeedReadBackpressure(t *testing.T) {
	cd := NewContentDecoder(nil)
	headers := NewHeaders().Set("Content-Encoding", "gzip")
	_, err := cd.decodeHeaders(NewResponseMessage(200, "OK", "HTTP/1.1", headers))
	require.NoError(t, err)

	payload := gzipBytes(t, "hello")
	chunks := splitBytes(payload, 1)

	emptyDecodeSeen := false
	for i, chunk := range chunks {
		last := i == len(chunks)-1
		var c *Content
		if last {
			c = NewLastContent(bufOf(t, string(chunk)), nil, Success())
		} else {
			c = NewContent(bufOf(t, string(chunk)))
		}
		out, err := cd.decodeContent(c)
		require.NoError(t, err)
		if len(out) == 0 {
			emptyDecodeSeen = true
		}
	}
	require.True(t, emptyDecodeSeen, "single-byte gzip chunks should sometimes decode to nothing yet")
}

func splitBytes(b []byte, size int) [][]byte {
	var out [][]byte
	for len(b) > 0 {
		n := size
		if n > len(b) {
			n = len(b)
		}
		out = append(out, b[:n])
		b = b[n:]
	}
	return out
}

// ContentDecoder.decode never releases msg's payload itself: ChannelRead
// does, once, unconditionally, after decode returns. These two tests drive
// ChannelRead directly (unlike the decodeHeaders/decodeContent tests above)
// to catch a leaked or double-released reference.
func TestContentDecoderChannelReadReleasesConsumedPayload(t *testing.T) {
	cd := NewContentDecoder(nil)
	var received []interface{}
	p := pipeline.NewPipeline(nil)
	p.AddLast("cd", cd)
	p.AddLast("collect", &collectHandler{out: &received})

	headers := NewHeaders().Set("Content-Encoding", "gzip")
	p.FireChannelRead(NewResponseMessage(200, "OK", "HTTP/1.1", headers))

	payload := bufOf(t, string(gzipBytes(t, "hello")))
	p.FireChannelRead(NewLastContent(payload, nil, Success()))

	require.NotEmpty(t, received)
	require.EqualValues(t, 0, payload.ReferenceCount())
}

func TestContentDecoderChannelReadKeepsPassThroughBalanced(t *testing.T) {
	cd := NewContentDecoder(nil)
	var received []interface{}
	p := pipeline.NewPipeline(nil)
	p.AddLast("cd", cd)
	p.AddLast("collect", &collectHandler{out: &received})

	headers := NewHeaders().Set("Content-Encoding", "br")
	p.FireChannelRead(NewResponseMessage(200, "OK", "HTTP/1.1", headers))

	payload := bufOf(t, "opaque-br-bytes")
	p.FireChannelRead(NewLastContent(payload, nil, Success()))

	require.Len(t, received, 2)
	require.EqualValues(t, 1, payload.ReferenceCount())
}

type collectHandler struct {
	pipeline.NopHandler
	out *[]interface{}
}

func (h *collectHandler) ChannelRead(ctx pipeline.HandlerContext, msg interface{}) {
	*h.out = append(*h.out, msg)
}

var _ pipeline.Handler = (*ContentDecoder)(nil)
