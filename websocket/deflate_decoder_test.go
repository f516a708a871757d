package websocket

import (
	"bytes"
	"testing"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/go-netty/go-netty-codec-core/httpcodec"
	"github.com/go-netty/go-netty-codec-core/pipeline"
	"github.com/gobwas/ws"
	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"
)

func deflateRaw(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	raw := buf.Bytes()
	// Trim the mandatory 4-byte trailer the sender strips per RFC 7692; the
	// decoder re-appends it on the final fragment.
	require.True(t, bytes.HasSuffix(raw, frameTail[:]))
	return raw[:len(raw)-4]
}

func bufFrom(b []byte) buffer.Buf {
	buf := buffer.NewHeap(0, len(b)+16)
	_, _ = buf.WriteBytes(b)
	return buf
}

func readAllBuf(t *testing.T, b buffer.Buf) string {
	t.Helper()
	out := make([]byte, b.ReadableBytes())
	_, err := b.ReadBytes(out)
	require.NoError(t, err)
	return string(out)
}

func TestDeflateDecoderSingleFrame(t *testing.T) {
	d := NewDeflateDecoder(true)
	raw := deflateRaw(t, "hello deflate")

	frame := &Frame{OpCode: ws.OpText, Final: true, RSV1: true, Payload: bufFrom(raw)}
	out, err := d.decodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, "hello deflate", readAllBuf(t, out.Payload))
	require.False(t, out.RSV1)
	require.True(t, out.Final)
}

func TestDeflateDecoderFragmentedReconstruction(t *testing.T) {
	d := NewDeflateDecoder(false)
	raw := deflateRaw(t, "fragmented permessage deflate payload")

	third := len(raw) / 3
	parts := [][]byte{raw[:third], raw[third : 2*third], raw[2*third:]}

	var decoded bytes.Buffer
	for i, part := range parts {
		final := i == len(parts)-1
		opcode := ws.OpContinuation
		if i == 0 {
			opcode = ws.OpText
		}
		frame := &Frame{OpCode: opcode, Final: final, RSV1: i == 0, Payload: bufFrom(part)}
		out, err := d.decodeFrame(frame)
		require.NoError(t, err)
		decoded.WriteString(readAllBuf(t, out.Payload))
	}
	require.Equal(t, "fragmented permessage deflate payload", decoded.String())
}

func TestDeflateDecoderRejectsNonDataInitialFrame(t *testing.T) {
	d := NewDeflateDecoder(true)
	frame := &Frame{OpCode: ws.OpPing, Final: true, Payload: bufFrom([]byte{0x01})}
	_, err := d.decodeFrame(frame)
	require.Error(t, err)
	var ce *httpcodec.CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, httpcodec.KindUnexpectedInitialFrameType, ce.Kind)
}

func TestDeflateDecoderCannotReadUncompressed(t *testing.T) {
	d := NewDeflateDecoder(true)
	garbage := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	frame := &Frame{OpCode: ws.OpText, Final: true, RSV1: true, Payload: bufFrom(garbage)}
	_, err := d.decodeFrame(frame)
	require.Error(t, err)
	var ce *httpcodec.CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, httpcodec.KindCannotReadUncompressed, ce.Kind)
}

func TestDeflateDecoderChannelReadReleasesOriginalPayload(t *testing.T) {
	d := NewDeflateDecoder(true)
	raw := deflateRaw(t, "hello deflate")

	var received []interface{}
	p := pipeline.NewPipeline(nil)
	p.AddLast("deflate", d)
	p.AddLast("collect", &collectHandler{out: &received})

	payload := bufFrom(raw)
	frame := &Frame{OpCode: ws.OpText, Final: true, RSV1: true, Payload: payload}
	p.FireChannelRead(frame)

	require.Len(t, received, 1)
	require.EqualValues(t, 0, payload.ReferenceCount())
}

func TestDeflateDecoderMaxFramePayloadLengthRejected(t *testing.T) {
	d := NewDeflateDecoder(true)
	d.Config = &DecoderConfig{MaxFramePayloadLength: 2}

	var errs []error
	p := pipeline.NewPipeline(nil)
	p.AddLast("deflate", d)
	p.AddLast("rec", &recordingHandler{errs: &errs})

	payload := bufFrom([]byte{0x01, 0x02, 0x03, 0x04})
	frame := &Frame{OpCode: ws.OpText, Final: true, RSV1: true, Payload: payload}
	p.FireChannelRead(frame)

	require.Len(t, errs, 1)
	var ce *httpcodec.CodecError
	require.ErrorAs(t, errs[0], &ce)
	require.Equal(t, httpcodec.KindFramePayloadTooLarge, ce.Kind)
	require.EqualValues(t, 0, payload.ReferenceCount())
}

type collectHandler struct {
	pipeline.NopHandler
	out *[]interface{}
}

func (h *collectHandler) ChannelRead(ctx pipeline.HandlerContext, msg interface{}) {
	*h.out = append(*h.out, msg)
}

type recordingHandler struct {
	pipeline.NopHandler
	errs *[]error
}

func (h *recordingHandler) ExceptionCaught(ctx pipeline.HandlerContext, err error) {
	*h.errs = append(*h.errs, err)
}

func TestDeflateDecoderNoContextTeardownBetweenMessages(t *testing.T) {
	d := NewDeflateDecoder(true)
	raw1 := deflateRaw(t, "first message")
	frame1 := &Frame{OpCode: ws.OpText, Final: true, RSV1: true, Payload: bufFrom(raw1)}
	out1, err := d.decodeFrame(frame1)
	require.NoError(t, err)
	require.Equal(t, "first message", readAllBuf(t, out1.Payload))
	require.Nil(t, d.decoder)

	raw2 := deflateRaw(t, "second message")
	frame2 := &Frame{OpCode: ws.OpText, Final: true, RSV1: true, Payload: bufFrom(raw2)}
	out2, err := d.decodeFrame(frame2)
	require.NoError(t, err)
	require.Equal(t, "second message", readAllBuf(t, out2.Payload))
}
