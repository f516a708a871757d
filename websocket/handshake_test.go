package websocket

import (
	"testing"

	"github.com/go-netty/go-netty-codec-core/httpcodec"
	"github.com/stretchr/testify/require"
)

func TestHandshakeAcceptVector(t *testing.T) {
	h := NewHandshaker()
	headers := httpcodec.NewHeaders().
		Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==").
		Set("Sec-WebSocket-Version", "13").
		Set("Sec-WebSocket-Protocol", "chat, superchat")
	req := httpcodec.NewRequestMessage("GET", "/chat", "HTTP/1.1", headers)

	h.SelectSubprotocol = func(offered []string) (string, bool) {
		for _, p := range offered {
			if p == "chat" {
				return "chat", true
			}
		}
		return "", false
	}

	resp, err := h.NewHandshakeResponse(req, nil)
	require.NoError(t, err)
	require.Equal(t, 101, resp.Status)

	upgrade, _ := resp.Headers.Get("Upgrade")
	require.Equal(t, "websocket", upgrade)
	conn, _ := resp.Headers.Get("Connection")
	require.Equal(t, "Upgrade", conn)
	accept, _ := resp.Headers.Get("Sec-WebSocket-Accept")
	require.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", accept)
	proto, _ := resp.Headers.Get("Sec-WebSocket-Protocol")
	require.Equal(t, "chat", proto)
}

func TestHandshakeMissingKeyFails(t *testing.T) {
	h := NewHandshaker()
	req := httpcodec.NewRequestMessage("GET", "/chat", "HTTP/1.1", httpcodec.NewHeaders())
	_, err := h.NewHandshakeResponse(req, nil)
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestHandshakeEmptySubprotocolOmitsHeader(t *testing.T) {
	h := NewHandshaker()
	headers := httpcodec.NewHeaders().
		Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==").
		Set("Sec-WebSocket-Protocol", " , ,")
	req := httpcodec.NewRequestMessage("GET", "/chat", "HTTP/1.1", headers)
	h.SelectSubprotocol = func(offered []string) (string, bool) { return "should-not-be-called", true }

	resp, err := h.NewHandshakeResponse(req, nil)
	require.NoError(t, err)
	require.False(t, resp.Headers.Contains("Sec-WebSocket-Protocol"))
}

func TestHandshakeExtraHeadersMerged(t *testing.T) {
	h := NewHandshaker()
	headers := httpcodec.NewHeaders().Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req := httpcodec.NewRequestMessage("GET", "/chat", "HTTP/1.1", headers)

	extra := httpcodec.NewHeaders().Add("X-Powered-By", "go-netty-codec-core")
	resp, err := h.NewHandshakeResponse(req, extra)
	require.NoError(t, err)
	v, ok := resp.Headers.Get("X-Powered-By")
	require.True(t, ok)
	require.Equal(t, "go-netty-codec-core", v)
}
