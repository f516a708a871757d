package websocket

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/go-netty/go-netty-codec-core/buffer"
	"github.com/go-netty/go-netty-codec-core/httpcodec"
	"github.com/gobwas/httphead"
	"github.com/rs/zerolog"
)

// magicGUID is the RFC 6455 fixed handshake GUID, concatenated with the
// client's Sec-WebSocket-Key before hashing.
const magicGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ErrMissingKey is handshake_missing_key from spec.md §7: the request
// carried no (or an empty) Sec-WebSocket-Key.
var ErrMissingKey = errors.New("websocket: missing Sec-WebSocket-Key")

// SubprotocolSelector chooses one subprotocol token from the CSV list the
// client offered, or returns ok=false to negotiate none. This is the
// composition-over-inheritance stand-in for the source's
// select_subprotocol subclass hook.
type SubprotocolSelector func(offered []string) (chosen string, ok bool)

// Handshaker builds RFC 6455 v13 opening handshake responses.
type Handshaker struct {
	// SelectSubprotocol is consulted when the request carries
	// Sec-WebSocket-Protocol. A nil selector means no subprotocol is ever
	// negotiated, matching "omit the header" rather than failing.
	SelectSubprotocol SubprotocolSelector
	// Logger receives a debug-level entry when SelectSubprotocol declines
	// every offered subprotocol (no entry is logged when SelectSubprotocol
	// is nil), per spec.md §4.5.1 step 6. Defaults to a no-op
	// logger so the library stays silent unless a caller opts in.
	Logger zerolog.Logger
	// Allocator supplies the empty body buffer for the response.
	Allocator buffer.Allocator
}

// NewHandshaker returns a Handshaker with a no-op logger and the default
// heap allocator.
func NewHandshaker() *Handshaker {
	return &Handshaker{Logger: zerolog.Nop(), Allocator: buffer.Default()}
}

// NewHandshakeResponse builds the 101 Switching Protocols response for
// request, merging extraHeaders (in order) if provided, per the algorithm
// of spec.md §4.5.1 steps 1-7. A handshake failure returns no response:
// the caller decides whether to close the connection or answer with 400.
func (h *Handshaker) NewHandshakeResponse(request *httpcodec.Message, extraHeaders *httpcodec.Headers) (*httpcodec.FullHttpMessage, error) {
	key, ok := request.Headers.Get("Sec-WebSocket-Key")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return nil, ErrMissingKey
	}

	accept := computeAccept(key)

	headers := httpcodec.NewHeaders()
	if extraHeaders != nil {
		for _, e := range extraHeaders.Entries() {
			headers.Add(e.Name, e.Value)
		}
	}
	headers.Set("Upgrade", "websocket")
	headers.Set("Connection", "Upgrade")
	headers.Set("Sec-WebSocket-Accept", accept)

	if protoHeader, ok := request.Headers.Get("Sec-WebSocket-Protocol"); ok {
		offered := parseSubprotocols(protoHeader)
		if len(offered) > 0 && h.SelectSubprotocol != nil {
			if chosen, ok := h.SelectSubprotocol(offered); ok && chosen != "" {
				headers.Set("Sec-WebSocket-Protocol", chosen)
			} else {
				h.Logger.Debug().Str("offered", protoHeader).Msg("websocket subprotocol negotiation failed")
			}
		}
	}

	resp := httpcodec.NewResponseMessage(101, "Switching Protocols", "HTTP/1.1", headers)

	alloc := h.Allocator
	if alloc == nil {
		alloc = buffer.Default()
	}
	body := alloc.Buffer(0)

	return httpcodec.NewFullHttpMessage(resp, body, nil), nil
}

func computeAccept(key string) string {
	sum := sha1.Sum([]byte(key + magicGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// parseSubprotocols splits a Sec-WebSocket-Protocol CSV header into
// trimmed, non-empty tokens using gobwas/httphead's token scanner (the
// same scanner gobwas/ws's own upgrader uses internally), per SPEC_FULL's
// open-question resolution: an empty-after-parse header means "no
// subprotocol requested", not a failure.
func parseSubprotocols(header string) []string {
	var tokens []string
	httphead.ScanTokens([]byte(header), func(tok []byte) bool {
		t := strings.TrimSpace(string(tok))
		if t != "" {
			tokens = append(tokens, t)
		}
		return true
	})
	return tokens
}
