package pipeline

// Decoder is implemented by a message-to-message decoder's own transform
// logic: given one inbound message, append zero or more replacement
// messages to out. Decode must not release msg itself; the wrapping
// MessageToMessageDecoder releases exactly one reference on msg after
// Decode returns, success or failure, mirroring Netty's
// ByteToMessageDecoder's finally-release. A Decode that wants to forward
// msg unchanged (rather than consume it) must Retain it before appending
// it to out, so the wrapper's release leaves the forwarded reference
// balanced instead of dropping it.
type Decoder interface {
	Decode(ctx HandlerContext, msg interface{}, out *[]interface{}) error
}

// MessageToMessageDecoder adapts a Decoder into a Handler implementing the
// backpressure and dispatch contract of spec.md §4.2: a ChannelRead that
// decodes to zero messages sets needRead; the following
// ChannelReadComplete issues one explicit Read() when the pipeline is not
// in auto-read mode and the most recent ChannelRead decoded to nothing.
type MessageToMessageDecoder struct {
	NopHandler
	Decoder  Decoder
	needRead bool
}

// NewMessageToMessageDecoder wraps decoder in the backpressure-aware
// Handler adapter.
func NewMessageToMessageDecoder(decoder Decoder) *MessageToMessageDecoder {
	return &MessageToMessageDecoder{Decoder: decoder}
}

func (d *MessageToMessageDecoder) ChannelRead(ctx HandlerContext, msg interface{}) {
	var out []interface{}
	err := d.Decoder.Decode(ctx, msg, &out)
	ReleaseMessage(msg)
	if err != nil {
		ctx.FireExceptionCaught(err)
		d.needRead = true
		return
	}
	for _, m := range out {
		ctx.FireChannelRead(m)
	}
	d.needRead = len(out) == 0
}

func (d *MessageToMessageDecoder) ChannelReadComplete(ctx HandlerContext) {
	ctx.FireChannelReadComplete()
	if d.needRead && !ctx.Pipeline().AutoRead() {
		ctx.Read()
	}
}
