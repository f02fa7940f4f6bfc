package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrUnknownCodec = errors.New("network: unknown codec")

// Codec encodes messages for one websocket frame type
type Codec interface {
	Name() string
	FrameType() int // websocket.TextMessage or websocket.BinaryMessage
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec sends text frames
type JSONCodec struct{}

func (JSONCodec) Name() string                       { return "json" }
func (JSONCodec) FrameType() int                     { return websocket.TextMessage }
func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// MsgpackCodec sends binary frames
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string                       { return "msgpack" }
func (MsgpackCodec) FrameType() int                     { return websocket.BinaryMessage }
func (MsgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MsgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// CodecByName resolves a codec negotiated by query parameter
func CodecByName(name string) (Codec, error) {
	switch name {
	case "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
