package sink

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"sync"

	"github.com/gorilla/websocket"
	"runtime.link/api/xray"
)

// TextureHeader is sent as a JSON text frame ahead of every texture. The
// binary frame that follows holds Width*Height*Channels little-endian
// float32 values.
type TextureHeader struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
}

// WebSocket streams textures to a connected client.
type WebSocket struct {
	Conn *websocket.Conn
	ID   string

	mutex sync.Mutex
}

func (s *WebSocket) Accept(width, height int, rgba []float32) error {
	if err := checkSize(width, height, rgba); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := SendJSON(s.Conn, TextureHeader{
		Type:     "texture",
		ID:       s.ID,
		Width:    width,
		Height:   height,
		Channels: channels,
	}); err != nil {
		return xray.New(err)
	}
	if err := s.Conn.WriteMessage(websocket.BinaryMessage, EncodeFloats(rgba)); err != nil {
		return xray.New(err)
	}
	return nil
}

// EncodeFloats packs values as little-endian float32.
func EncodeFloats(values []float32) []byte {
	buf := make([]byte, 0, len(values)*4)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// DecodeFloats is the inverse of [EncodeFloats].
func DecodeFloats(data []byte) []float32 {
	values := make([]float32, len(data)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return values
}

// SendJSON writes data to sock as a JSON text frame.
func SendJSON(sock *websocket.Conn, data any) error {
	message, err := json.Marshal(data)
	if err != nil {
		return xray.New(err)
	}
	if err := sock.WriteMessage(websocket.TextMessage, message); err != nil {
		return xray.New(err)
	}
	return nil
}
