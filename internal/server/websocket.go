package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"runtime.link/api/xray"

	"the.quetzal.community/heightfield/heightfield"
	"the.quetzal.community/heightfield/internal/sink"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type messageType string

const (
	messageTypeGenerate messageType = "generate"
	messageTypeError    messageType = "error"
)

// Request asks for one generation over the websocket. Parameters is a
// partial [heightfield.Parameters] object; fields left out of it keep the
// configured defaults.
type Request struct {
	Type       messageType     `json:"type"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// Failure reports a rejected request.
type Failure struct {
	Type    messageType `json:"type"`
	ID      string      `json:"id,omitempty"`
	Message string      `json:"message"`
}

func wsRecv[T any](sock *websocket.Conn) (T, error) {
	mtype, message, err := sock.ReadMessage()
	if err != nil {
		return [1]T{}[0], xray.New(err)
	}
	if mtype != websocket.TextMessage {
		return [1]T{}[0], xray.New(errors.New("unexpected websocket message type"))
	}
	var data T
	if err := json.Unmarshal(message, &data); err != nil {
		return [1]T{}[0], xray.New(err)
	}
	return data, nil
}

// wsHandler answers every generate request with a texture header and a
// binary RGBA frame, see [sink.WebSocket].
func (s *Server) wsHandler(w http.ResponseWriter, req *http.Request) {
	sock, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.print("websocket upgrade failed: %v\n", err)
		return
	}
	defer sock.Close()
	for {
		msg, err := wsRecv[Request](sock)
		if err != nil {
			var closed *websocket.CloseError
			if !errors.As(err, &closed) {
				s.print("websocket read failed: %v\n", err)
			}
			return
		}
		id := uuid.NewString()
		if msg.Type != messageTypeGenerate {
			if err := sink.SendJSON(sock, Failure{Type: messageTypeError, ID: id, Message: "unexpected message type: " + string(msg.Type)}); err != nil {
				return
			}
			continue
		}
		params, err := s.overlay(msg.Parameters)
		if err == nil {
			err = s.limit(params)
		}
		if err != nil {
			if err := sink.SendJSON(sock, Failure{Type: messageTypeError, ID: id, Message: err.Error()}); err != nil {
				return
			}
			continue
		}
		generator := s.generator
		generator.Sink = &sink.WebSocket{Conn: sock, ID: id}
		if err := generator.Generate(req.Context(), params); err != nil {
			if err := sink.SendJSON(sock, Failure{Type: messageTypeError, ID: id, Message: err.Error()}); err != nil {
				return
			}
		}
	}
}

// overlay decodes a partial parameter object over the configured defaults.
func (s *Server) overlay(raw json.RawMessage) (heightfield.Parameters, error) {
	params := s.config.Map
	if len(raw) == 0 {
		return params, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return params, fmt.Errorf("parameters: %w", err)
	}
	return params, nil
}
