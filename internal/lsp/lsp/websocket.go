package lsp

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
)

var (
	_ jsonrpc.MessageReaderWriter = (*JsonRpcWebsocket)(nil)
)

// A JsonRpcWebsocket transports one JSON-RPC message per text frame.
type JsonRpcWebsocket struct {
	conn   *websocket.Conn
	lock   sync.Mutex
	logger zerolog.Logger
}

func NewJsonRpcWebsocket(conn *websocket.Conn, logger zerolog.Logger) *JsonRpcWebsocket {
	return &JsonRpcWebsocket{conn: conn, logger: logger}
}

func (s *JsonRpcWebsocket) ReadMessage() ([]byte, error) {
	for {
		msgType, msg, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}

		if msgType != websocket.TextMessage {
			s.logger.Debug().Int("type", msgType).Msg("a non text message was received")
			continue
		}

		return msg, nil
	}
}

func (s *JsonRpcWebsocket) WriteMessage(msg []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.conn.WriteMessage(websocket.TextMessage, msg)
}

func (s *JsonRpcWebsocket) Close() error {
	return s.conn.Close()
}
