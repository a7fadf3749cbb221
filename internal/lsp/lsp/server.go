package lsp

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"

	"github.com/gorilla/websocket"

	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
	"github.com/gokulp01/pathy/internal/lsp/logs"
)

var (
	ErrUnsupportedNetwork = errors.New("unsupported network")
)

type Server struct {
	Methods
	rpcServer *jsonrpc.Server
	upgrader  websocket.Upgrader
}

func NewServer(opt *Config) *Server {
	s := &Server{}
	s.Opt = *opt
	s.rpcServer = jsonrpc.NewServer(opt.OnSession)
	s.upgrader = websocket.Upgrader{
		//editors connecting locally do not send a browser origin.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return s
}

// Run registers the handlers and serves clients until the connection (stdio, message connection) is closed
// or the listener fails.
func (s *Server) Run() error {
	s.registerMethods()
	return s.run()
}

func (s *Server) registerMethods() {
	mtds := s.GetMethods()
	for _, m := range mtds {
		if m != nil {
			s.rpcServer.RegisterMethod(*m)
		}
	}
}

func (s *Server) run() error {
	addr := s.Opt.Address
	if addr == "" {
		addr = DEFAULT_ADDRESS
	}

	switch {
	case s.Opt.MessageReaderWriter != nil:
		logs.Println("use message reader/writer mode.")
		s.rpcServer.MsgConnComeIn(s.Opt.MessageReaderWriter)
		return nil
	case s.Opt.Network == NETWORK_TCP:
		logs.Printf("use socket mode: net: %s, addr: %s\n", s.Opt.Network, addr)
		listener, err := net.Listen(NETWORK_TCP, addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		return s.Serve(listener)
	case s.Opt.Network == NETWORK_WEBSOCKET:
		logs.Printf("use websocket mode: addr: %s\n", addr)
		httpServer := &http.Server{
			Addr:    addr,
			Handler: s.WebsocketHandler(),
		}
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start websocket server: %w", err)
		}
		return nil
	case s.Opt.Network == "":
		logs.Println("use stdio mode.")
		s.rpcServer.ConnComeIn(NewStdio(s.Opt.StdioInput, s.Opt.StdioOutput))
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedNetwork, s.Opt.Network)
	}
}

// Serve accepts byte stream connections on listener, each connection is a JSON-RPC session.
func (s *Server) Serve(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.rpcServer.ConnComeIn(conn)
	}
}

// WebsocketHandler returns a HTTP handler upgrading each request to a WebSocket connection,
// each text message is a JSON-RPC message.
func (s *Server) WebsocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.Opt.Logger.Debug().Err(err).Msg("failed to upgrade connection")
			return
		}

		socket := NewJsonRpcWebsocket(conn, s.Opt.Logger)
		go s.rpcServer.MsgConnComeIn(socket)
	})
}

func wrapErrorToRespError(err interface{}, code int) error {
	if isNil(err) {
		return nil
	}
	if e, ok := err.(error); ok {
		return e
	}
	return jsonrpc.ResponseError{
		Code:    code,
		Message: fmt.Sprintf("%v", err),
		Data:    err,
	}
}

func isNil(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return true
	}
	return false
}
