package jsonrpc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gokulp01/pathy/internal/lsp/logs"
	"github.com/gokulp01/pathy/internal/utils"
)

const (
	JSONRPC_VERSION = "2.0"

	CONTENT_LENGTH_HEADER = "Content-Length"
	MAX_MESSAGE_SIZE      = 50_000_000
	MAX_HEADER_COUNT      = 20

	MAX_PARAMS_LOGGING_SIZE = 3000
)

var (
	ErrAlreadyShuttingDown = errors.New("session is already shutting down")
	ErrAlreadyClosed       = errors.New("session is already closed")
	ErrMessageTooLarge     = errors.New("message is too large")

	sessionKey struct{}
)

// A Session is a JSON-RPC connection with a client. Messages are handled one at a time: a handler runs to
// completion before the next message is read.
type Session struct {
	id     int
	server *Server

	// Only one connection is non-nil
	conn      ReaderWriter
	reader    *bufio.Reader
	msgConn   MessageReaderWriter
	writeLock sync.Mutex

	closed       atomic.Bool
	shuttingDown atomic.Bool

	callbackLock   sync.Mutex
	closedCallback func(*Session)
}

func GetSession(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionKey).(*Session)
	return session
}

func (s *Session) Id() int {
	return s.id
}

func (s *Session) Start() {
	defer s.Close()

	for {
		if continueLoop := s.handle(); !continueLoop {
			return
		}

		if s.closed.Load() {
			return
		}
	}
}

func (s *Session) handle() (continueLoop bool) {
	msg, err := s.readMessage()
	if err != nil {
		var respErr ResponseError
		if errors.As(err, &respErr) {
			if err := s.writeResponse(nil, nil, respErr); err != nil {
				return s.handlerError(err)
			}
			return true
		}
		return s.handlerError(err)
	}

	if msg.isResponse() {
		if msg.Error != nil {
			logs.Printf("Error Response From Client: [%v] %s\n", msg.ID, msg.Error)
		} else {
			logs.Printf("Response From Client: [%v]\n", msg.ID)
		}
		return true
	}

	if err := s.handleRequest(msg); err != nil {
		return s.handlerError(err)
	}
	return true
}

func (s *Session) readMessage() (incomingMessage, error) {
	var contentBytes []byte

	if s.msgConn != nil {
		msg, err := s.msgConn.ReadMessage()
		if err != nil {
			return incomingMessage{}, err
		}
		contentBytes = msg
	} else {
		content, err := s.readContentLengthFramedMessage()
		if err != nil {
			return incomingMessage{}, err
		}
		contentBytes = content
	}

	msg := incomingMessage{}
	if err := json.Unmarshal(contentBytes, &msg); err != nil {
		e := ParseError
		e.Data = err.Error()
		return incomingMessage{}, e
	}
	return msg, nil
}

// readContentLengthFramedMessage reads the header part (Content-Length: <n>\r\n ... \r\n) and then the n bytes of content.
func (s *Session) readContentLengthFramedMessage() ([]byte, error) {
	contentLength := -1

	for headerCount := 0; ; headerCount++ {
		if headerCount > MAX_HEADER_COUNT {
			return nil, ParseError
		}

		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if contentLength < 0 {
				//no header yet
				if headerCount == 0 {
					continue
				}
				return nil, ParseError
			}
			break
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, ParseError
		}

		if strings.EqualFold(strings.TrimSpace(name), CONTENT_LENGTH_HEADER) {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				e := ParseError
				e.Data = "invalid " + CONTENT_LENGTH_HEADER
				return nil, e
			}
			contentLength = n
		}
	}

	if contentLength > MAX_MESSAGE_SIZE {
		return nil, ErrMessageTooLarge
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *Session) handleRequest(req incomingMessage) error {
	isNotification := req.isNotification()
	logs.Printf("Request: [%v] [%s], content: [%s]\n", req.ID, req.Method, truncateParams(req.Params))

	mtdInfo, ok := s.server.methods[req.Method]
	if !ok {
		if isNotification {
			//unknown notifications are ignored.
			return nil
		}
		return s.writeResponse(req.ID, nil, MethodNotFound)
	}

	if s.shuttingDown.Load() && !isNotification {
		return s.writeResponse(req.ID, nil, InvalidRequest)
	}

	args := mtdInfo.NewRequest()
	if len(req.Params) > 0 && string(req.Params) != "null" && args != nil {
		if err := json.Unmarshal(req.Params, args); err != nil {
			if isNotification {
				logs.Printf("invalid params for notification %s: %s\n", req.Method, err)
				return nil
			}
			e := InvalidParams
			e.Data = err.Error()
			return s.writeResponse(req.ID, nil, e)
		}
	}

	ctx := context.WithValue(context.Background(), sessionKey, s)
	result, err := s.callHandler(ctx, mtdInfo, args)

	if isNotification {
		if err != nil {
			logs.Printf("error while handling notification %s: %s\n", req.Method, err)
		}
		return nil
	}

	return s.writeResponse(req.ID, result, err)
}

func (s *Session) callHandler(ctx context.Context, mtdInfo MethodInfo, args interface{}) (result interface{}, finalErr error) {
	defer func() {
		if e := recover(); e != nil {
			err := utils.ConvertPanicValueToError(e)
			logs.Printf("panic in handler of %s: %s at %s\n", mtdInfo.Name, err, debug.Stack())
			finalErr = err
		}
	}()
	return mtdInfo.Handler(ctx, args)
}

func (s *Session) writeResponse(id interface{}, result interface{}, err error) error {
	resp := ResponseMessage{
		BaseMessage: BaseMessage{Jsonrpc: JSONRPC_VERSION},
		ID:          id,
		Result:      result,
	}

	if err != nil {
		var respErr ResponseError
		if !errors.As(err, &respErr) {
			respErr = InternalError
			respErr.Message = err.Error()
		}
		resp.Error = &respErr
		resp.Result = nil
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	logs.Printf("Response: [%v] res: [%s]\n", resp.ID, truncateParams(respBytes))
	return s.writeMessage(respBytes)
}

func (s *Session) Notify(notif NotificationMessage) error {
	notif.BaseMessage = BaseMessage{Jsonrpc: JSONRPC_VERSION}

	notifBytes, err := json.Marshal(notif)
	if err != nil {
		return err
	}
	logs.Printf("Notification: [%s]\n", truncateParams(notifBytes))

	return s.writeMessage(notifBytes)
}

// SendRequest sends a request to the client, RequestMessage.ID & RequestMessage.BaseMessage
// are set by the callee. The response of the client is only logged.
func (s *Session) SendRequest(req RequestMessage) error {
	req.BaseMessage = BaseMessage{Jsonrpc: JSONRPC_VERSION}
	req.ID = uuid.New().String()

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return err
	}
	logs.Printf("Request To Client: [%s]\n", truncateParams(reqBytes))

	return s.writeMessage(reqBytes)
}

func (s *Session) writeMessage(msg []byte) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if s.closed.Load() {
		return ErrAlreadyClosed
	}

	if s.msgConn != nil {
		return s.msgConn.WriteMessage(msg)
	}

	header := fmt.Sprintf("%s: %d\r\n\r\n", CONTENT_LENGTH_HEADER, len(msg))
	return s.mustWrite(append([]byte(header), msg...))
}

func (s *Session) mustWrite(data []byte) error {
	t := 0
	for t != len(data) {
		n, err := s.conn.Write(data[t:])
		if err != nil {
			return err
		}
		t += n
	}
	return nil
}

// handlerError logs err and reports whether the session should continue reading messages.
func (s *Session) handlerError(err error) (continueLoop bool) {
	isEof := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
	isClosed := errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed)
	isWebsocketClose := websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		websocket.IsUnexpectedCloseError(err)

	if isEof || isClosed || isWebsocketClose {
		logs.Println("connection closed")
		return false
	}

	logs.Println("error: ", err)
	return !s.closed.Load() && !errors.Is(err, ErrMessageTooLarge) && !isReadError(err)
}

func isReadError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "read"
}

// SetClosedCallbackFn sets a function called after the session is closed.
func (s *Session) SetClosedCallbackFn(fn func(session *Session)) {
	s.callbackLock.Lock()
	defer s.callbackLock.Unlock()

	if s.closedCallback != nil {
		panic(errors.New("closed callback function already set"))
	}
	s.closedCallback = fn
}

// Shutdown makes the session reject all subsequent requests, notifications are still handled.
func (s *Session) Shutdown() error {
	if !s.shuttingDown.CompareAndSwap(false, true) {
		return ErrAlreadyShuttingDown
	}
	return nil
}

func (s *Session) IsShuttingDown() bool {
	return s.shuttingDown.Load()
}

func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Close closes the connection and removes the session from the server.
func (s *Session) Close() error {
	s.writeLock.Lock()
	if !s.closed.CompareAndSwap(false, true) {
		s.writeLock.Unlock()
		return ErrAlreadyClosed
	}
	s.writeLock.Unlock()

	var closeErr error
	if s.conn != nil {
		closeErr = s.conn.Close()
	} else {
		closeErr = s.msgConn.Close()
	}

	s.server.removeSession(s.id)

	s.callbackLock.Lock()
	callbackFn := s.closedCallback
	s.closedCallback = nil
	s.callbackLock.Unlock()

	if callbackFn != nil {
		func() {
			defer func() {
				if e := recover(); e != nil {
					logs.Println(utils.ConvertPanicValueToError(e), "at", string(debug.Stack()))
				}
			}()
			callbackFn(s)
		}()
	}

	return closeErr
}

func truncateParams(params []byte) string {
	if len(params) > MAX_PARAMS_LOGGING_SIZE {
		return string(params[:MAX_PARAMS_LOGGING_SIZE]) + "..."
	}
	return string(params)
}
