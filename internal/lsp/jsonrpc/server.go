package jsonrpc

import (
	"bufio"
	"context"
	"sync"
)

type MethodInfo struct {
	Name       string
	NewRequest func() interface{}
	Handler    func(ctx context.Context, req interface{}) (interface{}, error)
}

type Server struct {
	sessions    map[int]*Session
	nextId      int
	methods     map[string]MethodInfo
	sessionLock sync.Mutex
	onSession   SessionCreationCallbackFn
}

// Called before starting each new JSON RPC session.
type SessionCreationCallbackFn func(*Session) error

func NewServer(onSession SessionCreationCallbackFn) *Server {
	if onSession == nil {
		onSession = func(s *Session) error { return nil }
	}

	s := &Server{
		onSession: onSession,
		sessions:  make(map[int]*Session),
		methods:   make(map[string]MethodInfo),
	}

	// Register Builtin
	s.RegisterMethod(CancelRequest())

	return s
}

func (s *Server) RegisterMethod(m MethodInfo) {
	s.methods[m.Name] = m
}

// ConnComeIn creates a session for a byte stream connection (Content-Length framing) and runs it
// until the connection is closed.
func (s *Server) ConnComeIn(conn ReaderWriter) {
	session := s.newSession(func(id int) *Session {
		return newSessionWithConn(id, s, conn)
	})
	if err := s.onSession(session); err != nil {
		session.Close()
		return
	}
	session.Start()
}

// MsgConnComeIn creates a session for a connection transporting whole messages and runs it until the
// connection is closed.
func (s *Server) MsgConnComeIn(conn MessageReaderWriter) {
	session := s.newSession(func(id int) *Session {
		return newSessionWithMessageConn(id, s, conn)
	})
	if err := s.onSession(session); err != nil {
		session.Close()
		return
	}
	session.Start()
}

func (s *Server) SessionCount() int {
	s.sessionLock.Lock()
	defer s.sessionLock.Unlock()
	return len(s.sessions)
}

func (s *Server) removeSession(id int) {
	s.sessionLock.Lock()
	defer s.sessionLock.Unlock()
	delete(s.sessions, id)
}

func (s *Server) newSession(create func(id int) *Session) *Session {
	s.sessionLock.Lock()
	defer s.sessionLock.Unlock()

	id := s.nextId
	s.nextId += 1

	session := create(id)
	s.sessions[id] = session
	return session
}

func newSessionWithConn(id int, server *Server, conn ReaderWriter) *Session {
	return &Session{id: id, server: server, conn: conn, reader: bufio.NewReader(conn)}
}

func newSessionWithMessageConn(id int, server *Server, conn MessageReaderWriter) *Session {
	return &Session{id: id, server: server, msgConn: conn}
}
