package pathserver

import (
	"io"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokulp01/pathy/internal/config"
	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
	"github.com/gokulp01/pathy/internal/pathcompletion"
)

//utils

type testServer struct {
	client  *testClient
	session *jsonrpc.Session
	done    chan error
}

func createTestServerAndClient(t *testing.T, settings *config.Config) *testServer {
	return createTestServerAndClientWithLister(t, settings, nil)
}

func createTestServerAndClientWithLister(t *testing.T, settings *config.Config, lister pathcompletion.Lister) *testServer {
	client := newTestClient()
	sessions := make(chan *jsonrpc.Session, 1)

	conf := LSPServerConfiguration{
		MessageReaderWriter: client.msgReaderWriter,
		Logger:              zerolog.Nop(),
		Version:             "0.1.0",
		Settings:            settings,
		Lister:              lister,
		OnSession: func(session *jsonrpc.Session) error {
			sessions <- session
			return nil
		},
	}

	done := make(chan error, 1)
	go func() {
		done <- StartLSPServer(conf)
	}()

	var session *jsonrpc.Session
	select {
	case session = <-sessions:
	case <-time.After(2 * time.Second):
		t.Fatal("no session was created")
	}

	t.Cleanup(client.close)

	return &testServer{client: client, session: session, done: done}
}

type testClient struct {
	outgoingMessages chan []byte
	incomingMessages chan []byte
	closed           chan struct{}
	closeOnce        sync.Once
	msgReaderWriter  jsonrpc.MessageReaderWriter
}

func newTestClient() *testClient {
	client := &testClient{
		outgoingMessages: make(chan []byte, 20),
		incomingMessages: make(chan []byte, 20),
		closed:           make(chan struct{}),
	}

	client.msgReaderWriter = &jsonrpc.FnMessageReaderWriter{
		ReadMessageFn: func() (msg []byte, err error) {
			select {
			case msg := <-client.outgoingMessages:
				return msg, nil
			case <-client.closed:
				return nil, io.EOF
			}
		},
		WriteMessageFn: func(msg []byte) error {
			select {
			case <-client.closed:
				return io.EOF
			default:
			}
			client.incomingMessages <- msg
			return nil
		},
		CloseFn: func() error {
			client.close()
			return nil
		},
	}

	return client
}

func (c *testClient) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// sendRequest sends a request to the server and returns its ID.
func (c *testClient) sendRequest(t *testing.T, method string, params any) string {
	id := uuid.NewString()
	c.outgoingMessages <- c.marshalMessage(t, map[string]any{
		"jsonrpc": jsonrpc.JSONRPC_VERSION,
		"id":      id,
		"method":  method,
		"params":  params,
	})
	return id
}

func (c *testClient) sendNotif(t *testing.T, method string, params any) {
	c.outgoingMessages <- c.marshalMessage(t, map[string]any{
		"jsonrpc": jsonrpc.JSONRPC_VERSION,
		"method":  method,
		"params":  params,
	})
}

func (c *testClient) marshalMessage(t *testing.T, msg map[string]any) []byte {
	bytes, err := json.Marshal(msg)
	require.NoError(t, err)
	return bytes
}

// receive waits for the next message sent by the server.
func (c *testClient) receive(t *testing.T) map[string]any {
	select {
	case bytes := <-c.incomingMessages:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(bytes, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timeout while waiting for a message from the server")
		return nil
	}
}

// request sends a request and returns the response of the server.
func (c *testClient) request(t *testing.T, method string, params any) map[string]any {
	id := c.sendRequest(t, method, params)
	resp := c.receive(t)
	require.Equal(t, id, resp["id"])
	return resp
}

func (c *testClient) assertNoMessage(t *testing.T) {
	select {
	case msg := <-c.incomingMessages:
		assert.Fail(t, "unexpected message", string(msg))
	case <-time.After(50 * time.Millisecond):
	}
}
