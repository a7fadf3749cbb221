package jsonrpc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoParams struct {
	Text string `json:"text"`
}

func newTestServer() *Server {
	server := NewServer(nil)
	server.RegisterMethod(MethodInfo{
		Name:       "echo",
		NewRequest: func() interface{} { return &echoParams{} },
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			return req.(*echoParams).Text, nil
		},
	})
	server.RegisterMethod(MethodInfo{
		Name:       "fail",
		NewRequest: func() interface{} { return &echoParams{} },
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, errors.New("failure")
		},
	})
	server.RegisterMethod(MethodInfo{
		Name:       "panic",
		NewRequest: func() interface{} { return &echoParams{} },
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			panic("boom")
		},
	})
	server.RegisterMethod(MethodInfo{
		Name:       "shutdown",
		NewRequest: func() interface{} { return nil },
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, GetSession(ctx).Shutdown()
		},
	})
	server.RegisterMethod(MethodInfo{
		Name:       "exit",
		NewRequest: func() interface{} { return nil },
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			GetSession(ctx).Close()
			return nil, nil
		},
	})
	server.RegisterMethod(MethodInfo{
		Name:       "ask",
		NewRequest: func() interface{} { return nil },
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, GetSession(ctx).SendRequest(RequestMessage{Method: "client/question"})
		},
	})
	return server
}

type messageTestClient struct {
	incoming chan []byte
	outgoing chan []byte
	closed   chan struct{}
	once     sync.Once
}

func newMessageTestClient() *messageTestClient {
	return &messageTestClient{
		incoming: make(chan []byte, 10),
		outgoing: make(chan []byte, 10),
		closed:   make(chan struct{}),
	}
}

func (c *messageTestClient) conn() FnMessageReaderWriter {
	return FnMessageReaderWriter{
		ReadMessageFn: func() ([]byte, error) {
			select {
			case msg := <-c.incoming:
				return msg, nil
			case <-c.closed:
				return nil, io.EOF
			}
		},
		WriteMessageFn: func(msg []byte) error {
			c.outgoing <- msg
			return nil
		},
		CloseFn: func() error {
			c.once.Do(func() { close(c.closed) })
			return nil
		},
	}
}

func (c *messageTestClient) send(msg string) {
	c.incoming <- []byte(msg)
}

func (c *messageTestClient) receive(t *testing.T) map[string]any {
	select {
	case msg := <-c.outgoing:
		var result map[string]any
		require.NoError(t, json.Unmarshal(msg, &result))
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
		return nil
	}
}

func (c *messageTestClient) assertNoMessage(t *testing.T) {
	select {
	case msg := <-c.outgoing:
		t.Fatalf("unexpected message: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func startMessageSession(t *testing.T, server *Server) (*messageTestClient, chan struct{}) {
	client := newMessageTestClient()
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.MsgConnComeIn(client.conn())
	}()
	t.Cleanup(func() {
		client.conn().Close()
		<-done
	})
	return client, done
}

func TestSessionWithMessageConnection(t *testing.T) {

	t.Run("request", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "id": 1, "method": "echo", "params": {"text": "hello"}}`)
		resp := client.receive(t)

		assert.Equal(t, "2.0", resp["jsonrpc"])
		assert.EqualValues(t, 1, resp["id"])
		assert.Equal(t, "hello", resp["result"])
		assert.NotContains(t, resp, "error")
	})

	t.Run("string ID", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "id": "a", "method": "echo", "params": {"text": "x"}}`)
		resp := client.receive(t)
		assert.Equal(t, "a", resp["id"])
	})

	t.Run("requests are handled in order", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		for i := 0; i < 5; i++ {
			client.send(fmt.Sprintf(`{"jsonrpc": "2.0", "id": %d, "method": "echo", "params": {"text": "%d"}}`, i, i))
		}
		for i := 0; i < 5; i++ {
			resp := client.receive(t)
			assert.Equal(t, strconv.Itoa(i), resp["result"])
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "id": 1, "method": "unknown"}`)
		resp := client.receive(t)
		assert.EqualValues(t, MethodNotFoundCode, resp["error"].(map[string]any)["code"])
	})

	t.Run("unknown notification", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "method": "unknown"}`)
		client.assertNoMessage(t)
	})

	t.Run("invalid params", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "id": 1, "method": "echo", "params": {"text": 1}}`)
		resp := client.receive(t)
		assert.EqualValues(t, InvalidParamsCode, resp["error"].(map[string]any)["code"])
	})

	t.Run("invalid JSON", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": `)
		resp := client.receive(t)
		assert.Nil(t, resp["id"])
		assert.EqualValues(t, ParseErrorCode, resp["error"].(map[string]any)["code"])

		//the session is still usable
		client.send(`{"jsonrpc": "2.0", "id": 2, "method": "echo", "params": {"text": "ok"}}`)
		assert.Equal(t, "ok", client.receive(t)["result"])
	})

	t.Run("handler error", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "id": 1, "method": "fail"}`)
		respErr := client.receive(t)["error"].(map[string]any)
		assert.EqualValues(t, InternalErrorCode, respErr["code"])
		assert.Equal(t, "failure", respErr["message"])
	})

	t.Run("panicking handler", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "id": 1, "method": "panic"}`)
		respErr := client.receive(t)["error"].(map[string]any)
		assert.EqualValues(t, InternalErrorCode, respErr["code"])

		client.send(`{"jsonrpc": "2.0", "id": 2, "method": "echo", "params": {"text": "still alive"}}`)
		assert.Equal(t, "still alive", client.receive(t)["result"])
	})

	t.Run("shutdown then exit", func(t *testing.T) {
		server := newTestServer()
		client, done := startMessageSession(t, server)

		client.send(`{"jsonrpc": "2.0", "id": 1, "method": "shutdown"}`)
		resp := client.receive(t)
		assert.Contains(t, resp, "result")
		assert.Nil(t, resp["result"])

		client.send(`{"jsonrpc": "2.0", "id": 2, "method": "echo", "params": {"text": "x"}}`)
		assert.EqualValues(t, InvalidRequestCode, client.receive(t)["error"].(map[string]any)["code"])

		client.send(`{"jsonrpc": "2.0", "method": "exit"}`)
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("the session should have stopped")
		}
		assert.Zero(t, server.SessionCount())
	})

	t.Run("request to the client", func(t *testing.T) {
		client, _ := startMessageSession(t, newTestServer())

		client.send(`{"jsonrpc": "2.0", "id": 1, "method": "ask"}`)

		req := client.receive(t)
		assert.Equal(t, "client/question", req["method"])
		_, err := uuid.Parse(req["id"].(string))
		assert.NoError(t, err)

		assert.Contains(t, client.receive(t), "result")

		//the response of the client is consumed without reply.
		client.send(fmt.Sprintf(`{"jsonrpc": "2.0", "id": %q, "result": null}`, req["id"]))
		client.assertNoMessage(t)
	})

	t.Run("closed callback", func(t *testing.T) {
		called := make(chan struct{})
		server := NewServer(func(s *Session) error {
			s.SetClosedCallbackFn(func(*Session) { close(called) })
			return nil
		})

		client := newMessageTestClient()
		go server.MsgConnComeIn(client.conn())
		client.conn().Close()

		select {
		case <-called:
		case <-time.After(2 * time.Second):
			t.Fatal("the closed callback should have been called")
		}
	})
}

func TestSessionWithStreamConnection(t *testing.T) {
	server := newTestServer()

	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	conn := &pipeConn{reader: serverReader, writer: serverWriter}
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.ConnComeIn(conn)
	}()

	reader := bufio.NewReader(clientReader)

	readResponse := func() map[string]any {
		contentLength := -1
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSpace(line)
			if line == "" {
				break
			}
			name, value, _ := strings.Cut(line, ":")
			require.Equal(t, CONTENT_LENGTH_HEADER, name)
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			require.NoError(t, err)
		}
		content := make([]byte, contentLength)
		_, err := io.ReadFull(reader, content)
		require.NoError(t, err)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(content, &resp))
		return resp
	}

	write := func(s string) {
		_, err := clientWriter.Write([]byte(s))
		require.NoError(t, err)
	}

	body := `{"jsonrpc": "2.0", "id": 1, "method": "echo", "params": {"text": "stream"}}`
	write(fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body))
	assert.Equal(t, "stream", readResponse()["result"])

	//additional header and case-insensitive header name
	body = `{"jsonrpc": "2.0", "id": 2, "method": "echo", "params": {"text": "é"}}`
	write(fmt.Sprintf("content-length: %d\r\nContent-Type: application/vscode-jsonrpc; charset=utf-8\r\n\r\n%s", len(body), body))
	assert.Equal(t, "é", readResponse()["result"])

	//invalid header
	write("Content-Length: abc\r\n\r\n")
	assert.EqualValues(t, ParseErrorCode, readResponse()["error"].(map[string]any)["code"])

	clientWriter.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("the session should have stopped")
	}
	assert.Zero(t, server.SessionCount())
}

type pipeConn struct {
	reader *io.PipeReader
	writer *io.PipeWriter
}

func (c *pipeConn) Read(p []byte) (int, error) {
	return c.reader.Read(p)
}

func (c *pipeConn) Write(p []byte) (int, error) {
	return c.writer.Write(p)
}

func (c *pipeConn) Close() error {
	c.reader.Close()
	return c.writer.Close()
}
