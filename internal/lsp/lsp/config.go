package lsp

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
	"github.com/gokulp01/pathy/internal/lsp/lsp/defines"
)

const (
	NETWORK_TCP       = "tcp"
	NETWORK_WEBSOCKET = "ws"

	DEFAULT_ADDRESS = "127.0.0.1:7998"
)

type Config struct {
	// if Network is empty and MessageReaderWriter is nil, will use stdio
	Network string
	Address string //examples: localhost:7998, :7998

	OnSession jsonrpc.SessionCreationCallbackFn

	StdioInput  io.Reader
	StdioOutput io.Writer
	Logger      zerolog.Logger

	MessageReaderWriter jsonrpc.MessageReaderWriter

	TextDocumentSync   defines.TextDocumentSyncKind
	CompletionProvider *defines.CompletionOptions
	ServerInfo         *defines.ServerInfo
}
