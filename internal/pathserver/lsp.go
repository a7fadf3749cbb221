// Package pathserver implements the path completion language server.
package pathserver

import (
	"errors"
	"io"
	"log"

	"github.com/rs/zerolog"

	"github.com/gokulp01/pathy/internal/config"
	"github.com/gokulp01/pathy/internal/dircache"
	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
	"github.com/gokulp01/pathy/internal/lsp/logs"
	"github.com/gokulp01/pathy/internal/lsp/lsp"
	"github.com/gokulp01/pathy/internal/lsp/lsp/defines"
	"github.com/gokulp01/pathy/internal/pathcompletion"
	"github.com/gokulp01/pathy/internal/utils"
)

const (
	LSP_LOG_SRC = "lsp"
	SERVER_NAME = "pathy-server"
)

var (
	TRIGGER_CHARACTERS = []string{"/", ".", "~", "\\", "\"", "'"}
)

type LSPServerConfiguration struct {
	InternalStdio       *InternalStdio
	TCP                 *NetworkServerConfiguration
	Websocket           *NetworkServerConfiguration
	MessageReaderWriter jsonrpc.MessageReaderWriter

	Logger  zerolog.Logger
	Version string

	// Settings is the configuration of new sessions before the client settings are applied,
	// the default configuration is used if nil.
	Settings *config.Config

	// Lister enumerates directories, the OS filesystem is used if nil.
	Lister pathcompletion.Lister

	OnSession jsonrpc.SessionCreationCallbackFn
}

type InternalStdio struct {
	StdioInput  io.Reader
	StdioOutput io.Writer
}

type NetworkServerConfiguration struct {
	Addr string //examples: localhost:7998, :7998
}

// serverState is shared by all sessions.
type serverState struct {
	completer  *pathcompletion.Completer
	loader     *config.Loader
	baseConfig config.Config
	version    string
}

func StartLSPServer(serverConfig LSPServerConfiguration) (finalErr error) {
	//Setup logs.

	zerologLogger := serverConfig.Logger.With().Str("src", LSP_LOG_SRC).Logger()
	logger := log.New(zerologLogger, "", 0)
	logs.Init(logger)

	defer utils.Recover(func(err error) {
		finalErr = err
		logs.Println(err)
	})

	//Configure the LSP server.

	options := &lsp.Config{
		Logger:           zerologLogger,
		TextDocumentSync: defines.TextDocumentSyncKindFull,
	}

	transportCount := 0

	if serverConfig.InternalStdio != nil {
		transportCount++
		options.StdioInput = serverConfig.InternalStdio.StdioInput
		options.StdioOutput = serverConfig.InternalStdio.StdioOutput
	}

	if serverConfig.TCP != nil {
		transportCount++
		options.Network = lsp.NETWORK_TCP
		options.Address = serverConfig.TCP.Addr
	}

	if serverConfig.Websocket != nil {
		transportCount++
		options.Network = lsp.NETWORK_WEBSOCKET
		options.Address = serverConfig.Websocket.Addr
	}

	if serverConfig.MessageReaderWriter != nil {
		transportCount++
		options.MessageReaderWriter = serverConfig.MessageReaderWriter
	}

	if transportCount > 1 {
		panic(errors.New("invalid LSP options: more than one transport is configured"))
	}

	settings := config.Default()
	if serverConfig.Settings != nil {
		settings = serverConfig.Settings.Clone()
	}

	state := &serverState{
		completer: pathcompletion.NewCompleter(
			dircache.New(settings.CacheTTL, settings.CacheMaxDirs),
			serverConfig.Lister,
			serverConfig.Logger,
		),
		loader:     config.NewLoader(zerologLogger),
		baseConfig: settings,
		version:    serverConfig.Version,
	}

	options.OnSession = func(session *jsonrpc.Session) error {
		createSessionData(session, state.baseConfig)
		session.SetClosedCallbackFn(removeSessionData)

		if serverConfig.OnSession != nil {
			return serverConfig.OnSession(session)
		}
		return nil
	}

	//Create and start the LSP server.

	server := lsp.NewServer(options)

	registerStandardMethodHandlers(server, state)

	logs.Println("LSP server configured, start listening")
	return server.Run()
}
