package pathserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gokulp01/pathy/internal/config"
	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
	"github.com/gokulp01/pathy/internal/lsp/logs"
	"github.com/gokulp01/pathy/internal/lsp/lsp"
	"github.com/gokulp01/pathy/internal/lsp/lsp/defines"
	"github.com/gokulp01/pathy/internal/pathcompletion"
	"github.com/gokulp01/pathy/internal/utils"
)

const (
	DID_CHANGE_CONFIGURATION_METHOD = "workspace/didChangeConfiguration"
	REGISTER_CAPABILITY_METHOD      = "client/registerCapability"
	SHOW_MESSAGE_METHOD             = "window/showMessage"
)

var (
	ErrUnsupportedContentChange = errors.New("unsupported content change, the full text of the document is expected")
)

func registerStandardMethodHandlers(server *lsp.Server, state *serverState) {

	//Session initialization and shutdown

	server.OnInitialize(func(ctx context.Context, req *defines.InitializeParams) (result *defines.InitializeResult, err *defines.InitializeError) {
		return handleInitialize(ctx, req, state)
	})

	server.OnInitialized(handleInitialized)

	server.OnShutdown(handleShutdown)

	server.OnExit(handleExit)

	//Configuration

	server.OnDidChangeConfiguration(func(ctx context.Context, req *defines.DidChangeConfigurationParams) error {
		return handleDidChangeConfiguration(ctx, req, state)
	})

	//Document synchronization

	server.OnDidOpenTextDocument(handleDidOpenDocument)

	server.OnDidChangeTextDocument(handleDidChangeDocument)

	server.OnDidCloseTextDocument(handleDidCloseDocument)

	//Completion

	server.OnCompletion(func(ctx context.Context, req *defines.CompletionParams) (*[]defines.CompletionItem, error) {
		return handleCompletion(ctx, req, state)
	})
}

func handleInitialize(ctx context.Context, req *defines.InitializeParams, state *serverState) (result *defines.InitializeResult, err *defines.InitializeError) {
	session := jsonrpc.GetSession(ctx)
	s := &defines.InitializeResult{}

	// makes the client send the whole document during synchronization
	s.Capabilities.TextDocumentSync = defines.TextDocumentSyncKindFull

	triggerCharacters := utils.CopySlice(TRIGGER_CHARACTERS)
	s.Capabilities.CompletionProvider = &defines.CompletionOptions{
		TriggerCharacters: &triggerCharacters,
	}

	s.ServerInfo = &defines.ServerInfo{Name: SERVER_NAME}
	if state.version != "" {
		version := state.version
		s.ServerInfo.Version = &version
	}

	rootDir := getWorkspaceRoot(req)

	sessionData := getLockedSessionData(session)
	defer sessionData.lock.Unlock()

	sessionData.rootDir = rootDir
	sessionData.clientCapabilities = req.Capabilities

	if len(req.InitializationOptions) > 0 {
		cfg := loadClientSettings(session, state, req.InitializationOptions, sessionData.config)
		state.completer.Cache().UpdateLimits(cfg.CacheTTL, cfg.CacheMaxDirs)
		sessionData.config = cfg
	}

	logs.Printf("session initialized, root: %q\n", rootDir)
	return s, nil
}

// getWorkspaceRoot returns the path of rootUri, rootPath or the first workspace folder, in that order.
func getWorkspaceRoot(req *defines.InitializeParams) string {
	if uri, ok := req.RootUri.(string); ok && uri != "" {
		if path, err := getPath(uri); err == nil {
			return path
		}
	}

	if path, ok := req.RootPath.(string); ok && path != "" {
		return filepath.Clean(path)
	}

	for _, folder := range req.WorkspaceFolders {
		if path, err := getPath(folder.Uri); err == nil {
			return path
		}
	}

	return ""
}

func handleInitialized(ctx context.Context, req *defines.InitializedParams) error {
	session := jsonrpc.GetSession(ctx)

	sessionData := getLockedSessionData(session)
	capabilities := sessionData.clientCapabilities
	sessionData.lock.Unlock()

	if !capabilities.SupportsDynamicConfigurationRegistration() {
		return nil
	}

	params, err := json.Marshal(defines.RegistrationParams{
		Registrations: []defines.Registration{
			{
				Id:     uuid.NewString(),
				Method: DID_CHANGE_CONFIGURATION_METHOD,
			},
		},
	})
	if err != nil {
		return err
	}

	return session.SendRequest(jsonrpc.RequestMessage{
		Method: REGISTER_CAPABILITY_METHOD,
		Params: params,
	})
}

func handleShutdown(ctx context.Context, req *defines.NoParams) error {
	session := jsonrpc.GetSession(ctx)
	return session.Shutdown()
}

func handleExit(ctx context.Context, req *defines.NoParams) error {
	session := jsonrpc.GetSession(ctx)
	defer session.Close()

	if !session.IsShuttingDown() {
		return errors.New("the client should make a shutdown request before sending an exit notification")
	}

	return nil
}

func handleDidChangeConfiguration(ctx context.Context, req *defines.DidChangeConfigurationParams, state *serverState) error {
	session := jsonrpc.GetSession(ctx)

	sessionData := getLockedSessionData(session)
	defer sessionData.lock.Unlock()

	cfg := loadClientSettings(session, state, req.Settings, sessionData.config)

	//the cache limits are updated before the new configuration is visible.
	state.completer.Cache().UpdateLimits(cfg.CacheTTL, cfg.CacheMaxDirs)
	sessionData.config = cfg
	return nil
}

// loadClientSettings applies client settings over base, the user is warned about invalid settings.
func loadClientSettings(session *jsonrpc.Session, state *serverState, raw []byte, base config.Config) config.Config {
	cfg, warnings := config.Load(raw, base)
	if len(warnings) == 0 {
		return cfg
	}

	state.loader.Report(warnings)

	params, err := json.Marshal(defines.ShowMessageParams{
		Type:    defines.MessageTypeWarning,
		Message: "pathy: invalid settings were ignored: " + strings.Join(warnings, "; "),
	})
	if err == nil {
		err = session.Notify(jsonrpc.NotificationMessage{
			Method: SHOW_MESSAGE_METHOD,
			Params: params,
		})
	}
	if err != nil {
		logs.Println("failed to notify invalid settings:", err)
	}
	return cfg
}

func handleDidOpenDocument(ctx context.Context, req *defines.DidOpenTextDocumentParams) error {
	session := jsonrpc.GetSession(ctx)
	sessionData := getSessionData(session)

	sessionData.documents.Set(string(req.TextDocument.Uri), document{
		languageId: req.TextDocument.LanguageId,
		version:    req.TextDocument.Version,
		text:       req.TextDocument.Text,
	})
	return nil
}

func handleDidChangeDocument(ctx context.Context, req *defines.DidChangeTextDocumentParams) error {
	if len(req.ContentChanges) == 0 {
		return nil
	}

	//full synchronization: the last change holds the whole content.
	lastChange := req.ContentChanges[len(req.ContentChanges)-1]
	text, ok := lastChange.Text.(string)
	if !ok || lastChange.Range != nil {
		return ErrUnsupportedContentChange
	}

	session := jsonrpc.GetSession(ctx)
	sessionData := getSessionData(session)
	uri := string(req.TextDocument.Uri)

	//changes of documents that are not open are ignored.
	doc, ok := sessionData.documents.Get(uri)
	if !ok {
		logs.Printf("change of a document that is not open: %s\n", uri)
		return nil
	}

	doc.version = req.TextDocument.Version
	doc.text = text
	sessionData.documents.Set(uri, doc)
	return nil
}

func handleDidCloseDocument(ctx context.Context, req *defines.DidCloseTextDocumentParams) error {
	session := jsonrpc.GetSession(ctx)
	sessionData := getSessionData(session)

	sessionData.documents.Remove(string(req.TextDocument.Uri))
	return nil
}

func handleCompletion(ctx context.Context, req *defines.CompletionParams, state *serverState) (*[]defines.CompletionItem, error) {
	session := jsonrpc.GetSession(ctx)
	uri := req.TextDocument.Uri

	sessionData := getLockedSessionData(session)
	cfg := sessionData.config
	rootDir := sessionData.rootDir
	sessionData.lock.Unlock()

	lspCompletions := []defines.CompletionItem{}

	doc, ok := sessionData.documents.Get(string(uri))
	if !ok {
		logs.Printf("completion requested for a document that is not open: %s\n", uri)
		return &lspCompletions, nil
	}

	if !isPythonDocument(uri, doc.languageId) {
		return &lspCompletions, nil
	}

	fileDir := ""
	if fpath, err := getPath(uri); err == nil {
		fileDir = filepath.Dir(fpath)
	}

	completions := state.completer.Complete(pathcompletion.Request{
		Text:          doc.text,
		Line:          int(req.Position.Line),
		Column:        int(req.Position.Character),
		FileDir:       fileDir,
		WorkspaceRoot: rootDir,
	}, cfg)

	sortTextWidth := utils.CountDigits(len(completions))

	lspCompletions = utils.MapSliceIndexed(completions, func(completion pathcompletion.Item, i int) defines.CompletionItem {
		kind := defines.CompletionItemKindFile
		if completion.IsDir {
			kind = defines.CompletionItemKindFolder
		}

		sortText := fmt.Sprintf("%0*d", sortTextWidth, i)
		filterText := completion.InsertText

		return defines.CompletionItem{
			Label:      completion.Label,
			Kind:       &kind,
			SortText:   &sortText,
			FilterText: &filterText,
			TextEdit: &defines.TextEdit{
				Range:   rangeToLspRange(completion.EditRange),
				NewText: completion.InsertText,
			},
		}
	})

	return &lspCompletions, nil
}

func rangeToLspRange(r pathcompletion.Range) defines.Range {
	return defines.Range{
		Start: defines.Position{
			Line:      uint(r.Line),
			Character: uint(r.StartColumn),
		},
		End: defines.Position{
			Line:      uint(r.Line),
			Character: uint(r.EndColumn),
		},
	}
}
