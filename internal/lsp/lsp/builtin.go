package lsp

import (
	"context"
	"errors"

	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
	"github.com/gokulp01/pathy/internal/lsp/lsp/defines"
)

func (m *Methods) builtinInitialize(ctx context.Context, req *defines.InitializeParams) (*defines.InitializeResult, error) {
	resp := &defines.InitializeResult{}
	resp.Capabilities.TextDocumentSync = m.Opt.TextDocumentSync

	if m.Opt.CompletionProvider != nil {
		resp.Capabilities.CompletionProvider = m.Opt.CompletionProvider
	} else if m.onCompletion != nil {
		resp.Capabilities.CompletionProvider = &defines.CompletionOptions{
			TriggerCharacters: &[]string{"/"},
		}
	}

	resp.ServerInfo = m.Opt.ServerInfo
	return resp, nil
}

func (m *Methods) builtinShutdown(ctx context.Context, req *defines.NoParams) error {
	return jsonrpc.GetSession(ctx).Shutdown()
}

func (m *Methods) builtinExit(ctx context.Context, req *defines.NoParams) error {
	session := jsonrpc.GetSession(ctx)
	defer session.Close()

	if !session.IsShuttingDown() {
		return errors.New("the client should make a shutdown request before sending an exit notification")
	}
	return nil
}
