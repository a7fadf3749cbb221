package pathserver

import (
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/gokulp01/pathy/internal/config"
	"github.com/gokulp01/pathy/internal/lsp/jsonrpc"
	"github.com/gokulp01/pathy/internal/lsp/lsp/defines"
)

var (
	sessionToAdditionalData     = make(map[*jsonrpc.Session]*additionalSessionData)
	sessionToAdditionalDataLock sync.Mutex
)

type additionalSessionData struct {
	lock sync.Mutex

	rootDir            string //empty if the client did not provide a root
	config             config.Config
	clientCapabilities defines.ClientCapabilities

	//the documents are accessed without holding lock.
	documents cmap.ConcurrentMap[string, document]
}

type document struct {
	languageId string
	version    int
	text       string
}

func createSessionData(session *jsonrpc.Session, cfg config.Config) *additionalSessionData {
	sessionData := &additionalSessionData{
		config:    cfg.Clone(),
		documents: cmap.New[document](),
	}

	sessionToAdditionalDataLock.Lock()
	sessionToAdditionalData[session] = sessionData
	sessionToAdditionalDataLock.Unlock()

	return sessionData
}

func removeSessionData(session *jsonrpc.Session) {
	sessionToAdditionalDataLock.Lock()
	delete(sessionToAdditionalData, session)
	sessionToAdditionalDataLock.Unlock()
}

func getLockedSessionData(session *jsonrpc.Session) *additionalSessionData {
	sessionData := getSessionData(session)
	sessionData.lock.Lock()
	return sessionData
}

func getSessionData(session *jsonrpc.Session) *additionalSessionData {
	sessionToAdditionalDataLock.Lock()
	sessionData := sessionToAdditionalData[session]
	sessionToAdditionalDataLock.Unlock()

	if sessionData == nil {
		return createSessionData(session, config.Default())
	}
	return sessionData
}
