package jsonrpc

import (
	"fmt"

	json "github.com/goccy/go-json"
)

type BaseMessage struct {
	Jsonrpc string `json:"jsonrpc"`
}

// A RequestMessage is a request or a notification (no ID).
type RequestMessage struct {
	BaseMessage
	ID     interface{}     `json:"id,omitempty"` // may be int or string
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"` // params, is some struct or slice
}

type NotificationMessage struct {
	BaseMessage
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type ResponseMessage struct {
	BaseMessage
	ID     interface{}    `json:"id"` // may be int or string
	Result interface{}    `json:"result"`
	Error  *ResponseError `json:"error,omitempty"`
}

// incomingMessage is a message sent by the client: a request, a notification or a response to
// a request sent by the server.
type incomingMessage struct {
	BaseMessage
	ID     interface{}     `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
	Error  *ResponseError  `json:"error"`
}

func (m incomingMessage) isResponse() bool {
	return m.Method == "" && m.ID != nil
}

func (m incomingMessage) isNotification() bool {
	return m.ID == nil
}

type ResponseError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (r ResponseError) Error() string {
	return fmt.Sprintf("code: %d, message: %s, data: %v", r.Code, r.Message, r.Data)
}

type BuildInError = ResponseError

const ParseErrorCode = -32700
const InvalidRequestCode = -32600
const MethodNotFoundCode = -32601
const InvalidParamsCode = -32602
const InternalErrorCode = -32603
const UnknownErrorCodeCode = -32001

var ParseError = BuildInError{
	Code:    ParseErrorCode,
	Message: "ParseError",
}
var InvalidRequest = BuildInError{
	Code:    InvalidRequestCode,
	Message: "InvalidRequest",
}
var MethodNotFound = BuildInError{
	Code:    MethodNotFoundCode,
	Message: "MethodNotFound",
}
var InvalidParams = BuildInError{
	Code:    InvalidParamsCode,
	Message: "InvalidParams",
}
var InternalError = BuildInError{
	Code:    InternalErrorCode,
	Message: "InternalError",
}
