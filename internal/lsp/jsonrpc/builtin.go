package jsonrpc

import "context"

// $/cancelRequest: handlers run to completion, cancellation requests are accepted and ignored.
type cancelParams struct {
	ID interface{} `json:"id"`
}

func cancelRequest(ctx context.Context, req interface{}) (interface{}, error) {
	return nil, nil
}

func CancelRequest() MethodInfo {
	return MethodInfo{
		Name: "$/cancelRequest",
		NewRequest: func() interface{} {
			return &cancelParams{}
		},
		Handler: cancelRequest,
	}
}
