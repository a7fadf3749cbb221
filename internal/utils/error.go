package utils

import (
	"fmt"
	"runtime/debug"
)

func ConvertPanicValueToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return fmt.Errorf("%#v", v)
}

// Recover recovers from a panic and calls onPanic with the panic value converted to an error, the stack
// trace is appended to the error message. It should be deferred directly: defer utils.Recover(onPanic).
func Recover(onPanic func(err error)) {
	e := recover()
	if e == nil {
		return
	}
	err := ConvertPanicValueToError(e)
	onPanic(fmt.Errorf("%w: %s", err, debug.Stack()))
}
