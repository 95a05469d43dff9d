package runner

import (
	"context"
	"fmt"
	"runtime/debug"
)

// CallbackFault records a panic raised by a produce, execute or consume
// callback.
type CallbackFault struct {
	Label string
	Value any
	Stack []byte
}

func (f *CallbackFault) Error() string {
	return fmt.Sprintf("benchmark %q: callback panicked: %v", f.Label, f.Value)
}

// Unwrap exposes the panic value when it is an error.
func (f *CallbackFault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// RunSafely runs b and converts a callback panic into a *CallbackFault. The
// log of b keeps every step completed before the panic.
func RunSafely(ctx context.Context, b Bencher) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &CallbackFault{
				Label: b.Log().Label,
				Value: v,
				Stack: debug.Stack(),
			}
		}
	}()
	return b.Run(ctx)
}
