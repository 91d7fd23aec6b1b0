package pdk

import (
	"fmt"

	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/mem"
)

// SetError publishes msg on the call's error channel. An empty message
// is replaced with a generic one so the host never observes a present
// but empty error block.
func SetError(msg string) {
	if msg == "" {
		msg = "unknown error"
	}
	b, err := mem.AllocString(msg)
	if err != nil {
		return
	}
	wasmpdk.Host().ErrorSet(b.Offset)
}

// Guard runs fn and converts its outcome to the uniform entry-point
// status: 0 on success, 1 on error or panic. Failures are reported
// through the error channel before the status is returned, so the host
// can always distinguish "failed" from "returned no output".
func Guard(fn func() error) (status uint32) {
	defer func() {
		if r := recover(); r != nil {
			SetError(fmt.Sprintf("panic: %v", r))
			status = 1
		}
	}()
	if err := fn(); err != nil {
		SetError(err.Error())
		return 1
	}
	return 0
}
