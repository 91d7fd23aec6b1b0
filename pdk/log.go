package pdk

import (
	"fmt"

	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/mem"
)

// Log emits msg at the given level. Messages below the host's active
// level are dropped before any memory is allocated.
func Log(level wasmpdk.LogLevel, msg string) {
	env := wasmpdk.Host()
	if level < env.LogLevel() {
		return
	}
	b, err := mem.AllocString(msg)
	if err != nil {
		return
	}
	defer b.Free()
	env.Log(level, b.Offset)
}

// Logf formats and emits a message at the given level.
func Logf(level wasmpdk.LogLevel, format string, args ...any) {
	if level < wasmpdk.Host().LogLevel() {
		return
	}
	Log(level, fmt.Sprintf(format, args...))
}

func Trace(msg string) { Log(wasmpdk.LogTrace, msg) }
func Debug(msg string) { Log(wasmpdk.LogDebug, msg) }
func Info(msg string)  { Log(wasmpdk.LogInfo, msg) }
func Warn(msg string)  { Log(wasmpdk.LogWarn, msg) }
func Error(msg string) { Log(wasmpdk.LogError, msg) }
