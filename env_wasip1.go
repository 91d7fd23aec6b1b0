//go:build wasip1

package wasmpdk

// Raw host imports. These are unexported and wrapped by wasmEnv so that
// non-wasm builds (tests, the dev harness) can substitute an in-process
// HostEnv implementation.

//go:wasmimport pdk:host/env input-length
func hostInputLength() uint64

//go:wasmimport pdk:host/env input-load-u8
func hostInputLoadU8(offset uint64) uint32

//go:wasmimport pdk:host/env input-load-u64
func hostInputLoadU64(offset uint64) uint64

//go:wasmimport pdk:host/env output-set
func hostOutputSet(offset, length uint64)

//go:wasmimport pdk:host/env alloc
func hostAlloc(size uint64) uint64

//go:wasmimport pdk:host/env free
func hostFree(offset uint64)

//go:wasmimport pdk:host/env length
func hostLength(offset uint64) uint64

//go:wasmimport pdk:host/env load-u8
func hostLoadU8(offset uint64) uint32

//go:wasmimport pdk:host/env load-u64
func hostLoadU64(offset uint64) uint64

//go:wasmimport pdk:host/env store-u8
func hostStoreU8(offset uint64, value uint32)

//go:wasmimport pdk:host/env store-u64
func hostStoreU64(offset uint64, value uint64)

//go:wasmimport pdk:host/env config-get
func hostConfigGet(keyOffset uint64) uint64

//go:wasmimport pdk:host/env error-set
func hostErrorSet(offset uint64)

//go:wasmimport pdk:host/env var-get
func hostVarGet(keyOffset uint64) uint64

//go:wasmimport pdk:host/env var-set
func hostVarSet(keyOffset, valueOffset uint64)

//go:wasmimport pdk:host/env log-trace
func hostLogTrace(offset uint64)

//go:wasmimport pdk:host/env log-debug
func hostLogDebug(offset uint64)

//go:wasmimport pdk:host/env log-info
func hostLogInfo(offset uint64)

//go:wasmimport pdk:host/env log-warn
func hostLogWarn(offset uint64)

//go:wasmimport pdk:host/env log-error
func hostLogError(offset uint64)

//go:wasmimport pdk:host/env get-log-level
func hostGetLogLevel() int32

//go:wasmimport pdk:host/env http-request
func hostHTTPRequest(requestOffset, bodyOffset uint64) uint64

//go:wasmimport pdk:host/env http-status-code
func hostHTTPStatusCode() int32

//go:wasmimport pdk:host/env http-headers
func hostHTTPHeaders() uint64

// wasmEnv adapts the raw imports to the HostEnv interface.
type wasmEnv struct{}

func (wasmEnv) InputLength() uint64                { return hostInputLength() }
func (wasmEnv) InputLoadU8(offset uint64) uint8    { return uint8(hostInputLoadU8(offset)) }
func (wasmEnv) InputLoadU64(offset uint64) uint64  { return hostInputLoadU64(offset) }
func (wasmEnv) OutputSet(offset, length uint64)    { hostOutputSet(offset, length) }
func (wasmEnv) Alloc(size uint64) uint64           { return hostAlloc(size) }
func (wasmEnv) Free(offset uint64)                 { hostFree(offset) }
func (wasmEnv) Length(offset uint64) uint64        { return hostLength(offset) }
func (wasmEnv) LoadU8(offset uint64) uint8         { return uint8(hostLoadU8(offset)) }
func (wasmEnv) LoadU64(offset uint64) uint64       { return hostLoadU64(offset) }
func (wasmEnv) StoreU8(offset uint64, v uint8)     { hostStoreU8(offset, uint32(v)) }
func (wasmEnv) StoreU64(offset uint64, v uint64)   { hostStoreU64(offset, v) }
func (wasmEnv) ConfigGet(keyOffset uint64) uint64  { return hostConfigGet(keyOffset) }
func (wasmEnv) ErrorSet(offset uint64)             { hostErrorSet(offset) }
func (wasmEnv) VarGet(keyOffset uint64) uint64     { return hostVarGet(keyOffset) }
func (wasmEnv) VarSet(keyOffset, valOffset uint64) { hostVarSet(keyOffset, valOffset) }
func (wasmEnv) LogLevel() LogLevel                 { return LogLevel(hostGetLogLevel()) }

func (wasmEnv) Log(level LogLevel, offset uint64) {
	switch level {
	case LogTrace:
		hostLogTrace(offset)
	case LogDebug:
		hostLogDebug(offset)
	case LogInfo:
		hostLogInfo(offset)
	case LogWarn:
		hostLogWarn(offset)
	default:
		hostLogError(offset)
	}
}

func (wasmEnv) HTTPRequest(requestOffset, bodyOffset uint64) uint64 {
	return hostHTTPRequest(requestOffset, bodyOffset)
}
func (wasmEnv) HTTPStatusCode() int32 { return hostHTTPStatusCode() }
func (wasmEnv) HTTPHeaders() uint64   { return hostHTTPHeaders() }

func init() {
	SetHost(wasmEnv{})
}
