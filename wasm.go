package wasmpdk

// HostEnv is the raw host import surface available to a plugin.
// Offsets address host linear memory; offset 0 always means "absent".
type HostEnv interface {
	// Call input. The input region is host-owned and read-only.
	InputLength() uint64
	InputLoadU8(offset uint64) uint8
	InputLoadU64(offset uint64) uint64

	// Block primitives.
	Alloc(size uint64) uint64
	Free(offset uint64)
	Length(offset uint64) uint64
	LoadU8(offset uint64) uint8
	LoadU64(offset uint64) uint64
	StoreU8(offset uint64, value uint8)
	StoreU64(offset uint64, value uint64)

	// Call result channels. The referenced blocks transfer to the host.
	OutputSet(offset, length uint64)
	ErrorSet(offset uint64)

	// Key/value capabilities. Key blocks remain guest-owned; returned
	// value blocks are guest-owned and must be freed after reading.
	ConfigGet(keyOffset uint64) uint64
	VarGet(keyOffset uint64) uint64
	// VarSet stores a variable; valueOffset 0 deletes the key.
	VarSet(keyOffset, valueOffset uint64)

	// Logging.
	Log(level LogLevel, offset uint64)
	LogLevel() LogLevel

	// HTTP. Returns the response body block (0 when there is none).
	HTTPRequest(requestOffset, bodyOffset uint64) uint64
	HTTPStatusCode() int32
	HTTPHeaders() uint64
}

// HostModule is the wasm import namespace the surface above lives in.
const HostModule = "pdk:host/env"

var host HostEnv

// SetHost installs the active host environment. On wasip1 builds the
// wasm-import-backed environment is installed at init; tests and the
// dev harness install in-process implementations.
func SetHost(env HostEnv) {
	host = env
}

// Host returns the active host environment.
func Host() HostEnv {
	if host == nil {
		panic("wasmpdk: no host environment configured")
	}
	return host
}
