package host

import (
	"bytes"
	"encoding/binary"
	"io"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/errors"
	"github.com/wippyai/wasm-pdk/kvobj"
)

const (
	// DefaultMaxVarBytes caps the total size of the variable store.
	DefaultMaxVarBytes = 1 << 20

	// DefaultMaxResponseBytes caps HTTP response bodies read from the
	// network on behalf of a plugin.
	DefaultMaxResponseBytes = 4 << 20
)

// Options configures a Kernel.
type Options struct {
	// Config is the read-only configuration exposed to the plugin.
	Config map[string]string

	// AllowedHosts lists hostnames the plugin may reach over HTTP. An
	// empty list denies all requests.
	AllowedHosts []string

	// MaxVarBytes bounds the variable store; 0 means the default.
	MaxVarBytes uint64

	// MaxResponseBytes bounds HTTP response bodies; 0 means the default.
	MaxResponseBytes uint64

	// Logger receives plugin log output. Nil means a nop logger.
	Logger *zap.Logger

	// LogLevel is the minimum level forwarded to the logger.
	LogLevel wasmpdk.LogLevel

	// HTTPClient performs outbound requests. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Kernel is an in-process implementation of the host environment. It
// backs blocks with plain Go byte slices keyed by synthetic offsets, so
// guest-facing code can run and be tested without a wasm runtime.
type Kernel struct {
	mu sync.Mutex

	opts   Options
	logger *zap.Logger

	blocks map[uint64][]byte
	next   uint64

	input  []byte
	output []byte
	hasOut bool
	errMsg string
	hasErr bool

	vars     map[string][]byte
	varBytes uint64

	httpStatus  int32
	httpHeaders map[string]string
}

// NewKernel builds a kernel with the given options.
func NewKernel(opts Options) *Kernel {
	if opts.MaxVarBytes == 0 {
		opts.MaxVarBytes = DefaultMaxVarBytes
	}
	if opts.MaxResponseBytes == 0 {
		opts.MaxResponseBytes = DefaultMaxResponseBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Kernel{
		opts:   opts,
		logger: logger,
		blocks: map[uint64][]byte{},
		next:   8,
		vars:   map[string][]byte{},
	}
}

// SetInput installs the input payload for the next call and clears the
// previous call's output and error channels.
func (k *Kernel) SetInput(data []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.input = append([]byte(nil), data...)
	k.output = nil
	k.hasOut = false
	k.errMsg = ""
	k.hasErr = false
}

// TakeOutput returns the output published by the last call, and whether
// any output was set.
func (k *Kernel) TakeOutput() ([]byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.output, k.hasOut
}

// ErrorMessage returns the message on the error channel, if any.
func (k *Kernel) ErrorMessage() (string, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.errMsg, k.hasErr
}

// Var reads a stored variable directly, for assertions in tests and
// harness code.
func (k *Kernel) Var(key string) ([]byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.vars[key]
	return v, ok
}

func (k *Kernel) InputLength() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return uint64(len(k.input))
}

func (k *Kernel) InputLoadU8(offset uint64) uint8 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if offset >= uint64(len(k.input)) {
		return 0
	}
	return k.input[offset]
}

// InputLoadU64 reads a word from the input region; reads that run past
// the end are zero-padded.
func (k *Kernel) InputLoadU64(offset uint64) uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if offset+8 <= uint64(len(k.input)) {
		return binary.LittleEndian.Uint64(k.input[offset:])
	}
	var word [8]byte
	for i := uint64(0); i < 8 && offset+i < uint64(len(k.input)); i++ {
		word[i] = k.input[offset+i]
	}
	return binary.LittleEndian.Uint64(word[:])
}

func (k *Kernel) Alloc(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	offset := k.next
	k.next += size + 8
	k.blocks[offset] = make([]byte, size)
	return offset
}

func (k *Kernel) Free(offset uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.blocks, offset)
}

func (k *Kernel) Length(offset uint64) uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return uint64(len(k.blocks[offset]))
}

// locate maps an absolute offset to its containing block. Callers hold
// the lock.
func (k *Kernel) locate(offset uint64) ([]byte, uint64, bool) {
	for base, data := range k.blocks {
		if offset >= base && offset < base+uint64(len(data)) {
			return data, offset - base, true
		}
	}
	return nil, 0, false
}

func (k *Kernel) LoadU8(offset uint64) uint8 {
	k.mu.Lock()
	defer k.mu.Unlock()
	data, i, ok := k.locate(offset)
	if !ok {
		return 0
	}
	return data[i]
}

func (k *Kernel) LoadU64(offset uint64) uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	data, i, ok := k.locate(offset)
	if !ok || i+8 > uint64(len(data)) {
		return 0
	}
	return binary.LittleEndian.Uint64(data[i:])
}

func (k *Kernel) StoreU8(offset uint64, v uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if data, i, ok := k.locate(offset); ok {
		data[i] = v
	}
}

func (k *Kernel) StoreU64(offset uint64, v uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if data, i, ok := k.locate(offset); ok && i+8 <= uint64(len(data)) {
		binary.LittleEndian.PutUint64(data[i:], v)
	}
}

func (k *Kernel) OutputSet(offset, length uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]byte, length)
	if data, i, ok := k.locate(offset); ok {
		copy(out, data[i:])
	}
	k.output = out
	k.hasOut = true
}

func (k *Kernel) ErrorSet(offset uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if offset == 0 {
		k.errMsg = ""
		k.hasErr = false
		return
	}
	k.errMsg = string(k.blocks[offset])
	k.hasErr = true
}

// readBlock copies a whole guest-owned block by its base offset.
// Callers hold the lock.
func (k *Kernel) readBlock(offset uint64) ([]byte, bool) {
	data, ok := k.blocks[offset]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// newBlock allocates a block holding data and returns its offset.
// Callers hold the lock.
func (k *Kernel) newBlock(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	offset := k.next
	k.next += uint64(len(data)) + 8
	k.blocks[offset] = append([]byte(nil), data...)
	return offset
}

func (k *Kernel) ConfigGet(keyOffset uint64) uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	key, ok := k.readBlock(keyOffset)
	if !ok {
		return 0
	}
	v, ok := k.opts.Config[string(key)]
	if !ok {
		return 0
	}
	return k.newBlock([]byte(v))
}

func (k *Kernel) VarGet(keyOffset uint64) uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	key, ok := k.readBlock(keyOffset)
	if !ok {
		return 0
	}
	v, ok := k.vars[string(key)]
	if !ok {
		return 0
	}
	return k.newBlock(v)
}

func (k *Kernel) VarSet(keyOffset, valueOffset uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	keyData, ok := k.readBlock(keyOffset)
	if !ok {
		return
	}
	key := string(keyData)

	if valueOffset == 0 {
		if old, ok := k.vars[key]; ok {
			k.varBytes -= uint64(len(old))
			delete(k.vars, key)
		}
		return
	}

	value, ok := k.readBlock(valueOffset)
	if !ok {
		return
	}
	old := uint64(len(k.vars[key]))
	if k.varBytes-old+uint64(len(value)) > k.opts.MaxVarBytes {
		k.logger.Warn("variable store limit reached, dropping write",
			zap.String("key", key),
			zap.Uint64("limit", k.opts.MaxVarBytes))
		return
	}
	k.varBytes = k.varBytes - old + uint64(len(value))
	k.vars[key] = value
}

func (k *Kernel) Log(level wasmpdk.LogLevel, offset uint64) {
	k.mu.Lock()
	msg, ok := k.readBlock(offset)
	k.mu.Unlock()
	if !ok || level < k.opts.LogLevel {
		return
	}
	switch level {
	case wasmpdk.LogTrace, wasmpdk.LogDebug:
		k.logger.Debug(string(msg))
	case wasmpdk.LogInfo:
		k.logger.Info(string(msg))
	case wasmpdk.LogWarn:
		k.logger.Warn(string(msg))
	default:
		k.logger.Error(string(msg))
	}
}

func (k *Kernel) LogLevel() wasmpdk.LogLevel {
	return k.opts.LogLevel
}

func (k *Kernel) HTTPRequest(requestOffset, bodyOffset uint64) uint64 {
	k.mu.Lock()
	meta, ok := k.readBlock(requestOffset)
	var body []byte
	if bodyOffset != 0 {
		body, _ = k.readBlock(bodyOffset)
	}
	k.mu.Unlock()

	k.mu.Lock()
	k.httpStatus = 0
	k.httpHeaders = nil
	k.mu.Unlock()
	if !ok {
		return 0
	}

	resp, err := k.performHTTP(meta, body)
	if err != nil {
		k.logger.Warn("plugin http request failed", zap.Error(err))
		return 0
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.httpStatus = resp.status
	k.httpHeaders = resp.headers
	return k.newBlock(resp.body)
}

type httpResult struct {
	status  int32
	headers map[string]string
	body    []byte
}

func (k *Kernel) performHTTP(meta, body []byte) (*httpResult, error) {
	strs, objs, err := kvobj.Decode(meta)
	if err != nil {
		return nil, err
	}
	target := strs["url"]
	method := strs["method"]
	if method == "" {
		method = "GET"
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseHost, "malformed request url")
	}
	if !k.hostAllowed(u.Hostname()) {
		return nil, errors.New(errors.PhaseHost, errors.KindDenied).
			Detail("host %q is not in the allowed list", u.Hostname()).
			Build()
	}

	var reqBody io.Reader
	if len(body) > 0 {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reqBody)
	if err != nil {
		return nil, errors.HostFailure("building http request", err)
	}
	for name, value := range objs["headers"] {
		req.Header.Set(name, value)
	}

	client := k.opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.HostFailure("performing http request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, int64(k.opts.MaxResponseBytes)+1))
	if err != nil {
		return nil, errors.HostFailure("reading http response", err)
	}
	if uint64(len(respBody)) > k.opts.MaxResponseBytes {
		return nil, errors.New(errors.PhaseHost, errors.KindLimit).
			Detail("response exceeds %d bytes", k.opts.MaxResponseBytes).
			Build()
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}
	return &httpResult{
		status:  int32(resp.StatusCode),
		headers: headers,
		body:    respBody,
	}, nil
}

func (k *Kernel) hostAllowed(hostname string) bool {
	for _, allowed := range k.opts.AllowedHosts {
		if allowed == "*" || allowed == hostname {
			return true
		}
	}
	return false
}

func (k *Kernel) HTTPStatusCode() int32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.httpStatus
}

func (k *Kernel) HTTPHeaders() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.httpHeaders == nil {
		return 0
	}
	return k.newBlock(kvobj.AppendMap(nil, k.httpHeaders))
}
