package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	wasmpdk "github.com/wippyai/wasm-pdk"
)

// Instantiate registers the kernel's functions with r under the plugin
// import namespace. Every export carries the kebab-case wire name the
// guest's import declarations use.
func (k *Kernel) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	b := r.NewHostModuleBuilder(wasmpdk.HostModule)

	export := func(name string, fn any) {
		b = b.NewFunctionBuilder().WithFunc(fn).Export(name)
	}

	export("input-length", func(context.Context) uint64 {
		return k.InputLength()
	})
	export("input-load-u8", func(_ context.Context, offset uint64) uint32 {
		return uint32(k.InputLoadU8(offset))
	})
	export("input-load-u64", func(_ context.Context, offset uint64) uint64 {
		return k.InputLoadU64(offset)
	})
	export("alloc", func(_ context.Context, size uint64) uint64 {
		return k.Alloc(size)
	})
	export("free", func(_ context.Context, offset uint64) {
		k.Free(offset)
	})
	export("length", func(_ context.Context, offset uint64) uint64 {
		return k.Length(offset)
	})
	export("load-u8", func(_ context.Context, offset uint64) uint32 {
		return uint32(k.LoadU8(offset))
	})
	export("load-u64", func(_ context.Context, offset uint64) uint64 {
		return k.LoadU64(offset)
	})
	export("store-u8", func(_ context.Context, offset uint64, v uint32) {
		k.StoreU8(offset, uint8(v))
	})
	export("store-u64", func(_ context.Context, offset, v uint64) {
		k.StoreU64(offset, v)
	})
	export("output-set", func(_ context.Context, offset, length uint64) {
		k.OutputSet(offset, length)
	})
	export("error-set", func(_ context.Context, offset uint64) {
		k.ErrorSet(offset)
	})
	export("config-get", func(_ context.Context, keyOffset uint64) uint64 {
		return k.ConfigGet(keyOffset)
	})
	export("var-get", func(_ context.Context, keyOffset uint64) uint64 {
		return k.VarGet(keyOffset)
	})
	export("var-set", func(_ context.Context, keyOffset, valueOffset uint64) {
		k.VarSet(keyOffset, valueOffset)
	})
	export("get-log-level", func(context.Context) uint32 {
		return uint32(k.LogLevel())
	})

	levels := map[string]wasmpdk.LogLevel{
		"log-trace": wasmpdk.LogTrace,
		"log-debug": wasmpdk.LogDebug,
		"log-info":  wasmpdk.LogInfo,
		"log-warn":  wasmpdk.LogWarn,
		"log-error": wasmpdk.LogError,
	}
	for name, level := range levels {
		level := level
		export(name, func(_ context.Context, offset uint64) {
			k.Log(level, offset)
		})
	}

	export("http-request", func(_ context.Context, requestOffset, bodyOffset uint64) uint64 {
		return k.HTTPRequest(requestOffset, bodyOffset)
	})
	export("http-status-code", func(context.Context) uint32 {
		return uint32(k.HTTPStatusCode())
	})
	export("http-headers", func(context.Context) uint64 {
		return k.HTTPHeaders()
	})

	return b.Instantiate(ctx)
}
