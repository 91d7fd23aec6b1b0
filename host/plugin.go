package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/wippyai/wasm-pdk/errors"
)

// Plugin is a loaded wasm module wired to a Kernel. Calls are
// serialized: the kernel's input, output, and error channels hold one
// call's state at a time.
type Plugin struct {
	kernel  *Kernel
	runtime wazero.Runtime
	module  api.Module
}

// LoadPlugin compiles and instantiates a wasm binary against a fresh
// kernel built from opts. The module's `_initialize` export, when
// present, runs once before the plugin is returned.
func LoadPlugin(ctx context.Context, wasmBytes []byte, opts Options) (*Plugin, error) {
	kernel := NewKernel(opts)
	r := wazero.NewRuntime(ctx)

	ok := false
	defer func() {
		if !ok {
			_ = r.Close(ctx)
		}
	}()

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return nil, errors.HostFailure("instantiate wasi", err)
	}
	if _, err := kernel.Instantiate(ctx, r); err != nil {
		return nil, errors.HostFailure("instantiate host module", err)
	}

	cfg := wazero.NewModuleConfig().WithName("plugin").WithStartFunctions()
	module, err := r.InstantiateWithConfig(ctx, wasmBytes, cfg)
	if err != nil {
		return nil, errors.HostFailure("instantiate plugin", err)
	}

	if initFn := module.ExportedFunction("_initialize"); initFn != nil {
		if _, err := initFn.Call(ctx); err != nil {
			return nil, errors.HostFailure("run plugin initializer", err)
		}
	}

	ok = true
	return &Plugin{kernel: kernel, runtime: r, module: module}, nil
}

// Kernel exposes the plugin's kernel for configuration inspection and
// test assertions.
func (p *Plugin) Kernel() *Kernel {
	return p.kernel
}

// Call invokes the named export with input and returns its output. An
// export signalling failure (status 1) surfaces its error-channel
// message; a nonzero status with an empty channel is still an error.
func (p *Plugin) Call(ctx context.Context, name string, input []byte) ([]byte, error) {
	fn := p.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseInvoke, fmt.Sprintf("export %q", name))
	}

	p.kernel.SetInput(input)
	results, err := fn.Call(ctx)
	if err != nil {
		return nil, errors.HostFailure("invoke "+name, err)
	}
	if len(results) != 1 {
		return nil, errors.New(errors.PhaseInvoke, errors.KindWireFormat).
			Export(name).
			Detail("export returned %d values, want 1 status", len(results)).
			Build()
	}

	if status := uint32(results[0]); status != 0 {
		msg, ok := p.kernel.ErrorMessage()
		if !ok || msg == "" {
			msg = "unknown error"
		}
		return nil, errors.New(errors.PhaseInvoke, errors.KindHostFailure).
			Export(name).
			Detail("%s", msg).
			Build()
	}

	out, _ := p.kernel.TakeOutput()
	return out, nil
}

// Close releases the wasm runtime.
func (p *Plugin) Close(ctx context.Context) error {
	return p.runtime.Close(ctx)
}
