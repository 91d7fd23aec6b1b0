// Package wasmpdk provides a Go plugin development kit for hosts that expose
// the flat block-memory ABI: a guest function exchanges data with its host
// through (offset, length) regions of host linear memory and a small fixed
// set of host imports.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasm-pdk/            Root package with the HostEnv import surface
//	├── mem/             Block handles over host alloc/free/load/store
//	├── abi/             Type categories and little-endian value encoding
//	├── pdk/             Guest-side call surface (input, output, error,
//	│                    config, variables, logging, HTTP)
//	├── kvobj/           Minimal key/value text object wire codec
//	├── flatrec/         FlatBuffers-backed self-describing records
//	├── bindgen/         Export discovery, validation and wrapper synthesis
//	├── host/            In-process host kernel and wazero dev harness
//	├── errors/          Structured error types for debugging
//	└── cmd/pdkgen/      Code generation CLI
//
// # Exporting Functions
//
// Annotate a function with a pdk:export directive and run pdkgen:
//
//	//pdk:export count_vowels
//	func CountVowels(input string) (uint64, error) {
//	    ...
//	}
//
// pdkgen validates the declaration and emits a wasm entry point named
// count-vowels that decodes the call input, invokes CountVowels, encodes
// the result, and reports success (0) or failure (1) to the host. Failures,
// including panics, are published on the host error channel.
//
// # Memory Model
//
// Every value crosses the boundary through a host-allocated block. Blocks
// obtained from mem.Alloc are owned by the guest and must be freed exactly
// once; blocks handed to OutputSet or ErrorSet transfer to the host; the
// call input region is host-owned and read-only. Block reads and writes
// copy eight bytes per host call with a byte-wise tail, which halves the
// host-call count on the hot path.
//
// # Concurrency
//
// The host contract guarantees a single call in flight per instance, so the
// guest surface keeps no locks. Hosts that reenter must serialize calls.
package wasmpdk
