// Package bindgen discovers //pdk:export declarations, validates their
// structure, and synthesizes the wasm entry-point wrappers that bridge
// the host ABI to plain Go functions.
//
// The pipeline has three stages. Discover type-checks a package and
// builds one descriptor per directive. Validate drops descriptors that
// break a structural rule and reports one diagnostic per violation;
// a rejected export never produces a partial wrapper, and other exports
// still generate. Synthesize emits one uniform wrapper per surviving
// descriptor: decode input, invoke, encode output, status 0 or 1.
package bindgen
