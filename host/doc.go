// Package host is the development harness: an in-process implementation
// of the plugin host environment, its wazero registration, and a plugin
// loader for running compiled guests.
//
// Kernel keeps blocks in ordinary Go memory, so guest-facing packages
// can be exercised natively by installing a Kernel as the active host
// environment. The same Kernel instance registers with a wazero runtime
// to serve real wasm plugins.
package host
