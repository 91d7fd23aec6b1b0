// Package pdk is the high-level guest API: call input and output, the
// error channel, host configuration, persistent variables, leveled
// logging, and host-mediated HTTP.
//
// Generated entry-point wrappers use Guard to translate any failure,
// including panics, into the uniform status convention: every export
// returns 0 on success and 1 on failure, with the failure message
// published on the error channel.
package pdk
