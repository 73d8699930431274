// Package channel implements the line-oriented JSON-RPC exchange with
// the kernel: request framing, response correlation by id, and the
// read-loop-with-discard that tolerates interleaved unrelated lines.
package channel
