// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bitstream reads and writes bit-granular streams over byte
// sources and sinks. Bits are ordered most significant first within each
// byte, and multi-bit values are read and written most significant bit
// first.
//
// Both directions buffer [BufferSize] bytes at a time. A [Writer] must
// be closed: Close pads the final partial byte with zero bits and
// flushes it, and omitting it silently drops the tail of the stream.
package bitstream
