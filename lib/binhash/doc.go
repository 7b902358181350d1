// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes content digests for archive entries.
//
// Digests are BLAKE3 keyed hashes under the fixed "archiver.entry"
// domain key, so an entry digest never collides with an unkeyed
// BLAKE3 hash of the same bytes. The compressor feeds each file's bytes
// through a [Hasher] during its counting pass and the decompressor does
// the same while writing extracted bytes; the manifest records and
// compares the resulting [Digest] values.
//
// [FormatDigest] renders a digest in the 64-character lowercase hex
// form used in logs and mismatch reports. [HashFile] recomputes the
// digest of an extracted file for manifest verification.
package binhash
