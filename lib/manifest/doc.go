// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest records the entries of an archive run in a CBOR
// file written next to the archive or extraction directory.
//
// A manifest lists each entry's name, size, coded length, alphabet
// size, and content digest. Encoding uses CBOR Core Deterministic
// Encoding (RFC 8949 §4.2), so the same run always produces the same
// bytes apart from the creation time. [Write] replaces the file
// atomically; [Verify] re-hashes extracted files and reports every
// entry that no longer matches.
package manifest
