// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Archiver compresses files into a Huffman archive and extracts them
// again.
//
//	archiver -c archive.bin file1 [file2 ...]
//	archiver -d archive.bin
//	archiver -h
//
// Exactly one of -c, -d and -h must be given, before any positional
// argument. Every failure prints "ERROR: <message>" to stderr and
// exits with status 111; argument errors also print the usage.
//
// Extraction writes into the working directory unless --output-dir
// or extract.directory in the configuration file names another.
// --manifest writes a CBOR manifest of the entries processed. The
// configuration file is named by --config or ARCHIVER_CONFIG.
package main
