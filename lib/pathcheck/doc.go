// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pathcheck validates filesystem paths before the archiver
// touches them and opens input files for the two sequential passes the
// compressor makes over each one.
//
// [ValidateInput] requires an existing non-directory. [ValidateOutput]
// requires only that the path is not a directory; it may not exist yet.
// [ValidateEntryName] checks that a name recovered from an archive is a
// plain basename that cannot escape the extraction directory.
package pathcheck
