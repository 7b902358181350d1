// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Code that reports timestamps or durations accepts a [Clock] instead
// of calling time.Now directly. Production code passes [Real]; tests
// pass [Fake] and move time forward explicitly with Advance, so
// durations and timestamps in output are exact.
package clock
