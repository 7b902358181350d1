// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package pathcheck

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential sets POSIX_FADV_SEQUENTIAL on the whole file. The
// hint only affects readahead, so a failure is ignored.
func adviseSequential(file *os.File) {
	_ = unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
