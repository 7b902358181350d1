// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/archiver/lib/clock"
	"github.com/bureau-foundation/archiver/lib/config"
	"github.com/bureau-foundation/archiver/lib/manifest"
)

// runArchiver runs the command with a fake clock and an isolated
// configuration environment.
func runArchiver(t *testing.T, args ...string) (int, string) {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")
	var stderr bytes.Buffer
	code := run(args, &stderr, clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	return code, stderr.String()
}

func writeInput(t *testing.T, directory, name, content string) string {
	t.Helper()
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCompressDecompress(t *testing.T) {
	inputs := t.TempDir()
	a := writeInput(t, inputs, "a.txt", "aaab")
	b := writeInput(t, inputs, "b.txt", "bbbb")
	archivePath := filepath.Join(t.TempDir(), "archive.bin")

	if code, stderr := runArchiver(t, "-c", archivePath, a, b); code != 0 {
		t.Fatalf("compress exit code %d, stderr:\n%s", code, stderr)
	}

	extracted := t.TempDir()
	if code, stderr := runArchiver(t, "--output-dir", extracted, "-d", archivePath); code != 0 {
		t.Fatalf("decompress exit code %d, stderr:\n%s", code, stderr)
	}
	for name, want := range map[string]string{"a.txt": "aaab", "b.txt": "bbbb"} {
		got, err := os.ReadFile(filepath.Join(extracted, name))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestDecompressIntoWorkingDirectory(t *testing.T) {
	input := writeInput(t, t.TempDir(), "here.txt", "content")
	archivePath := filepath.Join(t.TempDir(), "archive.bin")
	if code, stderr := runArchiver(t, "-c", archivePath, input); code != 0 {
		t.Fatalf("compress exit code %d, stderr:\n%s", code, stderr)
	}

	extracted := t.TempDir()
	t.Chdir(extracted)
	if code, stderr := runArchiver(t, "-d", archivePath); code != 0 {
		t.Fatalf("decompress exit code %d, stderr:\n%s", code, stderr)
	}
	if got, err := os.ReadFile(filepath.Join(extracted, "here.txt")); err != nil || string(got) != "content" {
		t.Errorf("here.txt = %q, %v; want content", got, err)
	}
}

func TestHelp(t *testing.T) {
	code, stderr := runArchiver(t, "-h")
	if code != 0 {
		t.Errorf("exit code %d, want 0", code)
	}
	if !strings.Contains(stderr, "Usage:") || strings.Contains(stderr, "ERROR") {
		t.Errorf("help output:\n%s", stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	directory := t.TempDir()
	input := writeInput(t, directory, "input.txt", "data")
	archivePath := filepath.Join(directory, "archive.bin")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"no options", nil, "at least one option"},
		{"only positionals", []string{archivePath}, "at least one option"},
		{"two modes", []string{"-c", "-d", archivePath}, "too many options"},
		{"help with another mode", []string{"-h", "-c"}, "too many options"},
		{"unknown option", []string{"-x"}, "unknown shorthand flag"},
		{"repeated option", []string{"-c", "-c", archivePath, input}, "specified multiple times"},
		{"option after positional", []string{"-c", archivePath, input, "-d"}, "after positional argument"},
		{"compress without inputs", []string{"-c", archivePath}, "at least one input file"},
		{"compress into directory", []string{"-c", directory, input}, "archive destination is not valid"},
		{"compress missing input", []string{"-c", archivePath, filepath.Join(directory, "missing")}, "input file is not valid"},
		{"compress directory input", []string{"-c", archivePath, directory}, "input file is not valid"},
		{"decompress without archive", []string{"-d"}, "specify archive name"},
		{"decompress extra argument", []string{"-d", archivePath, input}, "too many positional arguments"},
		{"decompress missing archive", []string{"-d", filepath.Join(directory, "missing")}, "invalid archive path"},
		{"decompress directory", []string{"-d", directory}, "invalid archive path"},
		{"bad log level", []string{"--log-level", "loud", "-d", archivePath}, "log.level"},
		{"verify with compress", []string{"--verify", archivePath, "-c", archivePath, input}, "only be used with -d"},
		{"verify empty path", []string{"--verify=", "-d", input}, "needs a manifest path"},
		{"verify missing manifest", []string{"--verify", filepath.Join(directory, "missing.cbor"), "-d", input}, "invalid manifest path"},
		{"verify unreadable manifest", []string{"--verify", input, "-d", input}, "reading manifest to verify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stderr := runArchiver(t, tt.args...)
			if code != 111 {
				t.Errorf("exit code %d, want 111", code)
			}
			if !strings.HasPrefix(stderr, "ERROR: ") {
				t.Errorf("stderr does not start with ERROR: %q", stderr)
			}
			if !strings.Contains(stderr, tt.message) {
				t.Errorf("stderr does not contain %q:\n%s", tt.message, stderr)
			}
			if !strings.Contains(stderr, "Usage:") {
				t.Errorf("usage not printed for a usage error:\n%s", stderr)
			}
		})
	}
	if _, err := os.Stat(archivePath); err == nil {
		t.Error("a failed invocation created the archive")
	}
}

func TestCorruptArchive(t *testing.T) {
	directory := t.TempDir()
	archivePath := writeInput(t, directory, "corrupt.bin", "\xff\xff\xff")

	code, stderr := runArchiver(t, "--output-dir", t.TempDir(), "-d", archivePath)
	if code != 111 {
		t.Errorf("exit code %d, want 111", code)
	}
	if !strings.Contains(stderr, "ERROR: invalid archive format") {
		t.Errorf("stderr:\n%s", stderr)
	}
	if strings.Contains(stderr, "Usage:") {
		t.Errorf("usage printed for a format error:\n%s", stderr)
	}
}

func TestManifest(t *testing.T) {
	inputs := t.TempDir()
	input := writeInput(t, inputs, "data.txt", "manifest me")
	work := t.TempDir()
	archivePath := filepath.Join(work, "archive.bin")
	compressManifest := filepath.Join(work, "compress.cbor")
	extractManifest := filepath.Join(work, "extract.cbor")
	extracted := filepath.Join(work, "out")

	if code, stderr := runArchiver(t, "--manifest", compressManifest, "-c", archivePath, input); code != 0 {
		t.Fatalf("compress exit code %d, stderr:\n%s", code, stderr)
	}
	if code, stderr := runArchiver(t, "--manifest", extractManifest, "--output-dir", extracted, "-d", archivePath); code != 0 {
		t.Fatalf("decompress exit code %d, stderr:\n%s", code, stderr)
	}

	written, err := manifest.Read(compressManifest)
	if err != nil {
		t.Fatalf("Read(compress manifest): %v", err)
	}
	read, err := manifest.Read(extractManifest)
	if err != nil {
		t.Fatalf("Read(extract manifest): %v", err)
	}
	if written.Operation != manifest.OperationCompress || read.Operation != manifest.OperationExtract {
		t.Errorf("operations = %s, %s", written.Operation, read.Operation)
	}
	if len(written.Entries) != 1 || len(read.Entries) != 1 || written.Entries[0] != read.Entries[0] {
		t.Fatalf("entries differ: %+v vs %+v", written.Entries, read.Entries)
	}
	if err := manifest.Verify(read, extracted); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	work := t.TempDir()
	extracted := filepath.Join(work, "configured")
	configPath := writeInput(t, work, "archiver.yaml", "extract:\n  directory: "+extracted+"\nlog:\n  level: debug\n  format: json\n")
	input := writeInput(t, t.TempDir(), "x.txt", "xyz")
	archivePath := filepath.Join(work, "archive.bin")

	if code, stderr := runArchiver(t, "-c", archivePath, input); code != 0 {
		t.Fatalf("compress exit code %d, stderr:\n%s", code, stderr)
	}
	code, stderr := runArchiver(t, "--config", configPath, "-d", archivePath)
	if code != 0 {
		t.Fatalf("decompress exit code %d, stderr:\n%s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(extracted, "x.txt")); err != nil {
		t.Errorf("file not extracted into configured directory: %v", err)
	}
	if !strings.Contains(stderr, `"msg":"header read"`) {
		t.Errorf("debug JSON logs missing:\n%s", stderr)
	}
	if !strings.Contains(stderr, `"elapsed":0`) {
		t.Errorf("fake clock elapsed time missing:\n%s", stderr)
	}
}

func TestVerify(t *testing.T) {
	inputs := t.TempDir()
	input := writeInput(t, inputs, "x.txt", "one")
	work := t.TempDir()
	recorded := filepath.Join(work, "recorded.cbor")
	original := filepath.Join(work, "original.bin")

	if code, stderr := runArchiver(t, "--manifest", recorded, "-c", original, input); code != 0 {
		t.Fatalf("compress exit code %d, stderr:\n%s", code, stderr)
	}

	t.Run("matching", func(t *testing.T) {
		code, stderr := runArchiver(t, "--verify", recorded, "--output-dir", t.TempDir(), "-d", original)
		if code != 0 {
			t.Fatalf("exit code %d, stderr:\n%s", code, stderr)
		}
	})

	t.Run("different content", func(t *testing.T) {
		writeInput(t, inputs, "x.txt", "two")
		changed := filepath.Join(work, "changed.bin")
		if code, stderr := runArchiver(t, "-c", changed, input); code != 0 {
			t.Fatalf("compress exit code %d, stderr:\n%s", code, stderr)
		}

		extracted := t.TempDir()
		code, stderr := runArchiver(t, "--verify", recorded, "--output-dir", extracted, "-d", changed)
		if code != 111 {
			t.Errorf("exit code %d, want 111", code)
		}
		if !strings.Contains(stderr, "file does not match entry") || !strings.Contains(stderr, "x.txt") {
			t.Errorf("stderr does not report the mismatch:\n%s", stderr)
		}
		if strings.Contains(stderr, "Usage:") {
			t.Errorf("usage printed for a verification failure:\n%s", stderr)
		}
		if got, err := os.ReadFile(filepath.Join(extracted, "x.txt")); err != nil || string(got) != "two" {
			t.Errorf("extracted x.txt = %q, %v; want two", got, err)
		}
	})
}
