// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/archiver/lib/archive"
	"github.com/bureau-foundation/archiver/lib/binhash"
)

// Version is the manifest format version written by this package.
const Version = 1

// Operation names the run that produced a manifest.
type Operation string

const (
	OperationCompress Operation = "compress"
	OperationExtract  Operation = "extract"
)

// ErrMismatch is returned by Verify when an extracted file differs
// from its manifest entry.
var ErrMismatch = errors.New("manifest: file does not match entry")

// Manifest describes one compress or extract run.
type Manifest struct {
	Version   int       `cbor:"version"`
	Operation Operation `cbor:"operation"`

	// Archive is the archive path as given on the command line.
	Archive string `cbor:"archive"`

	// Created is the Unix time in seconds when the run finished.
	Created int64 `cbor:"created"`

	Entries []Entry `cbor:"entries"`
}

// Entry mirrors archive.Entry with stable field names.
type Entry struct {
	Name     string         `cbor:"name"`
	Size     int64          `cbor:"size"`
	Bits     uint64         `cbor:"bits"`
	Alphabet int            `cbor:"alphabet"`
	Digest   binhash.Digest `cbor:"digest"`
}

// New builds a manifest from archive entries.
func New(operation Operation, archivePath string, created time.Time, entries []archive.Entry) *Manifest {
	manifest := &Manifest{
		Version:   Version,
		Operation: operation,
		Archive:   archivePath,
		Created:   created.Unix(),
		Entries:   make([]Entry, len(entries)),
	}
	for i, entry := range entries {
		manifest.Entries[i] = Entry{
			Name:     entry.Name,
			Size:     entry.Size,
			Bits:     entry.Bits,
			Alphabet: entry.Alphabet,
			Digest:   entry.Digest,
		}
	}
	return manifest
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("manifest: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("manifest: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes m with Core Deterministic Encoding.
func Marshal(m *Manifest) ([]byte, error) {
	return encMode.Marshal(m)
}

// Unmarshal decodes a manifest and checks its version.
func Unmarshal(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := decMode.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if manifest.Version != Version {
		return nil, fmt.Errorf("manifest version %d, want %d", manifest.Version, Version)
	}
	return &manifest, nil
}

// Write atomically replaces the file at path with the encoded
// manifest: it writes a temporary file in the same directory, syncs
// it, and renames it into place.
func Write(path string, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temporary manifest: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary manifest: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary manifest: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary manifest: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming manifest into place: %w", err)
	}
	return nil
}

// Read reads and decodes the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	manifest, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return manifest, nil
}

// Verify hashes every entry's file in directory and returns an error
// joining one ErrMismatch per differing entry. A missing file is
// reported the same way.
func Verify(m *Manifest, directory string) error {
	var problems []error
	for _, entry := range m.Entries {
		path := filepath.Join(directory, entry.Name)
		info, err := os.Stat(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: %s: %v", ErrMismatch, entry.Name, err))
			continue
		}
		if info.Size() != entry.Size {
			problems = append(problems, fmt.Errorf("%w: %s is %d bytes, want %d",
				ErrMismatch, entry.Name, info.Size(), entry.Size))
			continue
		}
		digest, err := binhash.HashFile(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: %s: %v", ErrMismatch, entry.Name, err))
			continue
		}
		if digest != entry.Digest {
			problems = append(problems, fmt.Errorf("%w: %s has digest %s, want %s",
				ErrMismatch, entry.Name, binhash.FormatDigest(digest), binhash.FormatDigest(entry.Digest)))
		}
	}
	return errors.Join(problems...)
}
