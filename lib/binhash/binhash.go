// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte keyed BLAKE3 digest of an entry's content.
type Digest [32]byte

// String returns the hex form of the digest.
func (d Digest) String() string {
	return FormatDigest(d)
}

// entryDomainKey is the ASCII name of the domain, zero-padded to 32
// bytes. Changing it invalidates every recorded digest.
var entryDomainKey = [32]byte{
	'a', 'r', 'c', 'h', 'i', 'v', 'e', 'r', '.', 'e', 'n', 't', 'r', 'y',
}

// Hasher accumulates an entry digest. It implements io.Writer and
// never returns an error from Write.
type Hasher struct {
	state *blake3.Hasher
}

// NewHasher returns a Hasher keyed with the entry domain.
func NewHasher() *Hasher {
	state, err := blake3.NewKeyed(entryDomainKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic(fmt.Sprintf("binhash: keyed hasher: %v", err))
	}
	return &Hasher{state: state}
}

// Write adds data to the running digest.
func (h *Hasher) Write(data []byte) (int, error) {
	return h.state.Write(data)
}

// Sum returns the digest of everything written so far.
func (h *Hasher) Sum() Digest {
	var digest Digest
	h.state.Sum(digest[:0])
	return digest
}

// HashReader streams reader through a Hasher.
func HashReader(reader io.Reader) (Digest, error) {
	hasher := NewHasher()
	if _, err := io.Copy(hasher, reader); err != nil {
		return Digest{}, err
	}
	return hasher.Sum(), nil
}

// HashFile computes the entry digest of the file at path.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, err := HashReader(file)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, nil
}

// FormatDigest returns the lowercase hex encoding of digest.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}
