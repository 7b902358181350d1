// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"github.com/bureau-foundation/archiver/lib/alphabet"
	"github.com/bureau-foundation/archiver/lib/binhash"
	"github.com/bureau-foundation/archiver/lib/bitstream"
	"github.com/bureau-foundation/archiver/lib/huffman"
	"github.com/bureau-foundation/archiver/lib/pathcheck"
	"github.com/bureau-foundation/archiver/lib/trie"
)

// Decompressor reads file records from an archive stream and extracts
// them through an Output.
type Decompressor struct {
	bits     *bitstream.Reader
	output   Output
	logger   *slog.Logger
	finished bool
}

// NewDecompressor returns a Decompressor reading from source. A nil
// logger discards output.
func NewDecompressor(source io.Reader, output Output, logger *slog.Logger) *Decompressor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Decompressor{
		bits:   bitstream.NewReader(source),
		output: output,
		logger: logger,
	}
}

// DecompressEntry extracts the next record. The returned bool reports
// whether another record follows.
func (d *Decompressor) DecompressEntry() (Entry, bool, error) {
	if d.finished {
		return Entry{}, false, ErrFinished
	}
	start := d.bits.BitsRead()

	lengths, err := readHeader(d.bits)
	if err != nil {
		return Entry{}, false, err
	}
	root, err := buildTrie(lengths)
	if err != nil {
		return Entry{}, false, err
	}
	d.logger.Debug("header read", "alphabet", len(lengths), "offset", start)

	decoder := recordDecoder{bits: d.bits, root: root}
	name, err := decoder.readName()
	if err != nil {
		return Entry{}, false, err
	}
	if err := pathcheck.ValidateEntryName(name); err != nil {
		return Entry{}, false, invalidFormat("stored name: %v", err)
	}
	logger := d.logger.With("entry", name)

	destination, err := d.output.Create(name)
	if err != nil {
		return Entry{}, false, fmt.Errorf("%w: %s: %w", ErrOutput, name, err)
	}
	size, digest, more, err := decoder.readContent(destination)
	if closeErr := destination.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: closing %s: %w", ErrOutput, name, closeErr)
	}
	if err != nil {
		return Entry{}, false, err
	}

	d.finished = !more
	entry := Entry{
		Name:     name,
		Size:     size,
		Bits:     d.bits.BitsRead() - start,
		Alphabet: len(lengths),
		Digest:   digest,
	}
	logger.Info("entry extracted",
		"size", entry.Size,
		"bits", entry.Bits,
		"alphabet", entry.Alphabet,
	)
	return entry, more, nil
}

// buildTrie assigns canonical codes to lengths and inserts them into a
// fresh trie. An oversubscribed or overlapping table is
// ErrInvalidFormat.
func buildTrie(lengths []huffman.CodeLength) (*trie.Node, error) {
	if kraft := huffman.Kraft(lengths); kraft.Cmp(big.NewRat(1, 1)) > 0 {
		return nil, invalidFormat("code lengths are oversubscribed (Kraft sum %s)", kraft.RatString())
	}
	table := huffman.AssignCanonicalCodes(lengths)
	root := trie.New()
	for _, entry := range lengths {
		code := table[entry.Symbol]
		if err := root.AddCode(code.Bits, code.Length, entry.Symbol, trie.CodeWeight); err != nil {
			return nil, invalidFormat("%v", err)
		}
	}
	return root, nil
}

// recordDecoder reads symbols with one record's code trie.
type recordDecoder struct {
	bits *bitstream.Reader
	root *trie.Node
}

// next walks the trie from the root one bit at a time until it reaches
// a terminal.
func (r recordDecoder) next() (alphabet.Symbol, error) {
	node := r.root
	for !node.IsTerminal() {
		bit, err := r.bits.ReadBit()
		if errors.Is(err, bitstream.ErrEndOfStream) {
			return 0, invalidFormat("stream ends inside a symbol")
		}
		if err != nil {
			return 0, fmt.Errorf("reading symbol: %w", err)
		}
		child := node.Child(bit)
		if child == nil {
			return 0, invalidFormat("bit sequence matches no code")
		}
		node = child
	}
	return node.Symbol(), nil
}

func (r recordDecoder) readName() (string, error) {
	name := make([]byte, 0, 64)
	for {
		symbol, err := r.next()
		if err != nil {
			return "", err
		}
		switch {
		case symbol == alphabet.FilenameEnd:
			return string(name), nil
		case symbol.IsControl():
			return "", invalidFormat("%s inside stored name", symbol)
		case len(name) == MaxNameLength:
			return "", invalidFormat("stored name exceeds %d bytes", MaxNameLength)
		}
		name = append(name, byte(symbol))
	}
}

// readContent writes literal bytes to destination until ONE_MORE_FILE
// or END_OF_ARCHIVE and reports which one ended the record.
func (r recordDecoder) readContent(destination io.Writer) (int64, binhash.Digest, bool, error) {
	hasher := binhash.NewHasher()
	buffered := bufio.NewWriterSize(io.MultiWriter(destination, hasher), bitstream.BufferSize)
	var size int64
	for {
		symbol, err := r.next()
		if err != nil {
			return size, binhash.Digest{}, false, err
		}
		switch symbol {
		case alphabet.FilenameEnd:
			return size, binhash.Digest{}, false, invalidFormat("%s inside content", symbol)
		case alphabet.OneMoreFile, alphabet.EndOfArchive:
			if err := buffered.Flush(); err != nil {
				return size, binhash.Digest{}, false, fmt.Errorf("%w: %w", ErrOutput, err)
			}
			return size, hasher.Sum(), symbol == alphabet.OneMoreFile, nil
		}
		if err := buffered.WriteByte(byte(symbol)); err != nil {
			return size, binhash.Digest{}, false, fmt.Errorf("%w: %w", ErrOutput, err)
		}
		size++
	}
}

// Decompress extracts every record from source through output.
func Decompress(source io.Reader, output Output, logger *slog.Logger) ([]Entry, error) {
	decompressor := NewDecompressor(source, output, logger)
	var entries []Entry
	for {
		entry, more, err := decompressor.DecompressEntry()
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
		if !more {
			return entries, nil
		}
	}
}

// DecompressFile validates archivePath and extracts it through output.
func DecompressFile(archivePath string, output Output, logger *slog.Logger) ([]Entry, error) {
	if err := pathcheck.ValidateInput(archivePath); err != nil {
		return nil, err
	}
	file, err := pathcheck.OpenSequential(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer file.Close()
	return Decompress(file, output, logger)
}
