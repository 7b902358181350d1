// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/archiver/lib/alphabet"
	"github.com/bureau-foundation/archiver/lib/binhash"
	"github.com/bureau-foundation/archiver/lib/bitstream"
	"github.com/bureau-foundation/archiver/lib/huffman"
	"github.com/bureau-foundation/archiver/lib/pathcheck"
)

// Compressor writes file records to an archive stream. Records are
// written in call order; the call with last set writes END_OF_ARCHIVE
// and no further records are accepted.
type Compressor struct {
	bits     *bitstream.Writer
	logger   *slog.Logger
	records  int
	finished bool
}

// NewCompressor returns a Compressor writing to destination. A nil
// logger discards output. Close must be called to flush the final
// partial byte; it does not close destination.
func NewCompressor(destination io.Writer, logger *slog.Logger) *Compressor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compressor{
		bits:   bitstream.NewWriter(destination),
		logger: logger,
	}
}

// CompressFile compresses the file at path under its basename.
func (c *Compressor) CompressFile(path string, last bool) (Entry, error) {
	file, err := pathcheck.OpenSequential(path)
	if err != nil {
		return Entry{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	entry, err := c.CompressReader(filepath.Base(path), file, last)
	if err != nil {
		return entry, fmt.Errorf("compressing %s: %w", path, err)
	}
	return entry, nil
}

// CompressReader writes one record for content stored as name. The
// content is read twice: once to count byte frequencies and once to
// code it, rewinding with Seek in between.
func (c *Compressor) CompressReader(name string, content io.ReadSeeker, last bool) (Entry, error) {
	if c.finished {
		return Entry{}, ErrFinished
	}
	if err := pathcheck.ValidateEntryName(name); err != nil {
		return Entry{}, fmt.Errorf("archive: %w", err)
	}
	if len(name) > MaxNameLength {
		return Entry{}, fmt.Errorf("archive: name %q is %d bytes, limit is %d", name, len(name), MaxNameLength)
	}
	logger := c.logger.With("entry", name)

	frequencies := huffman.NewFrequencies()
	frequencies.AddBytes([]byte(name))
	hasher := binhash.NewHasher()
	size, err := countContent(content, frequencies, hasher)
	if err != nil {
		return Entry{}, fmt.Errorf("archive: counting %s: %w", name, err)
	}

	lengths, err := huffman.DeriveCodeLengths(frequencies)
	if err != nil {
		return Entry{}, fmt.Errorf("archive: coding %s: %w", name, err)
	}
	table := huffman.AssignCanonicalCodes(lengths)
	logger.Debug("code table built",
		"alphabet", len(lengths),
		"longest", lengths[len(lengths)-1].Length,
	)

	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return Entry{}, fmt.Errorf("archive: rewinding %s: %w", name, err)
	}

	start := c.bits.BitsWritten()
	if err := writeHeader(c.bits, lengths); err != nil {
		return Entry{}, fmt.Errorf("archive: writing header for %s: %w", name, err)
	}
	encoder := recordEncoder{bits: c.bits, table: table}
	for i := 0; i < len(name); i++ {
		if err := encoder.write(alphabet.Symbol(name[i])); err != nil {
			return Entry{}, err
		}
	}
	if err := encoder.write(alphabet.FilenameEnd); err != nil {
		return Entry{}, err
	}
	coded, err := encoder.copyFrom(content)
	if err != nil {
		return Entry{}, fmt.Errorf("archive: coding %s: %w", name, err)
	}
	if coded != size {
		return Entry{}, fmt.Errorf("archive: %s changed while compressing: counted %d bytes, coded %d", name, size, coded)
	}
	terminator := alphabet.OneMoreFile
	if last {
		terminator = alphabet.EndOfArchive
	}
	if err := encoder.write(terminator); err != nil {
		return Entry{}, err
	}

	c.records++
	c.finished = last
	entry := Entry{
		Name:     name,
		Size:     size,
		Bits:     c.bits.BitsWritten() - start,
		Alphabet: len(lengths),
		Digest:   hasher.Sum(),
	}
	logger.Info("entry compressed",
		"size", entry.Size,
		"bits", entry.Bits,
		"alphabet", entry.Alphabet,
	)
	return entry, nil
}

// Close pads and flushes the final byte. Closing before the last
// record was written leaves an archive without END_OF_ARCHIVE, which
// is reported as an error after flushing.
func (c *Compressor) Close() error {
	if err := c.bits.Close(); err != nil {
		return fmt.Errorf("archive: flushing: %w", err)
	}
	if !c.finished {
		return fmt.Errorf("archive: closed after %d records without a last record", c.records)
	}
	return nil
}

func countContent(content io.Reader, frequencies *huffman.Frequencies, hasher *binhash.Hasher) (int64, error) {
	buffer := make([]byte, bitstream.BufferSize)
	var size int64
	for {
		n, err := content.Read(buffer)
		frequencies.AddBytes(buffer[:n])
		hasher.Write(buffer[:n])
		size += int64(n)
		if err == io.EOF {
			return size, nil
		}
		if err != nil {
			return size, err
		}
	}
}

// recordEncoder writes symbols with one record's code table.
type recordEncoder struct {
	bits  *bitstream.Writer
	table *huffman.CodeTable
}

func (e recordEncoder) write(symbol alphabet.Symbol) error {
	code, ok := e.table.Lookup(symbol)
	if !ok {
		return fmt.Errorf("archive: symbol %s has no code", symbol)
	}
	return e.bits.WriteBits(code.Bits, code.Length)
}

// copyFrom codes every byte of content and returns the number coded.
func (e recordEncoder) copyFrom(content io.Reader) (int64, error) {
	reader := bufio.NewReaderSize(content, bitstream.BufferSize)
	var coded int64
	for {
		value, err := reader.ReadByte()
		if errors.Is(err, io.EOF) {
			return coded, nil
		}
		if err != nil {
			return coded, err
		}
		if err := e.write(alphabet.Symbol(value)); err != nil {
			return coded, err
		}
		coded++
	}
}

var errNoFiles = errors.New("archive: no files to compress")

// Compress writes an archive of paths to destination, marking the last
// path's record as the end of the archive.
func Compress(destination io.Writer, paths []string, logger *slog.Logger) ([]Entry, error) {
	if len(paths) == 0 {
		return nil, errNoFiles
	}
	compressor := NewCompressor(destination, logger)
	entries := make([]Entry, 0, len(paths))
	for i, path := range paths {
		entry, err := compressor.CompressFile(path, i == len(paths)-1)
		if err != nil {
			if closeErr := compressor.bits.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("archive: flushing: %w", closeErr))
			}
			return entries, err
		}
		entries = append(entries, entry)
	}
	if err := compressor.Close(); err != nil {
		return entries, err
	}
	return entries, nil
}

// CompressToFile validates archivePath and every input path, then
// writes the archive to archivePath, replacing any existing file. On
// failure no archive is left at archivePath.
func CompressToFile(archivePath string, paths []string, logger *slog.Logger) ([]Entry, error) {
	if len(paths) == 0 {
		return nil, errNoFiles
	}
	if err := pathcheck.ValidateOutput(archivePath); err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := pathcheck.ValidateInput(path); err != nil {
			return nil, err
		}
	}

	return writeArchiveFile(archivePath, func(destination io.Writer) ([]Entry, error) {
		return Compress(destination, paths, logger)
	})
}

// writeArchiveFile creates archivePath and fills it with write. When
// write or the close fails the file is removed.
func writeArchiveFile(archivePath string, write func(io.Writer) ([]Entry, error)) ([]Entry, error) {
	file, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("creating archive %s: %w", archivePath, err)
	}
	entries, err := write(file)
	if closeErr := file.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("closing archive %s: %w", archivePath, closeErr))
	}
	if err != nil {
		if removeErr := os.Remove(archivePath); removeErr != nil {
			err = errors.Join(err, fmt.Errorf("removing partial archive: %w", removeErr))
		}
		return nil, err
	}
	return entries, nil
}
