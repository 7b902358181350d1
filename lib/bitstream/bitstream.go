// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bitstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/icza/bitio"
)

// BufferSize is the byte buffer size on both the read and write side.
const BufferSize = 4096

// MaxBits is the widest value ReadBits and WriteBits accept.
const MaxBits = 64

var (
	// ErrEndOfStream is returned when a read needs more bits than the
	// source holds.
	ErrEndOfStream = errors.New("bitstream: end of stream")

	// ErrClosed is returned by writes to a closed Writer.
	ErrClosed = errors.New("bitstream: writer is closed")
)

// Reader reads bits from a byte source.
type Reader struct {
	bits *bitio.Reader
	read uint64
}

// NewReader returns a Reader over source.
func NewReader(source io.Reader) *Reader {
	return &Reader{bits: bitio.NewReader(bufio.NewReaderSize(source, BufferSize))}
}

// ReadBit returns the next bit as 0 or 1.
func (r *Reader) ReadBit() (uint8, error) {
	bit, err := r.bits.ReadBool()
	if err != nil {
		return 0, readError(err)
	}
	r.read++
	if bit {
		return 1, nil
	}
	return 0, nil
}

// ReadBits reads count bits, most significant first, and returns them
// as the low bits of the result.
func (r *Reader) ReadBits(count int) (uint64, error) {
	if count < 0 || count > MaxBits {
		return 0, fmt.Errorf("bitstream: cannot read %d bits", count)
	}
	if count == 0 {
		return 0, nil
	}
	value, err := r.bits.ReadBits(uint8(count))
	if err != nil {
		return 0, readError(err)
	}
	r.read += uint64(count)
	return value, nil
}

// BitsRead returns the number of bits consumed so far.
func (r *Reader) BitsRead() uint64 { return r.read }

func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrEndOfStream
	}
	return fmt.Errorf("bitstream: reading: %w", err)
}

// Writer writes bits to a byte sink.
type Writer struct {
	buffer  *bufio.Writer
	bits    *bitio.Writer
	written uint64
	closed  bool
}

// NewWriter returns a Writer over sink. The caller must call Close.
func NewWriter(sink io.Writer) *Writer {
	buffer := bufio.NewWriterSize(sink, BufferSize)
	return &Writer{buffer: buffer, bits: bitio.NewWriter(buffer)}
}

// WriteBit appends one bit. Any nonzero value writes a 1.
func (w *Writer) WriteBit(bit uint8) error {
	if w.closed {
		return ErrClosed
	}
	if err := w.bits.WriteBool(bit != 0); err != nil {
		return fmt.Errorf("bitstream: writing: %w", err)
	}
	w.written++
	return nil
}

// WriteBits appends the low count bits of value, most significant
// first. Higher bits of value are ignored.
func (w *Writer) WriteBits(value uint64, count int) error {
	if w.closed {
		return ErrClosed
	}
	if count < 0 || count > MaxBits {
		return fmt.Errorf("bitstream: cannot write %d bits", count)
	}
	if count == 0 {
		return nil
	}
	value &= math.MaxUint64 >> uint(MaxBits-count)
	if err := w.bits.WriteBits(value, uint8(count)); err != nil {
		return fmt.Errorf("bitstream: writing: %w", err)
	}
	w.written += uint64(count)
	return nil
}

// BitsWritten returns the number of bits appended so far, excluding
// the padding Close adds.
func (w *Writer) BitsWritten() uint64 { return w.written }

// Close pads the final partial byte with zero bits and flushes all
// buffered bytes to the sink. It does not close the sink. Calling Close
// again has no effect.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.bits.Close(); err != nil {
		return fmt.Errorf("bitstream: padding final byte: %w", err)
	}
	if err := w.buffer.Flush(); err != nil {
		return fmt.Errorf("bitstream: flushing: %w", err)
	}
	return nil
}
