/*package xdr decodes the XDR-flavored primitives that LSP's binary .p4 dump
containers are built out of: 4-byte big-endian signed integers, 4-byte
big-endian IEEE-754 floats, and strings stored with a doubled length prefix
and padded out to a 4-byte boundary.

All reads go through a Cursor, which tracks its absolute offset within the
stream and never rewinds except through an explicit SeekTo.
*/
package xdr

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Cursor is a forward-moving read position within a dump stream. A Cursor
// assumes exclusive access to its underlying reader: no other code may read
// from the stream while the Cursor is live.
type Cursor struct {
	rd       io.Reader
	offset   int64
	warnings []string
}

// NewCursor creates a Cursor positioned at the start of rd. If rd is also an
// io.Seeker, Skip and SeekTo use seeks instead of reading and discarding.
func NewCursor(rd io.Reader) *Cursor {
	return &Cursor{rd: rd}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int64 { return c.offset }

// Warnings returns the non-fatal integrity warnings recorded while reading,
// in the order they were encountered.
func (c *Cursor) Warnings() []string { return c.warnings }

// read fills b completely or returns an error describing the truncation. On
// success the cursor advances by len(b).
func (c *Cursor) read(b []byte) error {
	n, err := io.ReadFull(c.rd, b)
	c.offset += int64(n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("the stream ends at offset %d, but the read "+
			"starting at offset %d needs %d bytes",
			c.offset, c.offset-int64(n), len(b))
	}
	return err
}

// ReadBytes reads exactly n raw bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := c.read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadAll reads every byte remaining in the stream.
func (c *Cursor) ReadAll() ([]byte, error) {
	b, err := io.ReadAll(c.rd)
	c.offset += int64(len(b))
	return b, err
}

// ReadInt32 reads a single 4-byte big-endian signed integer.
func (c *Cursor) ReadInt32() (int32, error) {
	var b [4]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

// ReadInt32s reads n consecutive 4-byte big-endian signed integers.
func (c *Cursor) ReadInt32s(n int) ([]int32, error) {
	b, err := c.ReadBytes(4 * n)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(b[4*i:]))
	}
	return out, nil
}

// ReadFloat32 reads a single 4-byte big-endian IEEE-754 float.
func (c *Cursor) ReadFloat32() (float32, error) {
	var b [4]byte
	if err := c.read(b[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b[:])), nil
}

// ReadFloat32s reads n consecutive 4-byte big-endian IEEE-754 floats.
func (c *Cursor) ReadFloat32s(n int) ([]float32, error) {
	b, err := c.ReadBytes(4 * n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(b[4*i:]))
	}
	return out, nil
}

// ReadString reads a length-prefixed, 4-byte-aligned string. The length is
// stored twice; if the two copies disagree a warning is recorded and the
// first copy is trusted. Padding bytes are discarded.
func (c *Cursor) ReadString() (string, error) {
	start := c.offset
	l1, err := c.ReadInt32()
	if err != nil {
		return "", err
	}
	l2, err := c.ReadInt32()
	if err != nil {
		return "", err
	}
	if l1 != l2 {
		c.warnings = append(c.warnings, fmt.Sprintf(
			"the string length prefixes at offset %d disagree: %d != %d",
			start, l1, l2))
	}
	if l1 < 0 {
		return "", fmt.Errorf("the string at offset %d has a negative "+
			"length, %d", start, l1)
	}
	padded := (int(l1) + 3) &^ 3
	b, err := c.ReadBytes(padded)
	if err != nil {
		return "", err
	}
	return string(b[:l1]), nil
}

// ReadTuple decodes a fixed sequence of values described by format, one value
// per character: 'i' for int32, 'f' for float32, and 's' for a string.
func (c *Cursor) ReadTuple(format string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(format))
	for _, f := range format {
		var v interface{}
		var err error
		switch f {
		case 'i':
			v, err = c.ReadInt32()
		case 'f':
			v, err = c.ReadFloat32()
		case 's':
			v, err = c.ReadString()
		default:
			return nil, fmt.Errorf("the tuple format %q contains '%c', "+
				"but only 'i', 'f', and 's' are valid", format, f)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Skip advances the cursor n bytes without decoding them. Seekable streams
// seek; everything else reads and discards. Note that seekable streams do not
// report truncation here: a seek past the end of the stream succeeds and the
// next read fails instead.
func (c *Cursor) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("cannot skip %d bytes: skips must move forward", n)
	}
	if s, ok := c.rd.(io.Seeker); ok {
		if _, err := s.Seek(n, io.SeekCurrent); err != nil {
			return err
		}
		c.offset += n
		return nil
	}
	m, err := io.CopyN(io.Discard, c.rd, n)
	c.offset += m
	if err == io.EOF {
		return fmt.Errorf("the stream ends at offset %d, %d bytes into a "+
			"%d-byte skip", c.offset, m, n)
	}
	return err
}

// SeekTo repositions the cursor at an absolute offset. Only seekable streams
// support it; the movie reconstructor guarantees this by buffering its input.
func (c *Cursor) SeekTo(off int64) error {
	s, ok := c.rd.(io.Seeker)
	if !ok {
		return fmt.Errorf("cannot seek to offset %d: the underlying "+
			"stream is not seekable", off)
	}
	if _, err := s.Seek(off, io.SeekStart); err != nil {
		return err
	}
	c.offset = off
	return nil
}

// EOF probes for the end of the stream with a 1-byte read. If a byte is
// there, the cursor rewinds over it and EOF reports false; the probe
// therefore requires a seekable stream.
func (c *Cursor) EOF() (bool, error) {
	s, ok := c.rd.(io.Seeker)
	if !ok {
		return false, fmt.Errorf("the end-of-stream probe requires a " +
			"seekable stream")
	}
	var b [1]byte
	n, err := c.rd.Read(b[:])
	if n == 0 {
		if err == io.EOF || err == nil {
			return true, nil
		}
		return false, err
	}
	if _, err := s.Seek(-1, io.SeekCurrent); err != nil {
		return false, err
	}
	return false, nil
}
