package dump

// Test fixtures: a small big-endian stream builder and encoders for each of
// the header layouts, mirroring what the simulator writes.

import (
	"bytes"
	"encoding/binary"

	"github.com/lspsuite/p4/lib/xdr"
)

type stream struct {
	buf bytes.Buffer
}

func (s *stream) i(vals ...int32) *stream {
	for _, v := range vals {
		binary.Write(&s.buf, binary.BigEndian, v)
	}
	return s
}

func (s *stream) f(vals ...float32) *stream {
	for _, v := range vals {
		binary.Write(&s.buf, binary.BigEndian, v)
	}
	return s
}

func (s *stream) str(text string) *stream {
	n := int32(len(text))
	s.i(n, n)
	s.buf.WriteString(text)
	for s.buf.Len()%4 != 0 {
		s.buf.WriteByte(0)
	}
	return s
}

func (s *stream) bytes() []byte { return s.buf.Bytes() }

func (s *stream) cursor() *xdr.Cursor {
	return xdr.NewCursor(bytes.NewReader(s.buf.Bytes()))
}

// common writes the four common header fields.
func (s *stream) common(dumpType int32, title, revision string) *stream {
	return s.i(dumpType, 1).str(title).str(revision)
}

// fieldsHeader writes a fields (type 2) or scalars (type 3) header.
func (s *stream) fieldsHeader(
	dumpType int32, timestamp float32, geometry, domains int32,
	quantities []Quantity,
) *stream {
	s.common(dumpType, "test dump", "rev-1")
	s.f(timestamp)
	s.i(geometry, domains, int32(len(quantities)))
	for _, q := range quantities {
		s.str(q.Name)
	}
	for _, q := range quantities {
		s.str(q.Unit)
	}
	return s
}

// movieHeader writes a particle movie (type 6) header with n declared
// params, the given enable flags, and per-param units.
func (s *stream) movieHeader(
	geometry, sx, sy, sz int32, flags []int32, units []string,
) *stream {
	s.common(6, "test movie", "rev-1")
	s.i(geometry, sx, sy, sz, int32(len(flags)))
	s.i(flags...)
	for _, u := range units {
		s.str(u)
	}
	return s
}

// extractHeader writes a particle extraction (type 10) header.
func (s *stream) extractHeader(geometry int32, names []string) *stream {
	s.common(10, "test extraction", "rev-1")
	s.i(geometry, int32(len(names)))
	for _, name := range names {
		s.str(name)
	}
	return s
}
