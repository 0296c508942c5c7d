package dump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lspsuite/p4/lib/xdr"
)

// Frame is one time-slice of a particle movie. ID holds the particle ids and
// Cols holds one column per enabled param, parallel to the header's Params
// list; every column has length N.
type Frame struct {
	Time   float32
	Step   int32
	N      int
	Labels []string
	ID     []int32
	Cols   [][]float32
}

// Col returns the column for a given param label, or nil if the param was
// not enabled in this movie.
func (f *Frame) Col(label string) []float32 {
	for i := range f.Labels {
		if f.Labels[i] == label {
			return f.Cols[i]
		}
	}
	return nil
}

// frameIndex locates one frame's payload during the indexing pass.
type frameIndex struct {
	time float32
	step int32
	n    int
	pos  int64
}

// ReadFrames reconstructs every frame of a particle movie dump. The cursor
// must be positioned immediately after the header.
//
// A frame's byte length depends on a particle count stored inside the frame,
// so the frames cannot be located without walking them. ReadFrames buffers
// the remaining stream (which also makes it seekable when the input is a
// decompressor) and runs two passes: an indexing pass that records each
// frame's payload position and skips over it, then a decoding pass that
// seeks back and bulk-decodes the rows.
func ReadFrames(c *xdr.Cursor, hd *Header) ([]*Frame, error) {
	if hd.Movie == nil {
		return nil, fmt.Errorf("the header describes a %s dump, but frame "+
			"reconstruction needs a particle movie dump", hd.DumpType)
	}

	labels := make([]string, len(hd.Movie.Params))
	for i, p := range hd.Movie.Params {
		labels[i] = p.Label
	}
	// One leading int32 particle id, then one float32 per enabled param.
	rowWidth := 4 * (1 + len(labels))

	data, err := c.ReadAll()
	if err != nil {
		return nil, err
	}
	bc := xdr.NewCursor(bytes.NewReader(data))

	// Pass 1: index the frame boundaries.
	var index []frameIndex
	for {
		eof, err := bc.EOF()
		if err != nil {
			return nil, err
		}
		if eof {
			break
		}

		tup, err := bc.ReadTuple("fii")
		if err != nil {
			return nil, fmt.Errorf("frame %d: %s", len(index), err.Error())
		}
		n := tup[2].(int32)
		if n < 0 {
			return nil, fmt.Errorf("frame %d declares %d particles",
				len(index), n)
		}

		pos := bc.Offset()
		size := int64(n) * int64(rowWidth)
		if pos+size > int64(len(data)) {
			return nil, fmt.Errorf("frame %d declares %d particles (%d "+
				"bytes), but only %d bytes remain in the stream",
				len(index), n, size, int64(len(data))-pos)
		}
		if err := bc.Skip(size); err != nil {
			return nil, err
		}
		index = append(index, frameIndex{
			time: tup[0].(float32), step: tup[1].(int32),
			n: int(n), pos: pos,
		})
	}

	// Pass 2: decode the rows of each indexed frame.
	frames := make([]*Frame, len(index))
	for i, idx := range index {
		if err := bc.SeekTo(idx.pos); err != nil {
			return nil, err
		}
		raw, err := bc.ReadBytes(idx.n * rowWidth)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %s", i, err.Error())
		}

		f := &Frame{
			Time: idx.time, Step: idx.step, N: idx.n,
			Labels: labels,
			ID:     make([]int32, idx.n),
			Cols:   make([][]float32, len(labels)),
		}
		for j := range f.Cols {
			f.Cols[j] = make([]float32, idx.n)
		}
		for r := 0; r < idx.n; r++ {
			row := raw[r*rowWidth:]
			f.ID[r] = int32(binary.BigEndian.Uint32(row))
			for j := range f.Cols {
				f.Cols[j][r] = math.Float32frombits(
					binary.BigEndian.Uint32(row[4*(j+1):]))
			}
		}
		frames[i] = f
	}
	return frames, nil
}
