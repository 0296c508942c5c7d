/*package dump reads the binary .p4 output containers written by the LSP
plasma simulation code. A container starts with a self-describing header
whose layout branches on a dump-type discriminant, followed by one of four
record families: vector field grids, scalar grids, particle-movie frames, or
a particle-extraction table.

The usual entry points take a file name (ReadFields, ReadScalars, ReadMovie,
ReadExtraction) and transparently handle compressed inputs. The lower-level
functions take an xdr.Cursor plus an already-decoded Header, for callers that
manage the stream themselves.
*/
package dump

import (
	"fmt"

	"github.com/lspsuite/p4/lib/xdr"
)

// DumpType identifies the record family stored in a .p4 container.
type DumpType int32

const (
	// Fields dumps store vector quantities on grids, three components per
	// grid point.
	Fields DumpType = 2
	// Scalars dumps store scalar quantities on grids, one value per point.
	Scalars DumpType = 3
	// Movie dumps store per-particle time-series frames.
	Movie DumpType = 6
	// Extract dumps store a flat table of extracted particles.
	Extract DumpType = 10
)

func (t DumpType) String() string {
	switch t {
	case Fields:
		return "fields"
	case Scalars:
		return "scalars"
	case Movie:
		return "particle movie"
	case Extract:
		return "particle extraction"
	}
	return fmt.Sprintf("unknown (%d)", int32(t))
}

// Quantity is one named grid quantity and its unit string.
type Quantity struct {
	Name, Unit string
}

// Param is one enabled per-particle movie attribute and its unit string.
type Param struct {
	Label, Unit string
}

// Header is the decoded header of a .p4 container. Exactly one of the
// variant pointers is non-nil, selected by DumpType: Fields for dump types
// 2 and 3, Movie for 6, and Extract for 10.
type Header struct {
	DumpType        DumpType
	DataVersion     int32
	Title, Revision string

	Fields  *FieldsHeader
	Movie   *MovieHeader
	Extract *ExtractHeader
}

// FieldsHeader is the header payload of a fields or scalars dump.
type FieldsHeader struct {
	Timestamp         float32
	Geometry, Domains int32
	Quantities        []Quantity
}

// MovieHeader is the header payload of a particle movie dump. Params holds
// only the enabled params, in their declared order.
type MovieHeader struct {
	Geometry                  int32
	SFlagsX, SFlagsY, SFlagsZ int32
	Params                    []Param
}

// ExtractHeader is the header payload of a particle extraction dump.
type ExtractHeader struct {
	Geometry   int32
	Quantities []string
}

// movieLabels is the fixed vocabulary of movie param labels. A 7-param
// header drops E, an 8-param header uses the list as is, and an 11-param
// header appends the initial-position labels xi, yi, zi.
var movieLabels = []string{"q", "x", "y", "z", "ux", "uy", "uz", "E"}

// ReadHeader decodes the container header and leaves the cursor positioned
// at the first byte of the payload. A truncated or malformed header is an
// error and no partial header is returned.
func ReadHeader(c *xdr.Cursor) (*Header, error) {
	tup, err := c.ReadTuple("iiss")
	if err != nil {
		return nil, err
	}
	hd := &Header{
		DumpType:    DumpType(tup[0].(int32)),
		DataVersion: tup[1].(int32),
		Title:       tup[2].(string),
		Revision:    tup[3].(string),
	}

	switch hd.DumpType {
	case Fields, Scalars:
		hd.Fields, err = readFieldsHeader(c)
	case Movie:
		hd.Movie, err = readMovieHeader(c)
	case Extract:
		hd.Extract, err = readExtractHeader(c)
	default:
		return nil, fmt.Errorf("unknown dump type %d: only fields (2), "+
			"scalars (3), particle movie (6), and particle extraction (10) "+
			"dumps are recognized", int32(hd.DumpType))
	}
	if err != nil {
		return nil, err
	}
	return hd, nil
}

func readFieldsHeader(c *xdr.Cursor) (*FieldsHeader, error) {
	tup, err := c.ReadTuple("fii")
	if err != nil {
		return nil, err
	}
	hd := &FieldsHeader{
		Timestamp: tup[0].(float32),
		Geometry:  tup[1].(int32),
		Domains:   tup[2].(int32),
	}

	n, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("the header declares %d quantities", n)
	}

	// Names and units are stored as two back-to-back homogeneous lists, not
	// interleaved, and are zipped positionally.
	names := make([]string, n)
	for i := range names {
		if names[i], err = c.ReadString(); err != nil {
			return nil, err
		}
	}
	hd.Quantities = make([]Quantity, n)
	for i := range hd.Quantities {
		unit, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		hd.Quantities[i] = Quantity{Name: names[i], Unit: unit}
	}
	return hd, nil
}

func readMovieHeader(c *xdr.Cursor) (*MovieHeader, error) {
	tup, err := c.ReadTuple("iiii")
	if err != nil {
		return nil, err
	}
	hd := &MovieHeader{
		Geometry: tup[0].(int32),
		SFlagsX:  tup[1].(int32),
		SFlagsY:  tup[2].(int32),
		SFlagsZ:  tup[3].(int32),
	}

	n, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}

	var labels []string
	switch n {
	case 7:
		labels = movieLabels[:7]
	case 8:
		labels = movieLabels
	case 11:
		labels = append(append([]string{}, movieLabels...),
			"xi", "yi", "zi")
	default:
		return nil, fmt.Errorf("the movie header declares %d params, but "+
			"only the 7-, 8-, and 11-param layouts are recognized", n)
	}

	flags, err := c.ReadInt32s(int(n))
	if err != nil {
		return nil, err
	}
	for i := range labels {
		unit, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		if flags[i] != 0 {
			hd.Params = append(hd.Params, Param{Label: labels[i], Unit: unit})
		}
	}
	return hd, nil
}

func readExtractHeader(c *xdr.Cursor) (*ExtractHeader, error) {
	geom, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	hd := &ExtractHeader{Geometry: geom}

	n, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("the header declares %d quantities", n)
	}
	hd.Quantities = make([]string, n)
	for i := range hd.Quantities {
		if hd.Quantities[i], err = c.ReadString(); err != nil {
			return nil, err
		}
	}
	return hd, nil
}
