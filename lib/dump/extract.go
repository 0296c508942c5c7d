package dump

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lspsuite/p4/lib/xdr"
)

// Table is the flat particle table of an extraction dump, stored column-major.
type Table struct {
	Names []string
	Cols  [][]float32
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	if len(t.Cols) == 0 {
		return 0
	}
	return len(t.Cols[0])
}

// Col returns the column with a given name, or nil if the table has no such
// column.
func (t *Table) Col(name string) []float32 {
	for i := range t.Names {
		if t.Names[i] == name {
			return t.Cols[i]
		}
	}
	return nil
}

// extractColumns returns the column layout implied by an extraction header's
// quantity count. The base eight columns are always present; a 9-quantity
// dump appends the energy, an 11-quantity dump the initial position, and a
// 12-quantity dump both.
func extractColumns(n int) ([]string, error) {
	names := []string{"t", "q", "x", "y", "z", "ux", "uy", "uz"}
	switch n {
	case 8:
	case 9:
		names = append(names, "E")
	case 11:
		names = append(names, "xi", "yi", "zi")
	case 12:
		names = append(names, "E", "xi", "yi", "zi")
	default:
		return nil, fmt.Errorf("the extraction header declares %d "+
			"quantities, but only the 8-, 9-, 11-, and 12-quantity column "+
			"layouts are recognized", n)
	}
	return names, nil
}

// ReadTable reconstructs the particle table of an extraction dump. The
// cursor must be positioned immediately after the header. No row count is
// declared anywhere: the table runs to the end of the stream, and a stream
// that does not divide into whole rows is an error.
func ReadTable(c *xdr.Cursor, hd *Header) (*Table, error) {
	if hd.Extract == nil {
		return nil, fmt.Errorf("the header describes a %s dump, but table "+
			"reconstruction needs a particle extraction dump", hd.DumpType)
	}

	names, err := extractColumns(len(hd.Extract.Quantities))
	if err != nil {
		return nil, err
	}

	data, err := c.ReadAll()
	if err != nil {
		return nil, err
	}
	rowWidth := 4 * len(names)
	if len(data)%rowWidth != 0 {
		return nil, fmt.Errorf("truncated extraction record: %d payload "+
			"bytes is not a whole number of %d-byte rows",
			len(data), rowWidth)
	}
	rows := len(data) / rowWidth

	t := &Table{Names: names, Cols: make([][]float32, len(names))}
	for j := range t.Cols {
		t.Cols[j] = make([]float32, rows)
	}
	for r := 0; r < rows; r++ {
		row := data[r*rowWidth:]
		for j := range t.Cols {
			t.Cols[j][r] = math.Float32frombits(
				binary.BigEndian.Uint32(row[4*j:]))
		}
	}
	return t, nil
}
