package dump

import (
	"fmt"

	"github.com/lspsuite/p4/lib/xdr"
)

// Grid is one quantity component on one domain's grid. Data is stored
// row-major over (nK, nJ, nI), exactly the flattened order the container
// uses, so Data[(k*NJ+j)*NI + i] is the value at grid point (i, j, k).
type Grid struct {
	NI, NJ, NK int
	Data       []float32
}

// At returns the value at grid point (i, j, k).
func (g *Grid) At(i, j, k int) float32 {
	return g.Data[(k*g.NJ+j)*g.NI+i]
}

// Domain is one spatial block of a fields or scalars dump. Xgv, Ygv, and Zgv
// are the grid coordinate vectors along each axis. Grids maps quantity names
// to their data: a scalar quantity appears under its own name, a vector
// quantity under its name suffixed "x", "y", and "z".
type Domain struct {
	Xgv, Ygv, Zgv []float32
	Grids         map[string]*Grid
}

// ReadDomains reconstructs every domain of a fields or scalars dump. The
// cursor must be positioned immediately after the header. If quantities is
// non-empty, only the named quantities are materialized and the rest are
// skipped without decoding; the stream is consumed identically either way.
// Every requested name must be declared in the header.
func ReadDomains(
	c *xdr.Cursor, hd *Header, quantities []string,
) ([]*Domain, error) {
	if hd.Fields == nil {
		return nil, fmt.Errorf("the header describes a %s dump, but domain "+
			"reconstruction needs a fields or scalars dump", hd.DumpType)
	}

	ncomp := 1
	if hd.DumpType == Fields {
		ncomp = 3
	}

	declared := make([]string, len(hd.Fields.Quantities))
	for i, q := range hd.Fields.Quantities {
		declared[i] = q.Name
	}

	// Validate the request in full before touching the payload.
	if len(quantities) == 0 {
		quantities = declared
	}
	want := map[string]bool{}
	for _, name := range quantities {
		ok := false
		for _, d := range declared {
			if d == name {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("the quantity '%s' is not stored in "+
				"this file: the stored quantities are %v", name, declared)
		}
		want[name] = true
	}

	doms := make([]*Domain, 0, hd.Fields.Domains)
	for i := int32(0); i < hd.Fields.Domains; i++ {
		d, err := readDomain(c, declared, want, ncomp)
		if err != nil {
			return nil, fmt.Errorf("domain %d of %d: %s",
				i+1, hd.Fields.Domains, err.Error())
		}
		doms = append(doms, d)
	}
	return doms, nil
}

func readDomain(
	c *xdr.Cursor, declared []string, want map[string]bool, ncomp int,
) (*Domain, error) {
	// Region indices: not part of the output, but they must be consumed.
	if _, err := c.ReadInt32s(3); err != nil {
		return nil, err
	}

	d := &Domain{Grids: map[string]*Grid{}}
	var err error
	if d.Xgv, err = readGridVector(c); err != nil {
		return nil, err
	}
	if d.Ygv, err = readGridVector(c); err != nil {
		return nil, err
	}
	if d.Zgv, err = readGridVector(c); err != nil {
		return nil, err
	}

	nI, nJ, nK := len(d.Xgv), len(d.Ygv), len(d.Zgv)
	nAll := nI * nJ * nK

	for _, name := range declared {
		if !want[name] {
			if err := c.Skip(int64(nAll) * 4 * int64(ncomp)); err != nil {
				return nil, err
			}
			continue
		}

		// The payload interleaves the components of each grid point, so a
		// vector quantity is nAll (x, y, z) triples back to back.
		raw, err := c.ReadFloat32s(nAll * ncomp)
		if err != nil {
			return nil, err
		}
		if ncomp == 1 {
			d.Grids[name] = &Grid{NI: nI, NJ: nJ, NK: nK, Data: raw}
			continue
		}
		for comp := 0; comp < ncomp; comp++ {
			ch := make([]float32, nAll)
			for e := range ch {
				ch[e] = raw[e*ncomp+comp]
			}
			d.Grids[name+componentSuffix(comp)] =
				&Grid{NI: nI, NJ: nJ, NK: nK, Data: ch}
		}
	}
	return d, nil
}

// readGridVector reads a count-prefixed list of grid coordinates.
func readGridVector(c *xdr.Cursor) ([]float32, error) {
	n, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("the grid declares %d points along an axis", n)
	}
	return c.ReadFloat32s(int(n))
}

func componentSuffix(comp int) string {
	return [...]string{"x", "y", "z"}[comp]
}
