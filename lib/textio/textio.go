/*package textio reads the plain-text sidecar files the simulator writes next
to its binary dumps: the grid, region, and volume descriptions and the
history probe time-series. All of them are line-oriented ASCII; all readers
accept gzipped (.gz) and zstd (.zst) inputs.
*/
package textio

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/lspsuite/p4/lib/zopen"
)

// Grid is one grid declared in the grid sidecar: its index and the
// coordinate vectors along each axis.
type Grid struct {
	Index         int
	Xgv, Ygv, Zgv []float64
}

// GridFile is the decoded grid sidecar.
type GridFile struct {
	Title                  string
	Geometry, Dimension    int
	XUnits, YUnits, ZUnits string
	Grids                  []Grid
}

// Region is one region declared in the regions sidecar.
type Region struct {
	NI, NJ, NK                         int
	Xmin, Xmax, Ymin, Ymax, Zmin, Zmax float64
}

// RegionFile is the decoded regions sidecar.
type RegionFile struct {
	Title               string
	Geometry, Dimension int
	Regions             []Region
}

// Volume is one volume declared in the volumes sidecar.
type Volume struct {
	Type                   int
	X0, X1, Y0, Y1, Z0, Z1 float64
}

// VolumeFile is the decoded volumes sidecar.
type VolumeFile struct {
	Title   string
	Volumes []Volume
}

// lineReader walks a sidecar file one line at a time, tracking the line
// number so that errors can point at the offending line.
type lineReader struct {
	fname string
	sc    *bufio.Scanner
	line  int
}

func (r *lineReader) next() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", fmt.Errorf("%s: %s", r.fname, err.Error())
		}
		return "", fmt.Errorf("%s ends at line %d, but more lines were "+
			"expected", r.fname, r.line)
	}
	r.line++
	return strings.TrimSpace(r.sc.Text()), nil
}

func (r *lineReader) int() (int, error) {
	s, err := r.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: line %d should be an integer, but is "+
			"'%s'", r.fname, r.line, s)
	}
	return n, nil
}

func (r *lineReader) float() (float64, error) {
	s, err := r.next()
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: line %d should be a number, but is "+
			"'%s'", r.fname, r.line, s)
	}
	return x, nil
}

// fields reads the next line and splits it into exactly n whitespace
// separated fields.
func (r *lineReader) fields(n int) ([]string, error) {
	s, err := r.next()
	if err != nil {
		return nil, err
	}
	f := strings.Fields(s)
	if len(f) != n {
		return nil, fmt.Errorf("%s: line %d should have %d fields, but "+
			"has %d", r.fname, r.line, n, len(f))
	}
	return f, nil
}

func (r *lineReader) floatFields(n int) ([]float64, error) {
	f, err := r.fields(n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range f {
		if out[i], err = strconv.ParseFloat(f[i], 64); err != nil {
			return nil, fmt.Errorf("%s: line %d, field %d should be a "+
				"number, but is '%s'", r.fname, r.line, i+1, f[i])
		}
	}
	return out, nil
}

func (r *lineReader) floatList(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		var err error
		if out[i], err = r.float(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// openLines opens a (possibly compressed) sidecar file for line reading. The
// returned close function must be called when done.
func openLines(fname string) (*lineReader, func() error, error) {
	rc, err := zopen.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	return &lineReader{fname: fname, sc: bufio.NewScanner(rc)}, rc.Close, nil
}

// ReadGrid reads the grid sidecar.
func ReadGrid(fname string) (*GridFile, error) {
	r, closeFile, err := openLines(fname)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	g := &GridFile{}
	if g.Title, err = r.next(); err != nil {
		return nil, err
	}
	if g.Geometry, err = r.int(); err != nil {
		return nil, err
	}
	if g.Dimension, err = r.int(); err != nil {
		return nil, err
	}
	if g.XUnits, err = r.next(); err != nil {
		return nil, err
	}
	if g.YUnits, err = r.next(); err != nil {
		return nil, err
	}
	if g.ZUnits, err = r.next(); err != nil {
		return nil, err
	}

	n, err := r.int()
	if err != nil {
		return nil, err
	}
	g.Grids = make([]Grid, n)
	for i := range g.Grids {
		grid := Grid{}
		if grid.Index, err = r.int(); err != nil {
			return nil, err
		}
		for _, gv := range []*[]float64{&grid.Xgv, &grid.Ygv, &grid.Zgv} {
			m, err := r.int()
			if err != nil {
				return nil, err
			}
			if *gv, err = r.floatList(m); err != nil {
				return nil, err
			}
		}
		g.Grids[i] = grid
	}
	return g, nil
}

// ReadRegions reads the regions sidecar.
func ReadRegions(fname string) (*RegionFile, error) {
	r, closeFile, err := openLines(fname)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	rf := &RegionFile{}
	if rf.Title, err = r.next(); err != nil {
		return nil, err
	}
	if rf.Geometry, err = r.int(); err != nil {
		return nil, err
	}
	if rf.Dimension, err = r.int(); err != nil {
		return nil, err
	}

	n, err := r.int()
	if err != nil {
		return nil, err
	}
	rf.Regions = make([]Region, n)
	for i := range rf.Regions {
		reg := Region{}
		dims, err := r.fields(3)
		if err != nil {
			return nil, err
		}
		for j, p := range []*int{&reg.NI, &reg.NJ, &reg.NK} {
			if *p, err = strconv.Atoi(dims[j]); err != nil {
				return nil, fmt.Errorf("%s: line %d, field %d should be "+
					"an integer, but is '%s'", fname, r.line, j+1, dims[j])
			}
		}
		b, err := r.floatFields(6)
		if err != nil {
			return nil, err
		}
		reg.Xmin, reg.Xmax = b[0], b[1]
		reg.Ymin, reg.Ymax = b[2], b[3]
		reg.Zmin, reg.Zmax = b[4], b[5]
		rf.Regions[i] = reg
	}
	return rf, nil
}

// ReadVolumes reads the volumes sidecar.
func ReadVolumes(fname string) (*VolumeFile, error) {
	r, closeFile, err := openLines(fname)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	vf := &VolumeFile{}
	if vf.Title, err = r.next(); err != nil {
		return nil, err
	}

	n, err := r.int()
	if err != nil {
		return nil, err
	}
	vf.Volumes = make([]Volume, n)
	for i := range vf.Volumes {
		f, err := r.floatFields(7)
		if err != nil {
			return nil, err
		}
		vf.Volumes[i] = Volume{
			Type: int(f[0]),
			X0:   f[1], X1: f[2],
			Y0: f[3], Y1: f[4],
			Z0: f[5], Z1: f[6],
		}
	}
	return vf, nil
}
