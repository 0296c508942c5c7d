package dump

import (
	"fmt"

	"github.com/lspsuite/p4/lib/xdr"
	"github.com/lspsuite/p4/lib/zopen"
)

// ReadHeaderFile reads just the header of a dump file and returns it along
// with its encoded byte length. Gzipped (.gz) and zstd (.zst) files are
// decompressed transparently.
func ReadHeaderFile(fname string) (*Header, int64, error) {
	rc, err := zopen.Open(fname)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	c := xdr.NewCursor(rc)
	hd, err := ReadHeader(c)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return hd, c.Offset(), nil
}

// ReadFields reads a fields dump. If quantities are given, only those are
// materialized and the rest are skipped; otherwise every declared quantity
// is read. Gzipped and zstd files are decompressed transparently.
func ReadFields(
	fname string, quantities ...string,
) ([]*Domain, *Header, error) {
	rc, err := zopen.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	c := xdr.NewCursor(rc)
	hd, err := ReadHeader(c)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	doms, err := ReadDomains(c, hd, quantities)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return doms, hd, nil
}

// ReadScalars reads a scalars dump. It is ReadFields under another name:
// the two families share their layout and differ only in components per
// grid point.
func ReadScalars(
	fname string, quantities ...string,
) ([]*Domain, *Header, error) {
	return ReadFields(fname, quantities...)
}

// ReadMovie reads a particle movie dump. Gzipped and zstd files are
// decompressed transparently.
func ReadMovie(fname string) ([]*Frame, *Header, error) {
	rc, err := zopen.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	c := xdr.NewCursor(rc)
	hd, err := ReadHeader(c)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	frames, err := ReadFrames(c, hd)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return frames, hd, nil
}

// ReadExtraction reads a particle extraction dump. Gzipped and zstd files
// are decompressed transparently.
func ReadExtraction(fname string) (*Table, *Header, error) {
	rc, err := zopen.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	c := xdr.NewCursor(rc)
	hd, err := ReadHeader(c)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	t, err := ReadTable(c, hd)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	return t, hd, nil
}

// Times returns the timestamp of each named fields or scalars dump, in
// input order. Other dump families carry no timestamp and are an error.
func Times(fnames []string) ([]float64, error) {
	times := make([]float64, len(fnames))
	for i, fname := range fnames {
		hd, _, err := ReadHeaderFile(fname)
		if err != nil {
			return nil, err
		}
		if hd.Fields == nil {
			return nil, fmt.Errorf("the file %s is a %s dump, which has "+
				"no timestamp: only fields and scalars dumps do",
				fname, hd.DumpType)
		}
		times[i] = float64(hd.Fields.Timestamp)
	}
	return times, nil
}
