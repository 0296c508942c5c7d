package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/gzip"

	"github.com/lspsuite/p4/lib/eq"
)

func writeFile(t *testing.T, fname string, b []byte) {
	t.Helper()
	if err := os.WriteFile(fname, b, 0666); err != nil {
		t.Fatalf("Could not write %s: %s", fname, err.Error())
	}
}

func writeGzipFile(t *testing.T, fname string, b []byte) {
	t.Helper()
	fp, err := os.Create(fname)
	if err != nil {
		t.Fatalf("Could not create %s: %s", fname, err.Error())
	}
	defer fp.Close()
	zw := gzip.NewWriter(fp)
	if _, err := zw.Write(b); err != nil {
		t.Fatalf("Could not write %s: %s", fname, err.Error())
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Could not close %s: %s", fname, err.Error())
	}
}

func writeZstdFile(t *testing.T, fname string, b []byte) {
	t.Helper()
	fp, err := os.Create(fname)
	if err != nil {
		t.Fatalf("Could not create %s: %s", fname, err.Error())
	}
	defer fp.Close()
	zw := zstd.NewWriter(fp)
	if _, err := zw.Write(b); err != nil {
		t.Fatalf("Could not write %s: %s", fname, err.Error())
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Could not close %s: %s", fname, err.Error())
	}
}

func TestReadFieldsFile(t *testing.T) {
	dir := t.TempDir()

	s := new(stream).fieldsHeader(3, 2.5, 1, 1, []Quantity{{"rho", "g/cc"}})
	s.domain([]float32{0, 1}, []float32{0}, []float32{0}, []float32{8, 9})

	fname := filepath.Join(dir, "sclr001.p4")
	writeFile(t, fname, s.bytes())

	doms, hd, err := ReadScalars(fname)
	if err != nil {
		t.Fatalf("Expected valid read, got error message %s.", err.Error())
	}
	if hd.DumpType != Scalars {
		t.Errorf("Expected a scalars dump, got %s.", hd.DumpType)
	}
	if len(doms) != 1 || !eq.Float32s(doms[0].Grids["rho"].Data,
		[]float32{8, 9}) {
		t.Errorf("Wrong domain data: %+v.", doms)
	}
}

func TestReadMovieFileGzip(t *testing.T) {
	dir := t.TempDir()

	s := movieStream([]int32{0, 2, 5})
	fname := filepath.Join(dir, "pmovie1.p4.gz")
	writeGzipFile(t, fname, s.bytes())

	frames, hd, err := ReadMovie(fname)
	if err != nil {
		t.Fatalf("Expected valid read, got error message %s.", err.Error())
	}
	if hd.Movie == nil {
		t.Fatalf("Expected a movie header.")
	}
	if len(frames) != 3 || frames[2].N != 5 {
		t.Errorf("Expected 3 frames with 5 rows in the last, got %d "+
			"frames.", len(frames))
	}
}

func TestReadExtractionFileZstd(t *testing.T) {
	dir := t.TempDir()

	s := new(stream).extractHeader(1,
		[]string{"t", "q", "x", "y", "z", "ux", "uy", "uz"})
	s.f(make([]float32, 3*8)...)

	fname := filepath.Join(dir, "pext1.p4.zst")
	writeZstdFile(t, fname, s.bytes())

	table, _, err := ReadExtraction(fname)
	if err != nil {
		t.Fatalf("Expected valid read, got error message %s.", err.Error())
	}
	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d.", table.Len())
	}
}

func TestReadHeaderFileSize(t *testing.T) {
	dir := t.TempDir()

	s := new(stream).fieldsHeader(2, 1.0, 1, 0, []Quantity{{"E", "V/m"}})
	headerLen := int64(len(s.bytes()))

	fname := filepath.Join(dir, "flds001.p4")
	writeFile(t, fname, s.bytes())

	hd, size, err := ReadHeaderFile(fname)
	if err != nil {
		t.Fatalf("Expected valid read, got error message %s.", err.Error())
	}
	if hd.Fields == nil {
		t.Fatalf("Expected a fields header.")
	}
	if size != headerLen {
		t.Errorf("Expected a %d-byte header, got %d.", headerLen, size)
	}
}

func TestTimes(t *testing.T) {
	dir := t.TempDir()

	fnames := []string{}
	for i, timestamp := range []float32{0.5, 1.5, 2.5} {
		s := new(stream).fieldsHeader(2, timestamp, 1, 0, nil)
		fname := filepath.Join(dir, "flds"+string(rune('0'+i))+".p4")
		writeFile(t, fname, s.bytes())
		fnames = append(fnames, fname)
	}

	times, err := Times(fnames)
	if err != nil {
		t.Fatalf("Expected valid times, got error message %s.", err.Error())
	}
	if !eq.Float64s(times, []float64{0.5, 1.5, 2.5}) {
		t.Errorf("Expected times [0.5 1.5 2.5], got %v.", times)
	}

	// Movie dumps carry no timestamp.
	movie := filepath.Join(dir, "pmovie1.p4")
	writeFile(t, movie, movieStream(nil).bytes())
	if _, err := Times([]string{movie}); err == nil {
		t.Errorf("Expected a movie dump to be rejected.")
	}
}
