/*package zopen opens simulation output files, transparently decompressing
them when the file name carries a compression suffix: ".gz" for gzip and
".zst" for zstd. Anything else is opened as a plain file.
*/
package zopen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/gzip"
)

// decompressedFile pairs a decompressor with the file underneath it so that
// Close releases both.
type decompressedFile struct {
	z  io.ReadCloser
	fp *os.File
}

func (f *decompressedFile) Read(b []byte) (int, error) { return f.z.Read(b) }

func (f *decompressedFile) Close() error {
	zErr := f.z.Close()
	fpErr := f.fp.Close()
	if zErr != nil {
		return zErr
	}
	return fpErr
}

// Open opens fname for reading. Plain files come back as the *os.File
// itself, so they stay seekable; compressed files come back wrapped in the
// matching decompressor.
func Open(fname string) (io.ReadCloser, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(fname) {
	case ".gz":
		zr, err := gzip.NewReader(fp)
		if err != nil {
			fp.Close()
			return nil, fmt.Errorf("the file %s has a .gz suffix, but is "+
				"not valid gzip: %s", fname, err.Error())
		}
		return &decompressedFile{z: zr, fp: fp}, nil
	case ".zst":
		return &decompressedFile{z: zstd.NewReader(fp), fp: fp}, nil
	}
	return fp, nil
}
