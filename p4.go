/*p4 prints summaries of LSP .p4 dump files. By default it decodes and prints
each file's header; with --times it prints just the timestamps of fields and
scalars dumps, one per line.

	$ p4 flds00100.p4 sclr00100.p4.gz
	$ p4 --times flds*.p4
*/
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/lspsuite/p4/lib/dump"
)

var times = flag.Bool("times", false,
	"print only the timestamps of fields/scalars dumps")

func main() {
	flag.Parse()
	files := flag.Args()
	if len(files) == 0 {
		die("p4 expects at least one dump file.\n" +
			"Usage: p4 [--times] file.p4 [file2.p4 ...]")
	}

	if *times {
		ts, err := dump.Times(files)
		if err != nil {
			die("%s", err.Error())
		}
		for _, t := range ts {
			fmt.Printf("%g\n", t)
		}
		return
	}

	for _, fname := range files {
		hd, size, err := dump.ReadHeaderFile(fname)
		if err != nil {
			die("%s", err.Error())
		}
		printHeader(fname, hd, size)
	}
}

func printHeader(fname string, hd *dump.Header, size int64) {
	fmt.Printf("%s: %s dump (version %d, %d-byte header)\n",
		fname, hd.DumpType, hd.DataVersion, size)
	fmt.Printf("  title: %q, revision: %q\n", hd.Title, hd.Revision)

	switch {
	case hd.Fields != nil:
		fmt.Printf("  t = %g, geometry %d, %d domains\n",
			hd.Fields.Timestamp, hd.Fields.Geometry, hd.Fields.Domains)
		for _, q := range hd.Fields.Quantities {
			fmt.Printf("    %s [%s]\n", q.Name, q.Unit)
		}
	case hd.Movie != nil:
		fmt.Printf("  geometry %d, scale flags (%d, %d, %d)\n",
			hd.Movie.Geometry, hd.Movie.SFlagsX, hd.Movie.SFlagsY,
			hd.Movie.SFlagsZ)
		for _, p := range hd.Movie.Params {
			fmt.Printf("    %s [%s]\n", p.Label, p.Unit)
		}
	case hd.Extract != nil:
		fmt.Printf("  geometry %d, quantities %v\n",
			hd.Extract.Geometry, hd.Extract.Quantities)
	}
}

// die reports an error to stderr and exits. Errors here are things the user
// can fix (bad file names, non-dump inputs), so no stack trace is printed.
func die(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "p4 exited early with the following error:\n"+
		format+"\n", a...)
	os.Exit(1)
}
