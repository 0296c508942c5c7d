package textio

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/lspsuite/p4/lib/zopen"
)

// Probe is one history data item: its declared name and unit.
type Probe struct {
	Name, Unit string
}

var (
	historyCountRe = regexp.MustCompile(`^#Number of data items: ([0-9]+)$`)
	historyProbeRe = regexp.MustCompile(`^#[0-9]+: (.*?): (.*?)$`)
)

// ReadHistory reads the history sidecar: a commented header declaring the
// recorded data items, followed by one whitespace-separated row of values
// per time step. The first declared item is the time axis and is dropped
// from the output. The returned matrix has one row per remaining probe and
// one column per time step.
func ReadHistory(fname string) (*mat.Dense, []Probe, error) {
	rc, err := zopen.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", fname, err.Error())
	}
	lines := strings.Split(string(b), "\n")

	nitems := -1
	var items []Probe
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if m := historyCountRe.FindStringSubmatch(line); m != nil {
			nitems, _ = strconv.Atoi(m[1])
		} else if m := historyProbeRe.FindStringSubmatch(line); m != nil {
			items = append(items, Probe{Name: m[1], Unit: m[2]})
		}
	}
	if nitems < 0 {
		return nil, nil, fmt.Errorf("%s has no 'Number of data items' "+
			"header entry, so it is not a history file", fname)
	}
	if len(items) != nitems {
		return nil, nil, fmt.Errorf("%s declares %d data items, but its "+
			"header describes %d", fname, nitems, len(items))
	}
	if nitems < 2 {
		return nil, nil, fmt.Errorf("%s declares no data items beyond "+
			"the time axis", fname)
	}

	// Everything after the header block is data: the header is the item
	// list plus four fixed lines.
	var rows [][]float64
	for i, line := range lines {
		if i < nitems+4 {
			continue
		}
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		if len(f) != nitems {
			return nil, nil, fmt.Errorf("%s: data line %d has %d values, "+
				"but %d data items are declared", fname, i+1, len(f), nitems)
		}
		row := make([]float64, nitems)
		for j := range f {
			if row[j], err = strconv.ParseFloat(f[j], 64); err != nil {
				return nil, nil, fmt.Errorf("%s: data line %d, field %d "+
					"should be a number, but is '%s'", fname, i+1, j+1, f[j])
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s contains no data rows", fname)
	}

	// Transpose to (probe, step) and drop the time row.
	nProbes, nSteps := nitems-1, len(rows)
	values := mat.NewDense(nProbes, nSteps, nil)
	for j, row := range rows {
		for i := 0; i < nProbes; i++ {
			values.Set(i, j, row[i+1])
		}
	}
	return values, items[1:], nil
}
