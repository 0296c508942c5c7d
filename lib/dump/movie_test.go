package dump

import (
	"testing"

	"github.com/lspsuite/p4/lib/eq"
)

// movieStream builds a movie dump with three enabled params (x, y, ux) and
// the given per-frame particle counts. Particle r of frame f has id
// 100*f + r and param values r+0.5, r+1.5, r+2.5.
func movieStream(counts []int32) *stream {
	flags := []int32{0, 1, 1, 0, 1, 0, 0, 0}
	units := make([]string, len(flags))
	for i := range units {
		units[i] = "unit"
	}
	s := new(stream).movieHeader(2, 0, 0, 0, flags, units)

	for f, n := range counts {
		s.f(float32(f) * 0.5).i(int32(10*(f+1)), n)
		for r := int32(0); r < n; r++ {
			s.i(int32(100*f) + r)
			s.f(float32(r)+0.5, float32(r)+1.5, float32(r)+2.5)
		}
	}
	return s
}

func TestReadFrames(t *testing.T) {
	counts := []int32{0, 2, 5}
	c := movieStream(counts).cursor()

	hd, err := ReadHeader(c)
	if err != nil {
		t.Fatalf("Expected valid header, got error message %s.", err.Error())
	}
	frames, err := ReadFrames(c, hd)
	if err != nil {
		t.Fatalf("Expected valid frames, got error message %s.", err.Error())
	}

	if len(frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d.", len(frames))
	}
	for f, frame := range frames {
		if frame.N != int(counts[f]) {
			t.Errorf("Expected frame %d to have %d rows, got %d.",
				f, counts[f], frame.N)
		}
		if frame.Time != float32(f)*0.5 {
			t.Errorf("Expected frame %d at t = %g, got %g.",
				f, float32(f)*0.5, frame.Time)
		}
		if frame.Step != int32(10*(f+1)) {
			t.Errorf("Expected frame %d at step %d, got %d.",
				f, 10*(f+1), frame.Step)
		}
		if !eq.Strings(frame.Labels, []string{"x", "y", "ux"}) {
			t.Errorf("Expected labels [x y ux], got %v.", frame.Labels)
		}

		expID := make([]int32, counts[f])
		expX := make([]float32, counts[f])
		for r := range expID {
			expID[r] = int32(100*f + r)
			expX[r] = float32(r) + 0.5
		}
		if !eq.Int32s(frame.ID, expID) {
			t.Errorf("Expected frame %d ids %v, got %v.",
				f, expID, frame.ID)
		}
		if !eq.Float32s(frame.Col("x"), expX) {
			t.Errorf("Expected frame %d x column %v, got %v.",
				f, expX, frame.Col("x"))
		}
		if frame.Col("z") != nil {
			t.Errorf("Expected no column for the disabled param 'z'.")
		}
	}
}

func TestReadFramesEmptyStream(t *testing.T) {
	c := movieStream(nil).cursor()

	hd, err := ReadHeader(c)
	if err != nil {
		t.Fatalf("Expected valid header, got error message %s.", err.Error())
	}
	frames, err := ReadFrames(c, hd)
	if err != nil {
		t.Fatalf("Expected valid frames, got error message %s.", err.Error())
	}
	if len(frames) != 0 {
		t.Errorf("Expected no frames, got %d.", len(frames))
	}
}

func TestReadFramesTruncated(t *testing.T) {
	// A frame that declares 5 particles but only stores 3.
	s := movieStream([]int32{2})
	s.f(0.5).i(20, 5)
	for r := int32(0); r < 3; r++ {
		s.i(r).f(0, 0, 0)
	}
	c := s.cursor()

	hd, err := ReadHeader(c)
	if err != nil {
		t.Fatalf("Expected valid header, got error message %s.", err.Error())
	}
	if _, err := ReadFrames(c, hd); err == nil {
		t.Errorf("Expected a truncated movie payload to fail.")
	}
}

func TestReadFramesWrongFamily(t *testing.T) {
	c := new(stream).extractHeader(1, []string{"t"}).cursor()
	hd, err := ReadHeader(c)
	if err != nil {
		t.Fatalf("Expected valid header, got error message %s.", err.Error())
	}
	if _, err := ReadFrames(c, hd); err == nil {
		t.Errorf("Expected frame reconstruction of an extraction dump " +
			"to fail.")
	}
}
