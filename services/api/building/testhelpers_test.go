package building

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

var t0 = time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)

func quarterHours(n int) []time.Time {
	idx := make([]time.Time, n)
	for i := range idx {
		idx[i] = t0.Add(time.Duration(i) * 15 * time.Minute)
	}
	return idx
}

func newBuilding(t *testing.T, name string, sensors []Sensor, cols map[string][]float64, rows int) *Building {
	t.Helper()
	tbl := NewTable(quarterHours(rows))
	for _, s := range sensors {
		if vals, ok := cols[s.Type]; ok {
			if err := tbl.SetColumn(s.Type, vals); err != nil {
				t.Fatalf("SetColumn(%q): %v", s.Type, err)
			}
		}
	}
	return &Building{Name: name, Sensors: sensors, Table: tbl}
}

func assertValues(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("[%d]: got %v, want NaN", i, got[i])
			}
			continue
		}
		if !scalar.EqualWithinAbs(got[i], want[i], tol) {
			t.Errorf("[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func column(t *testing.T, b *Building, name string) []float64 {
	t.Helper()
	vals, ok := b.Table.Column(name)
	if !ok {
		t.Fatalf("building %q: column %q missing (have %v)", b.Name, name, b.Table.Columns())
	}
	return vals
}
