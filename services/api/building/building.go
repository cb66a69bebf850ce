package building

import (
	"fmt"
	"math"
	"time"
)

// Sensor describes one measured channel of a building.
type Sensor struct {
	Type string `json:"type"`
	Desc string `json:"desc"`
	Unit string `json:"unit"`
}

// Building holds the sensors of one building and their readings.
type Building struct {
	Name    string
	Sensors []Sensor
	Table   *Table
}

// Collection maps building names to buildings. It is owned by a single
// request and never shared.
type Collection map[string]*Building

// Missing is the sentinel for an absent reading.
var Missing = math.NaN()

// IsMissing reports whether v holds no reading.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Table is a time-indexed set of numeric columns. Rows are ordered by
// timestamp and every column has exactly one value per row.
type Table struct {
	index   []time.Time
	columns []string
	values  map[string][]float64
}

// NewTable creates an empty table over the given row index.
func NewTable(index []time.Time) *Table {
	return &Table{
		index:  append([]time.Time(nil), index...),
		values: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.index)
}

// Index returns a copy of the row timestamps.
func (t *Table) Index() []time.Time {
	return append([]time.Time(nil), t.index...)
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns the values of a column. The slice is shared with the table.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.values[name]
	return vals, ok
}

// SetColumn replaces or appends a column. vals must have one entry per row.
func (t *Table) SetColumn(name string, vals []float64) error {
	if len(vals) != len(t.index) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(vals), len(t.index))
	}
	if _, ok := t.values[name]; !ok {
		t.columns = append(t.columns, name)
	}
	t.values[name] = vals
	return nil
}
