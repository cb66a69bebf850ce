package building

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type sensorPayload struct {
	Type *string `json:"type"`
	Desc *string `json:"desc"`
	Unit *string `json:"unit"`
}

type buildingPayload struct {
	Sensors   []sensorPayload `json:"sensors"`
	Dataframe *string         `json:"dataframe"`
}

type encodedBuilding struct {
	Name      string   `json:"name"`
	Sensors   []Sensor `json:"sensors"`
	Dataframe string   `json:"dataframe"`
}

// Decode parses a building payload into a fresh Collection. The whole
// payload fails if any building is malformed.
func Decode(raw []byte) (Collection, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyPayload
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if entries == nil {
		return nil, &DecodeError{Err: errors.New("payload must be a JSON object")}
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Collection, len(entries))
	for _, name := range names {
		b, err := decodeBuilding(name, entries[name])
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return out, nil
}

// DecodeString is Decode for the string carried in a request envelope.
func DecodeString(payload string) (Collection, error) {
	return Decode([]byte(payload))
}

func decodeBuilding(name string, raw json.RawMessage) (*Building, error) {
	var p buildingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &DecodeError{Building: name, Err: err}
	}
	if p.Sensors == nil {
		return nil, decodeErr(name, "missing sensors")
	}
	if p.Dataframe == nil {
		return nil, decodeErr(name, "missing dataframe")
	}

	sensors := make([]Sensor, 0, len(p.Sensors))
	for i, s := range p.Sensors {
		switch {
		case s.Type == nil:
			return nil, decodeErr(name, "sensor %d: missing type", i)
		case s.Desc == nil:
			return nil, decodeErr(name, "sensor %d: missing desc", i)
		case s.Unit == nil:
			return nil, decodeErr(name, "sensor %d: missing unit", i)
		}
		sensors = append(sensors, Sensor{Type: *s.Type, Desc: *s.Desc, Unit: *s.Unit})
	}

	table, err := parseDataframe(*p.Dataframe)
	if err != nil {
		return nil, &DecodeError{Building: name, Err: fmt.Errorf("dataframe: %w", err)}
	}

	return &Building{Name: name, Sensors: sensors, Table: table}, nil
}

// parseDataframe reads a column-oriented table: column -> epoch ms -> value.
// Column order follows the input.
func parseDataframe(raw string) (*Table, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}

	var names []string
	columns := make(map[string]map[int64]float64)
	rows := make(map[int64]struct{})

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var cells map[string]*float64
		if err := dec.Decode(&cells); err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}

		col := make(map[int64]float64, len(cells))
		for key, v := range cells {
			ms, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("column %q: invalid timestamp %q", name, key)
			}
			rows[ms] = struct{}{}
			if v == nil {
				col[ms] = Missing
				continue
			}
			col[ms] = *v
		}

		if _, seen := columns[name]; !seen {
			names = append(names, name)
		}
		columns[name] = col
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after table")
	}

	keys := make([]int64, 0, len(rows))
	for ms := range rows {
		keys = append(keys, ms)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	index := make([]time.Time, len(keys))
	for i, ms := range keys {
		index[i] = time.UnixMilli(ms).UTC()
	}

	table := NewTable(index)
	for _, name := range names {
		col := columns[name]
		vals := make([]float64, len(keys))
		for i, ms := range keys {
			v, ok := col[ms]
			if !ok {
				v = Missing
			}
			vals[i] = v
		}
		if err := table.SetColumn(name, vals); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Encode serializes a Collection in the shape Decode consumes.
func Encode(c Collection) ([]byte, error) {
	out := make(map[string]encodedBuilding, len(c))
	for key, b := range c {
		df, err := encodeDataframe(b.Table)
		if err != nil {
			return nil, fmt.Errorf("encode building %q: %w", key, err)
		}
		sensors := b.Sensors
		if sensors == nil {
			sensors = []Sensor{}
		}
		out[key] = encodedBuilding{Name: b.Name, Sensors: sensors, Dataframe: df}
	}
	return json.Marshal(out)
}

func encodeDataframe(t *Table) (string, error) {
	if t == nil {
		return "{}", nil
	}

	keys := make([][]byte, t.Len())
	for i, ts := range t.index {
		keys[i] = strconv.AppendQuote(nil, strconv.FormatInt(ts.UnixMilli(), 10))
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for ci, name := range t.columns {
		if ci > 0 {
			buf.WriteByte(',')
		}
		quoted, err := json.Marshal(name)
		if err != nil {
			return "", err
		}
		buf.Write(quoted)
		buf.WriteString(":{")

		num := make([]byte, 0, 32)
		for i, v := range t.values[name] {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[i])
			buf.WriteByte(':')
			if math.IsNaN(v) || math.IsInf(v, 0) {
				buf.WriteString("null")
				continue
			}
			num = appendFloat(num[:0], v)
			buf.Write(num)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// appendFloat formats v the way encoding/json does.
func appendFloat(b []byte, v float64) []byte {
	format := byte('f')
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b = strconv.AppendFloat(b, v, format, -1, 64)
	if format == 'e' {
		// e-09 -> e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return b
}
