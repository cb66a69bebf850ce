package building

// DiffSuffix is appended to the type of a differenced sensor.
const DiffSuffix = " Diff"

// DiffUnitSuffix is appended to the unit of a differenced sensor.
const DiffUnitSuffix = " / 15 min"

var consumptionUnits = map[string]struct{}{
	"kWh":   {},
	"m³":    {},
	"kvarh": {},
}

// IsConsumptionUnit reports whether unit measures cumulative consumption.
// Units are matched exactly.
func IsConsumptionUnit(unit string) bool {
	_, ok := consumptionUnits[unit]
	return ok
}

// ApplyDiff adds a first-difference column and sensor for every sensor
// measured in a consumption unit. Every building is checked before any is
// modified, so a mismatch leaves the collection untouched.
func ApplyDiff(c Collection) error {
	type derived struct {
		sensor Sensor
		values []float64
	}

	// Differences are taken from the table as it was before this call.
	plans := make(map[string][]derived, len(c))
	for key, b := range c {
		var selected []derived
		for _, s := range b.Sensors {
			if !IsConsumptionUnit(s.Unit) {
				continue
			}
			if b.Table == nil || !b.Table.HasColumn(s.Type) {
				return &SchemaMismatchError{Building: b.Name, Sensor: s.Type}
			}
			src, _ := b.Table.Column(s.Type)
			selected = append(selected, derived{sensor: s, values: Diff(src)})
		}
		plans[key] = selected
	}

	for key, selected := range plans {
		b := c[key]
		for _, d := range selected {
			s := d.sensor
			if err := b.Table.SetColumn(s.Type+DiffSuffix, d.values); err != nil {
				return err
			}
			b.Sensors = append(b.Sensors, Sensor{
				Type: s.Type + DiffSuffix,
				Desc: s.Desc,
				Unit: s.Unit + DiffUnitSuffix,
			})
		}
	}
	return nil
}

// Diff returns the first difference of vals. The first entry is Missing.
func Diff(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		if i == 0 {
			out[i] = Missing
			continue
		}
		out[i] = vals[i] - vals[i-1]
	}
	return out
}
