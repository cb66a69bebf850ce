package building

// Transform mutates a collection in place.
type Transform struct {
	Name  string
	Apply func(Collection) error
}

var (
	// DiffTransform adds first-difference columns for consumption sensors.
	DiffTransform = Transform{Name: "diff", Apply: ApplyDiff}
	// MinMaxTransform rescales every column to [0, 1].
	MinMaxTransform = Transform{Name: "minmax", Apply: MinMaxNormalization}
	// MeanTransform rescales every column to a standard score.
	MeanTransform = Transform{Name: "mean", Apply: MeanNormalization}
)

// Lookup returns the transform registered under name.
func Lookup(name string) (Transform, bool) {
	switch name {
	case DiffTransform.Name:
		return DiffTransform, true
	case MinMaxTransform.Name:
		return MinMaxTransform, true
	case MeanTransform.Name:
		return MeanTransform, true
	}
	return Transform{}, false
}

// Run decodes payload, applies t and encodes the result.
func Run(t Transform, payload string) ([]byte, error) {
	c, err := DecodeString(payload)
	if err != nil {
		return nil, err
	}
	if err := t.Apply(c); err != nil {
		return nil, err
	}
	return Encode(c)
}
