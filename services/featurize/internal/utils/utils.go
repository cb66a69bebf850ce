package utils

import (
	"fmt"
	"os"

	"github.com/02loveslollipop/building-feature-engineering/services/api/building"
)

// ReadPayload loads a building payload from disk.
func ReadPayload(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}
	return string(raw), nil
}

// WritePayload writes the result to path, or stdout when path is empty.
func WritePayload(path, payload string) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, payload)
		return err
	}
	return os.WriteFile(path, []byte(payload), 0o644)
}

// ApplyLocal runs the named transform in-process.
func ApplyLocal(transform, payload string) (string, error) {
	t, ok := building.Lookup(transform)
	if !ok {
		return "", fmt.Errorf("unknown transform %q", transform)
	}
	out, err := building.Run(t, payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Summary counts buildings, sensors and rows of an encoded payload.
type Summary struct {
	Buildings int
	Sensors   int
	Rows      int
}

// Summarize decodes payload for logging.
func Summarize(payload string) (Summary, error) {
	c, err := building.DecodeString(payload)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	for _, b := range c {
		s.Buildings++
		s.Sensors += len(b.Sensors)
		s.Rows += b.Table.Len()
	}
	return s, nil
}
