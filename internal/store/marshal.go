package store

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/roach88/strata/internal/ir"
)

// marshalContent converts a declaration snapshot to canonical JSON TEXT.
func marshalContent(d ir.Declaration) (string, error) {
	data, err := ir.MarshalCanonical(d.Canonical())
	if err != nil {
		return "", fmt.Errorf("marshal content: %w", err)
	}
	return string(data), nil
}

// unmarshalContent parses stored canonical JSON. Numbers decode as
// json.Number so enum integer values keep full precision.
func unmarshalContent(data string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var content map[string]any
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	return content, nil
}

func marshalAxis(versions []ir.Version) (string, error) {
	data, err := json.Marshal(versions)
	if err != nil {
		return "", fmt.Errorf("marshal axis: %w", err)
	}
	return string(data), nil
}

func unmarshalAxis(data string) ([]ir.Version, error) {
	var versions []ir.Version
	if err := json.Unmarshal([]byte(data), &versions); err != nil {
		return nil, fmt.Errorf("unmarshal axis: %w", err)
	}
	return versions, nil
}
