package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/pcconf/internal/fingerprint"
)

// marshalOffered converts an offered-id list to canonical JSON TEXT.
func marshalOffered(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := fingerprint.MarshalCanonical(ids)
	if err != nil {
		return "", fmt.Errorf("marshal offered: %w", err)
	}
	return string(data), nil
}

// unmarshalOffered parses the offered column. An empty list reads back as
// nil so stored steps compare equal to the session's own.
func unmarshalOffered(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal offered: %w", err)
	}
	return ids, nil
}
