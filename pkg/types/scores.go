package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Scores represents a flexible category scoring map persisted as JSONB
// (e.g. {"service": 5, "cleanliness": 4}).
type Scores map[string]int

// Value marshals the map into JSON for Postgres.
func (s Scores) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (s *Scores) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scores: unsupported scan type %T", value)
	}

	result := make(Scores)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*s = result
	return nil
}
