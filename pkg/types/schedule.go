package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DayHours captures one weekday's opening window in "15:04" wall-clock form.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// WeeklySchedule maps lowercase weekday names to opening hours, persisted as JSONB.
type WeeklySchedule map[string]DayHours

// Value marshals the schedule into JSON for Postgres.
func (w WeeklySchedule) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the schedule map.
func (w *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("weekly schedule: unsupported scan type %T", value)
	}

	result := make(WeeklySchedule)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*w = result
	return nil
}
