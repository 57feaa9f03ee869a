package models

import (
	"encoding/json"
	"time"
)

// timeLayouts lists the formats the interpreter has been observed to emit.
// Naive timestamps carry no zone and are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UTCTime is a time.Time that tolerates the interpreter's mixed timestamp
// formats. An unparsable value decodes to the zero time instead of failing
// the whole payload; callers that care check IsZero.
type UTCTime struct {
	time.Time
}

func (t *UTCTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t UTCTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}
