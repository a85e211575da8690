package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout matches the millisecond ISO-8601 form used by exported files.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one stamped history record. It encodes as a single flat JSON
// object: the record's own fields plus "id" and "timestamp".
type Entry[T any] struct {
	ID        int64
	Timestamp time.Time
	Record    T
}

type entryMeta struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
}

func (e Entry[T]) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}

	raw, err := json.Marshal(e.Record)
	if err != nil {
		return nil, err
	}
	if string(raw) != "null" {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("history record must encode as a JSON object: %w", err)
		}
	}

	fields["id"], _ = json.Marshal(e.ID)
	fields["timestamp"], _ = json.Marshal(e.Timestamp.UTC().Format(TimeLayout))
	return json.Marshal(fields)
}

func (e *Entry[T]) UnmarshalJSON(data []byte) error {
	var meta entryMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	e.ID = meta.ID
	e.Record = rec
	e.Timestamp = time.Time{}
	if meta.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339Nano, meta.Timestamp)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", meta.Timestamp, err)
		}
		e.Timestamp = ts
	}
	return nil
}
