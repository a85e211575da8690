package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrInvalidFormat is returned by Import when the document is not an
// export of the expected feature.
var ErrInvalidFormat = errors.New("invalid history file format")

// ErrNotFound is returned when an entry id is not in the list.
var ErrNotFound = errors.New("history entry not found")

// Document is the export file layout.
type Document[T any] struct {
	Type     string            `json:"type"`
	Exported string            `json:"exported"`
	History  []Entry[T]        `json:"history"`
	Settings map[string]string `json:"settings,omitempty"`
}

// Export snapshots the list into a document tagged with tag.
func (m *Manager[T]) Export(tag string, settings map[string]string) Document[T] {
	return Document[T]{
		Type:     tag,
		Exported: m.clock().UTC().Format(TimeLayout),
		History:  m.List(),
		Settings: settings,
	}
}

// WriteExport writes an indented export document to w.
func (m *Manager[T]) WriteExport(w io.Writer, tag string, settings map[string]string) error {
	data, err := json.MarshalIndent(m.Export(tag, settings), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Import replaces the list with the history carried by data. The document
// must be tagged with tag and carry a history array; otherwise the list is
// left exactly as it was and ErrInvalidFormat is returned. The returned
// document holds the list as kept: bounded, with every entry given an id.
func (m *Manager[T]) Import(tag string, data []byte) (Document[T], error) {
	var head struct {
		Type    string          `json:"type"`
		History json.RawMessage `json:"history"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Document[T]{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if head.Type != tag {
		return Document[T]{}, fmt.Errorf("%w: type %q, want %q", ErrInvalidFormat, head.Type, tag)
	}
	trimmed := bytes.TrimSpace(head.History)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document[T]{}, fmt.Errorf("%w: missing history", ErrInvalidFormat)
	}

	var doc Document[T]
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document[T]{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	m.Replace(doc.History)
	doc.History = m.List()
	return doc, nil
}

// ExportFilename is the suggested file name for an export made at now.
func ExportFilename(f Feature, now time.Time) string {
	return fmt.Sprintf("%s-%s.json", f.FilePrefix, now.UTC().Format(time.DateOnly))
}
